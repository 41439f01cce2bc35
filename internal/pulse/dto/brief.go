package dto

// BriefPack is the retrieval pack handed to the generative backend: the
// current snapshot, top headlines, and open tasks, plus a rendered text form.
type BriefPack struct {
	Time      string         `json:"time"`
	Pulse     MarketSnapshot `json:"pulse"`
	Headlines []Headline     `json:"headlines"`
	Tasks     []TaskResponse `json:"tasks"`
	Text      string         `json:"text"`
}

// BriefResponse wraps a generated (or draft fallback) brief.
type BriefResponse struct {
	Brief string `json:"brief"`
}
