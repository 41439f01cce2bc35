package repository

import (
	"fmt"
	"strings"

	"marketpulse/internal/pulse/dto"
)

const maxPromptHeadlines = 20

// BuildDecisionPrompt assembles the structured-output prompt for a decision
// record. Excerpts, keyed by headline link, are optional.
func BuildDecisionPrompt(snapshot dto.MarketSnapshot, headlines []dto.Headline, excerpts map[string]string) string {
	var sb strings.Builder

	sb.WriteString("MARKET SNAPSHOT:\n")
	for _, q := range snapshot {
		if q.Available() {
			sb.WriteString(fmt.Sprintf("- %s: %.2f (%+.2f%%)\n", q.Label, *q.Value, *q.PctChange))
		} else {
			sb.WriteString(fmt.Sprintf("- %s: unavailable\n", q.Label))
		}
	}

	sb.WriteString("\nHEADLINES:\n")
	for i, h := range headlines {
		if i >= maxPromptHeadlines {
			break
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", h.Source, h.Title))
		if excerpt, ok := excerpts[h.Link]; ok && excerpt != "" {
			sb.WriteString(fmt.Sprintf("  excerpt: %s\n", excerpt))
		}
	}

	return fmt.Sprintf(`You are a macro market strategist. Using the data below, produce a market posture summary.

%s
Respond with ONLY a valid JSON object, no markdown fences, matching exactly this schema:
{
  "regime": "one-line regime label",
  "whatChanged": ["notable moves since yesterday"],
  "winners": ["asset classes or sectors favored now"],
  "losers": ["asset classes or sectors under pressure"],
  "opportunityZones": ["where to look for entries"],
  "whatBreaks": ["conditions that would invalidate this view"],
  "timeHorizons": {
    "shortTerm": {"horizon": "1-5 days", "view": "...", "action": "..."},
    "mediumTerm": {"horizon": "2-8 weeks", "view": "...", "action": "..."},
    "longTerm": {"horizon": "3-12 months", "view": "...", "action": "..."}
  },
  "structuralContext": "one or two sentences of structural backdrop",
  "marketSentiment": "one-line sentiment read",
  "signals": ["levels or events to watch"]
}

Rules:
- Every list must have at least one entry.
- Be specific to the snapshot values and headlines given.
- Do not invent prices that contradict the snapshot.`, sb.String())
}

// BuildBriefPrompt wraps the morning brief pack for narrative generation.
func BuildBriefPrompt(pack string) string {
	return fmt.Sprintf(`You are writing a trader's morning brief. Turn the notes below into a short plain-text brief of at most 6 sentences. Lead with the market read, then the headlines that matter, then open tasks. No markdown, no bullet points, no preamble.

%s`, pack)
}
