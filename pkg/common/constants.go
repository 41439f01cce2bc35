package common

const (
	CacheKeyHeadlines = "headlines"
	CacheKeyPulse     = "pulse"
	CacheKeyDecision  = "market_decision"

	DecisionSourceGenerative = "generative"
	DecisionSourceFallback   = "fallback"
	DecisionSourceCache      = "cache"
)
