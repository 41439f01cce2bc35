package config

import "marketpulse/internal/pulse/dto"

// DefaultFeedSources is the built-in source list, Australia and USA first.
var DefaultFeedSources = []dto.FeedSource{
	{Name: "AFR Markets", URL: "https://www.afr.com/markets.rss"},
	{Name: "AFR Companies", URL: "https://www.afr.com/companies.rss"},
	{Name: "RBA Media Releases", URL: "https://www.rba.gov.au/rss/rss-cb-media-releases.xml"},
	{Name: "ABC Business", URL: "https://www.abc.net.au/news/feed/51892/rss.xml"},
	{Name: "WSJ Markets", URL: "https://feeds.a.dj.com/rss/RSSMarketsMain.xml"},
	{Name: "Reuters Markets", URL: "https://www.reuters.com/markets/rss"},
	{Name: "US Fed Press Releases", URL: "https://www.federalreserve.gov/feeds/press_all.xml"},
	{Name: "CNBC Markets", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html"},
	{Name: "MarketWatch", URL: "https://www.marketwatch.com/rss/topstories"},
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
	{Name: "FT Markets", URL: "https://www.ft.com/markets?format=rss"},
	{Name: "Bloomberg Markets", URL: "https://feeds.bloomberg.com/markets/news.rss"},
}

// DefaultSymbols is the built-in pulse symbol table. Roles feed the decision
// synthesizer's driver lookup.
var DefaultSymbols = []dto.SymbolSpec{
	{Label: "S&P 500", Symbol: "GSPC", Type: dto.InstrumentIndex, Role: dto.RoleEquity},
	{Label: "NASDAQ", Symbol: "IXIC", Type: dto.InstrumentIndex, Role: dto.RoleGrowth},
	{Label: "Dow Jones", Symbol: "DJI", Type: dto.InstrumentIndex, Role: dto.RoleNone},
	{Label: "VIX", Symbol: "VIX", Type: dto.InstrumentIndex, Role: dto.RoleVolatility},
	{Label: "ASX 200", Symbol: "AXJO", Type: dto.InstrumentIndex, Role: dto.RoleNone},
	{Label: "AUD/USD", Symbol: "AUDUSD=X", Type: dto.InstrumentForex, Role: dto.RoleFX},
	{Label: "Gold", Symbol: "GC=F", Type: dto.InstrumentCommodity, Role: dto.RoleCommodity},
	{Label: "Oil (WTI)", Symbol: "CL=F", Type: dto.InstrumentCommodity, Role: dto.RoleNone},
	{Label: "10Y Treasury", Symbol: "TNX", Type: dto.InstrumentBond, Role: dto.RoleRate},
}

// DefaultPriorityKeywords marks headlines relevant to the Australia/USA
// focus. Deliberately broad; narrow it per deployment if too much matches.
var DefaultPriorityKeywords = []string{
	"australia", "australian", "sydney", "melbourne", "rba", "asx", "aud",
	"usa", "us", "united states", "federal reserve", "fed", "wall street",
	"nasdaq", "s&p", "dow", "new york", "washington", "treasury", "dollar",
	"market", "economy", "inflation", "rates", "interest", "gdp", "employment",
}
