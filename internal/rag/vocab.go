package rag

// Genres is the closed set of genre values stored in the index metadata.
// Facet extraction is schema-constrained to these exact strings and the
// filter builder matches them verbatim, so the list must stay in sync with
// the ingested catalog.
var Genres = []string{
	"Action & Adventure",
	"Reality",
	"SF",
	"Sci-Fi & Fantasy",
	"가족",
	"공포",
	"다큐멘터리",
	"드라마",
	"로맨스",
	"모험",
	"미스터리",
	"범죄",
	"스릴러",
	"애니메이션",
	"액션",
	"역사",
	"음악",
	"전쟁",
	"코미디",
	"판타지",
}

// Platforms is the closed set of OTT platform values stored in the index
// metadata.
var Platforms = []string{
	"Disney Plus",
	"FilmBox+",
	"Netflix",
	"Netflix Standard with Ads",
	"TVING",
	"Watcha",
	"wavve",
}
