package domain

// DetectedRegion is one editable region proposed by a platform adapter.
// Identifier is the platform-level region reference usable with read/write
// (WordPress: "page:<id>" or "post:<id>"; universal: a CSS selector path).
type DetectedRegion struct {
	Identifier  string `json:"identifier"`
	PreviewText string `json:"preview_text"`
	Path        string `json:"path"`
}

// DetectedSections is the facade-level detection result. Pages and Posts are
// populated for WordPress sites only; universal detection returns a flat
// Regions list.
type DetectedSections struct {
	Regions []DetectedRegion `json:"regions"`
	Pages   []DetectedRegion `json:"pages,omitempty"`
	Posts   []DetectedRegion `json:"posts,omitempty"`
}
