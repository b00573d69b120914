package domain

// CategoryRecord is a single <category> entry of the feed.
type CategoryRecord struct {
	ID        string `json:"id"`
	ParentID  string `json:"parent_id,omitempty"`
	HasParent bool   `json:"has_parent"` // false for roots
	Label     string `json:"label"`
}

// OfferRef is the category reference of a single <offer>.
type OfferRef struct {
	CategoryID string `json:"category_id"`
}

// Feed holds everything the parser extracts from a catalog document.
type Feed struct {
	Categories []CategoryRecord `json:"categories"`
	Offers     []OfferRef       `json:"offers"`
}
