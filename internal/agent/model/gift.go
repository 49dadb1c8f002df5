package model

// GiftCandidate is one summarised Google Shopping result. Empty fields are
// dropped at the JSON layer so the model context stays compact.
type GiftCandidate struct {
	Position       int     `json:"position,omitempty"`
	Title          string  `json:"title,omitempty"`
	Price          string  `json:"price,omitempty"`
	ExtractedPrice float64 `json:"extracted_price,omitempty"`
	Source         string  `json:"source,omitempty"`
	ProductLink    string  `json:"product_link,omitempty"`
	Thumbnail      string  `json:"thumbnail,omitempty"`
	ProductAPI     string  `json:"serpapi_product_api,omitempty"`
	Description    string  `json:"description,omitempty"`
	Shipping       string  `json:"shipping,omitempty"`
}

// GiftCard is one normalised candidate card ready for UI rendering.
type GiftCard struct {
	Title     string  `json:"title"`
	Price     string  `json:"price,omitempty"`
	Link      string  `json:"link,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Source    string  `json:"source,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	Summary   string  `json:"summary,omitempty"`
}

// GiftSection groups cards under a themed heading in the assistant's reply.
type GiftSection struct {
	Title   string     `json:"title"`
	Summary string     `json:"summary,omitempty"`
	Cards   []GiftCard `json:"cards,omitempty"`
}
