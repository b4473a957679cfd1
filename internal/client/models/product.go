package models

// Product is a catalogue item as served by GET /products.
type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// ProductFilter narrows a catalogue listing. Empty fields are not sent.
type ProductFilter struct {
	Search   string
	Category string
}
