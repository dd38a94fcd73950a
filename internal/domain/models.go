package domain

// Product describes one catalog entry. The catalog is static; prices are
// display prices in rubles.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

// CartLine is the durable per-user cart row. Quantity is always >= 1;
// zero means the line is deleted, never stored.
type CartLine struct {
	ProductID int `db:"product_id" json:"product_id"`
	Quantity  int `db:"quantity" json:"quantity"`
}

// LocalCartItem is the denormalized line kept in the client-side cache,
// with display fields captured at the moment of insertion.
type LocalCartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}
