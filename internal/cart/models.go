package cart

// Line is a single cart entry: a product reference plus a quantity. The
// product's identity and price are snapshotted when the line is created so
// totals stay computable without refetching the catalog. Quantity is the
// per-cart amount and is distinct from the catalog-wide stock count.
type Line struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Slug      string  `json:"slug"`
	Quantity  int     `json:"quantity"`
}

// CartResponse is the wire shape for cart reads.
type CartResponse struct {
	Items    []Line  `json:"items"`
	SubTotal float64 `json:"sub_total"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}
