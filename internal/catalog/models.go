package catalog

// Product is the single validated product value constructed at the fetch
// boundary. Downstream code trusts it and never re-validates.
type Product struct {
	ID                 string   `json:"_id"`
	Title              string   `json:"title"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Description        string   `json:"description"`
	Tags               []string `json:"tags"`
	Slug               Slug     `json:"slug"`
	IsNew              bool     `json:"isNew"`
	Stock              int      `json:"inventoryCount"`
	Image              *Image   `json:"productImage,omitempty"`
}

type Slug struct {
	Current string `json:"current"`
}

type Image struct {
	Asset AssetRef `json:"asset"`
}

type AssetRef struct {
	Ref string `json:"_ref"`
}

// FilterCriteria mirrors the storefront filter panel. Zero values mean the
// corresponding filter is unset.
type FilterCriteria struct {
	Tag          string  `json:"tag"`
	PriceCeiling float64 `json:"priceRange"`
	DiscountOnly bool    `json:"discountOnly"`
	NewOnly      bool    `json:"newProductOnly"`
}

// Empty reports whether no filter is active.
func (f FilterCriteria) Empty() bool {
	return f.Tag == "" && f.PriceCeiling <= 0 && !f.DiscountOnly && !f.NewOnly
}
