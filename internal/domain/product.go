package domain

// Product is a catalog entry.
type Product struct {
	ID       int64   `json:"productId"`
	Name     string  `json:"product_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name     *string
	Quantity *int
	Price    *float64
}

// Apply returns a copy of p with the patch fields applied.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Quantity != nil {
		p.Quantity = *pp.Quantity
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	return p
}

// Empty reports whether the patch changes nothing.
func (pp ProductPatch) Empty() bool {
	return pp.Name == nil && pp.Quantity == nil && pp.Price == nil
}
