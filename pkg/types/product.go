package types

import "github.com/shopspring/decimal"

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"finalPrice,omitempty"`
	OnSale        bool             `json:"onSale"`
	Images        []string         `json:"images,omitempty"`
	Sizes         []string         `json:"sizes,omitempty"`
	Colors        []string         `json:"colors,omitempty"`
	CategoryID    string           `json:"categoryId,omitempty"`
	Gender        string           `json:"gender,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
}

// EffectivePrice is the sale price when the product is on sale, otherwise the
// list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// FeaturedImage returns the first product image, or empty when there is none.
func (p Product) FeaturedImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	Author  string `json:"author,omitempty"`
}
