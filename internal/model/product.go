package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ameyabis/projet-7-api-rest/internal/hateoas"
)

// Product is a catalog item. Products are global (not tenant-scoped) and
// read-only through the API; they only enter the system via seeding.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"size:1000;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Relations declares the hypermedia links attached to a serialized product.
func (p Product) Relations() []hateoas.Relation {
	return []hateoas.Relation{
		{Rel: "self", Route: RouteOneProduct, Params: hateoas.Param("id", p.ID)},
		{Rel: "all_products", Route: RouteAllProducts},
	}
}
