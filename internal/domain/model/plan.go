package model

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents a subscription plan shown on the pricing page. Prices
// are mirrored from the payment provider by the price webhook handlers.
type Plan struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                 string    `gorm:"not null;size:200" json:"name"`
	Description          string    `gorm:"size:500" json:"description"`
	StripeProductID      string    `gorm:"unique;not null;size:100" json:"stripe_product_id"`
	StripePriceIDMonthly *string   `gorm:"size:100" json:"stripe_price_id_monthly,omitempty"`
	StripePriceIDYearly  *string   `gorm:"size:100" json:"stripe_price_id_yearly,omitempty"`
	PriceMonthlyCents    *int64    `json:"price_monthly_cents,omitempty"`
	PriceYearlyCents     *int64    `json:"price_yearly_cents,omitempty"`
	SortOrder            int       `gorm:"default:0" json:"sort_order"`
	IsActive             bool      `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Plan) TableName() string {
	return "plans"
}
