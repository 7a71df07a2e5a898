package shipping

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rule is a configured pricing band for one shipping method. Scope fields left
// nil apply to every store, warehouse, country, state or zip.
type Rule struct {
	ID               int     `json:"id"`
	ShippingMethodID int     `json:"shipping_method_id"`
	StoreID          *int    `json:"store_id,omitempty"`
	WarehouseID      *int    `json:"warehouse_id,omitempty"`
	CountryID        *int    `json:"country_id,omitempty"`
	StateProvinceID  *int    `json:"state_province_id,omitempty"`
	Zip              *string `json:"zip,omitempty"`

	WeightFrom        decimal.Decimal `json:"weight_from"`
	WeightTo          decimal.Decimal `json:"weight_to"`
	OrderSubtotalFrom decimal.Decimal `json:"order_subtotal_from"`
	OrderSubtotalTo   decimal.Decimal `json:"order_subtotal_to"`

	AdditionalFixedCost      decimal.Decimal `json:"additional_fixed_cost"`
	RatePerWeightUnit        decimal.Decimal `json:"rate_per_weight_unit"`
	LowerWeightLimit         decimal.Decimal `json:"lower_weight_limit"`
	PercentageRateOfSubtotal decimal.Decimal `json:"percentage_rate_of_subtotal"`

	TransitDays *int      `json:"transit_days,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShipmentContext is what a rule is matched against. Identifiers are positive;
// zero means the value is not known and never equals a scoped rule.
type ShipmentContext struct {
	ShippingMethodID int
	StoreID          int
	WarehouseID      int
	CountryID        int
	StateProvinceID  int
	Zip              string

	// Invalid (absent) weight or subtotal skips the corresponding range check.
	Weight        decimal.NullDecimal
	OrderSubtotal decimal.NullDecimal
}

// RuleFilter narrows the admin rule listing. Nil fields are not filtered on.
type RuleFilter struct {
	ShippingMethodID *int    `json:"shipping_method_id,omitempty"`
	StoreID          *int    `json:"store_id,omitempty"`
	WarehouseID      *int    `json:"warehouse_id,omitempty"`
	CountryID        *int    `json:"country_id,omitempty"`
	StateProvinceID  *int    `json:"state_province_id,omitempty"`
	Zip              *string `json:"zip,omitempty"`
}

// RulePage is one page of a filtered rule listing.
type RulePage struct {
	Items      []Rule `json:"items"`
	PageIndex  int    `json:"page_index"`
	PageSize   int    `json:"page_size"`
	TotalCount int    `json:"total_count"`
	TotalPages int    `json:"total_pages"`
}

// FixedRate is the flat price of a shipping method in fixed mode.
type FixedRate struct {
	ShippingMethodID int             `json:"shipping_method_id"`
	Rate             decimal.Decimal `json:"rate"`
	TransitDays      *int            `json:"transit_days,omitempty"`
}

// FixedRateTable maps a shipping method id to its fixed rate.
type FixedRateTable map[int]FixedRate

// Settings controls which pricing mode the resolver runs in.
type Settings struct {
	TieredModeEnabled        bool `json:"tiered_mode_enabled" yaml:"tiered_mode_enabled"`
	LimitMethodsToConfigured bool `json:"limit_methods_to_configured" yaml:"limit_methods_to_configured"`
}

// Address is the destination of a shipment.
type Address struct {
	CountryID       int    `json:"country_id,omitempty"`
	StateProvinceID int    `json:"state_province_id,omitempty"`
	Zip             string `json:"zip,omitempty"`
}

// ShipmentItem is one cart line being shipped.
type ShipmentItem struct {
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitWeight     decimal.Decimal `json:"unit_weight"`
	IsFreeShipping bool            `json:"is_free_shipping"`
}

// OptionsRequest asks for the shipping options of a shipment.
type OptionsRequest struct {
	StoreID     int            `json:"store_id,omitempty"`
	WarehouseID int            `json:"warehouse_id,omitempty"`
	Address     *Address       `json:"address,omitempty"`
	Items       []ShipmentItem `json:"items"`
}

// ShippingOption is one priced shipping method offered to the customer.
type ShippingOption struct {
	ShippingMethodID int             `json:"shipping_method_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Rate             decimal.Decimal `json:"rate"`
	TransitDays      *int            `json:"transit_days,omitempty"`
}

// OptionsResponse is the payload returned to checkout.
type OptionsResponse struct {
	ShippingOptions []ShippingOption `json:"shipping_options"`
	Errors          []string         `json:"errors,omitempty"`
}

// FixedRateResponse carries the common flat rate, if there is one.
type FixedRateResponse struct {
	Rate *decimal.Decimal `json:"rate"`
}

// RuleRequest is the admin payload for creating or updating a rule.
// "*" or an empty zip means any zip.
type RuleRequest struct {
	ShippingMethodID int     `json:"shipping_method_id" validate:"required,gt=0"`
	StoreID          *int    `json:"store_id,omitempty" validate:"omitempty,gt=0"`
	WarehouseID      *int    `json:"warehouse_id,omitempty" validate:"omitempty,gt=0"`
	CountryID        *int    `json:"country_id,omitempty" validate:"omitempty,gt=0"`
	StateProvinceID  *int    `json:"state_province_id,omitempty" validate:"omitempty,gt=0"`
	Zip              *string `json:"zip,omitempty" validate:"omitempty,max=400"`

	WeightFrom        decimal.Decimal `json:"weight_from" validate:"gte=0"`
	WeightTo          decimal.Decimal `json:"weight_to" validate:"gte=0"`
	OrderSubtotalFrom decimal.Decimal `json:"order_subtotal_from" validate:"gte=0"`
	OrderSubtotalTo   decimal.Decimal `json:"order_subtotal_to" validate:"gte=0"`

	AdditionalFixedCost      decimal.Decimal `json:"additional_fixed_cost" validate:"gte=0"`
	RatePerWeightUnit        decimal.Decimal `json:"rate_per_weight_unit" validate:"gte=0"`
	LowerWeightLimit         decimal.Decimal `json:"lower_weight_limit" validate:"gte=0"`
	PercentageRateOfSubtotal decimal.Decimal `json:"percentage_rate_of_subtotal" validate:"gte=0,lte=100"`

	TransitDays *int `json:"transit_days,omitempty" validate:"omitempty,gte=0"`
}

// FixedRateRequest is the admin payload for a method's fixed rate.
type FixedRateRequest struct {
	Rate        decimal.Decimal `json:"rate" validate:"gte=0"`
	TransitDays *int            `json:"transit_days,omitempty" validate:"omitempty,gte=0"`
}

// PreviewRequest asks what a stored rule would charge.
type PreviewRequest struct {
	Weight   decimal.Decimal `json:"weight"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PreviewResponse is the charge computed for a preview.
type PreviewResponse struct {
	RuleID      int             `json:"rule_id"`
	Rate        decimal.Decimal `json:"rate"`
	TransitDays *int            `json:"transit_days,omitempty"`
}
