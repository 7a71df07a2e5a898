package shipping

import (
	"errors"
	"fmt"

	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRequest is wrapped by every error caused by a malformed
	// options request.
	ErrInvalidRequest = errors.New("invalid shipping request")

	ErrNoShipmentItems       = fmt.Errorf("%w: no shipment items", ErrInvalidRequest)
	ErrShippingAddressNotSet = fmt.Errorf("%w: shipping address is not set", ErrInvalidRequest)
)

// Resolution is everything one options pass reads. It is a point-in-time
// snapshot; nothing in it is mutated.
type Resolution struct {
	Settings Settings
	Policy   SelectionPolicy
	Methods  []method.ShippingMethod
	Fixed    FixedRateTable
	Rules    []Rule
}

// ResolveOptions prices every candidate method for the shipment. Invalid
// requests fail before any method is priced; a method without a rate never
// fails the pass.
func ResolveOptions(req OptionsRequest, res Resolution) ([]ShippingOption, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoShipmentItems
	}
	if !res.Settings.TieredModeEnabled {
		return fixedOptions(res.Methods, res.Fixed), nil
	}
	if req.Address == nil {
		return nil, ErrShippingAddressNotSet
	}

	weight, subtotal := Aggregate(req.Items)
	sc := ShipmentContext{
		StoreID:         req.StoreID,
		WarehouseID:     req.WarehouseID,
		CountryID:       req.Address.CountryID,
		StateProvinceID: req.Address.StateProvinceID,
		Zip:             req.Address.Zip,
		Weight:          decimal.NullDecimal{Decimal: weight, Valid: true},
		OrderSubtotal:   decimal.NullDecimal{Decimal: subtotal, Valid: true},
	}

	options := make([]ShippingOption, 0, len(res.Methods))
	for _, m := range res.Methods {
		sc.ShippingMethodID = m.ID
		opt := newOption(m)

		rule, ok := FindBestRule(sc, res.Rules, res.Policy)
		if !ok {
			if res.Settings.LimitMethodsToConfigured {
				continue
			}
			options = append(options, opt)
			continue
		}

		opt.Rate = ComputeCharge(*rule, weight, subtotal)
		opt.TransitDays = rule.TransitDays
		options = append(options, opt)
	}
	return options, nil
}

func fixedOptions(methods []method.ShippingMethod, fixed FixedRateTable) []ShippingOption {
	options := make([]ShippingOption, 0, len(methods))
	for _, m := range methods {
		opt := newOption(m)
		if fr, ok := fixed[m.ID]; ok {
			opt.Rate = fr.Rate
			opt.TransitDays = fr.TransitDays
		}
		options = append(options, opt)
	}
	return options
}

func newOption(m method.ShippingMethod) ShippingOption {
	return ShippingOption{
		ShippingMethodID: m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Rate:             decimal.Zero,
	}
}

// CommonFixedRate returns the flat rate shared by every candidate method. It
// reports false in tiered mode, when there are no methods, or when the methods
// are priced differently.
func CommonFixedRate(methods []method.ShippingMethod, settings Settings, fixed FixedRateTable) (decimal.Decimal, bool) {
	if settings.TieredModeEnabled || len(methods) == 0 {
		return decimal.Zero, false
	}
	common := fixed.RateOf(methods[0].ID)
	for _, m := range methods[1:] {
		if !fixed.RateOf(m.ID).Equal(common) {
			return decimal.Zero, false
		}
	}
	return common, true
}

// RateOf returns the fixed rate of a method, zero when none is configured.
func (t FixedRateTable) RateOf(methodID int) decimal.Decimal {
	if fr, ok := t[methodID]; ok {
		return fr.Rate
	}
	return decimal.Zero
}

// Aggregate totals the weight and subtotal of the items that are not shipped
// for free.
func Aggregate(items []ShipmentItem) (weight, subtotal decimal.Decimal) {
	weight, subtotal = decimal.Zero, decimal.Zero
	for _, it := range items {
		if it.IsFreeShipping || it.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(it.Quantity))
		weight = weight.Add(it.UnitWeight.Mul(qty))
		subtotal = subtotal.Add(it.UnitPrice.Mul(qty))
	}
	return weight, subtotal
}
