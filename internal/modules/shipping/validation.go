package shipping

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError describes admin input that cannot be stored.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt", "gte", "lte", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// validateRule checks a rule request and returns the rule it describes.
func validateRule(req RuleRequest) (Rule, error) {
	if err := validateStruct(req); err != nil {
		return Rule{}, err
	}
	verr := &ValidationError{}
	if req.WeightFrom.GreaterThan(req.WeightTo) {
		verr.Fields = append(verr.Fields, "weight_from must not exceed weight_to")
	}
	if req.OrderSubtotalFrom.GreaterThan(req.OrderSubtotalTo) {
		verr.Fields = append(verr.Fields, "order_subtotal_from must not exceed order_subtotal_to")
	}
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"weight_from", req.WeightFrom},
		{"weight_to", req.WeightTo},
		{"order_subtotal_from", req.OrderSubtotalFrom},
		{"order_subtotal_to", req.OrderSubtotalTo},
		{"additional_fixed_cost", req.AdditionalFixedCost},
		{"rate_per_weight_unit", req.RatePerWeightUnit},
		{"lower_weight_limit", req.LowerWeightLimit},
		{"percentage_rate_of_subtotal", req.PercentageRateOfSubtotal},
	} {
		if msg := checkStoredAmount(f.v); msg != "" {
			verr.Fields = append(verr.Fields, f.name+" "+msg)
		}
	}
	if len(verr.Fields) > 0 {
		return Rule{}, verr
	}
	return Rule{
		ShippingMethodID:         req.ShippingMethodID,
		StoreID:                  req.StoreID,
		WarehouseID:              req.WarehouseID,
		CountryID:                req.CountryID,
		StateProvinceID:          req.StateProvinceID,
		Zip:                      normalizeZip(req.Zip),
		WeightFrom:               req.WeightFrom,
		WeightTo:                 req.WeightTo,
		OrderSubtotalFrom:        req.OrderSubtotalFrom,
		OrderSubtotalTo:          req.OrderSubtotalTo,
		AdditionalFixedCost:      req.AdditionalFixedCost,
		RatePerWeightUnit:        req.RatePerWeightUnit,
		LowerWeightLimit:         req.LowerWeightLimit,
		PercentageRateOfSubtotal: req.PercentageRateOfSubtotal,
		TransitDays:              req.TransitDays,
	}, nil
}

// Rule amounts are stored as NUMERIC(18,2).
var maxStoredAmount = decimal.New(1, 16)

func checkStoredAmount(d decimal.Decimal) string {
	if !d.Equal(d.Truncate(2)) {
		return "must have at most 2 decimal places"
	}
	if d.Abs().GreaterThanOrEqual(maxStoredAmount) {
		return "is too large"
	}
	return ""
}

// ValidateRule reports whether req would be accepted by CreateRule, without
// checking that its shipping method exists.
func ValidateRule(req RuleRequest) error {
	_, err := validateRule(req)
	return err
}

// normalizeZip stores "*" and blank zips as the wildcard.
func normalizeZip(zip *string) *string {
	if zip == nil {
		return nil
	}
	z := strings.TrimSpace(*zip)
	if z == "" || z == "*" {
		return nil
	}
	return &z
}
