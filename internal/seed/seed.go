// Package seed loads shipping configuration from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/georgemunganga/printa-shipping/internal/modules/shipping"
	"github.com/georgemunganga/printa-shipping/internal/modules/user"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the seed document. Rules and fixed rates name their method.
type File struct {
	Settings   *shipping.Settings `yaml:"settings"`
	Methods    []Method           `yaml:"methods"`
	FixedRates []FixedRate        `yaml:"fixed_rates"`
	Rules      []Rule             `yaml:"rules"`
	Admins     []Admin            `yaml:"admins"`
}

type Method struct {
	Name                 string `yaml:"name"`
	Description          string `yaml:"description"`
	DisplayOrder         int    `yaml:"display_order"`
	RestrictedCountryIDs []int  `yaml:"restricted_country_ids"`
}

type FixedRate struct {
	Method      string          `yaml:"method"`
	Rate        decimal.Decimal `yaml:"rate"`
	TransitDays *int            `yaml:"transit_days"`
}

type Rule struct {
	Method          string  `yaml:"method"`
	StoreID         *int    `yaml:"store_id"`
	WarehouseID     *int    `yaml:"warehouse_id"`
	CountryID       *int    `yaml:"country_id"`
	StateProvinceID *int    `yaml:"state_province_id"`
	Zip             *string `yaml:"zip"`

	WeightFrom        decimal.Decimal `yaml:"weight_from"`
	WeightTo          decimal.Decimal `yaml:"weight_to"`
	OrderSubtotalFrom decimal.Decimal `yaml:"order_subtotal_from"`
	OrderSubtotalTo   decimal.Decimal `yaml:"order_subtotal_to"`

	AdditionalFixedCost      decimal.Decimal `yaml:"additional_fixed_cost"`
	RatePerWeightUnit        decimal.Decimal `yaml:"rate_per_weight_unit"`
	LowerWeightLimit         decimal.Decimal `yaml:"lower_weight_limit"`
	PercentageRateOfSubtotal decimal.Decimal `yaml:"percentage_rate_of_subtotal"`

	TransitDays *int `yaml:"transit_days"`
}

type Admin struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// Targets are the services a seed is applied through.
type Targets struct {
	Methods  method.Service
	Shipping shipping.Service
	Users    user.Service
}

// Summary counts what Apply wrote.
type Summary struct {
	MethodsCreated int
	FixedRates     int
	Rules          int
	Admins         int
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply writes the seed. Methods are matched by name and created when
// missing. The rules of every method the seed lists rules for are replaced,
// so applying the same file twice leaves the same configuration.
func Apply(ctx context.Context, f *File, t Targets) (Summary, error) {
	var sum Summary

	existing, err := t.Methods.ListMethods(ctx, 0)
	if err != nil {
		return sum, err
	}
	ids := make(map[string]int, len(existing))
	for _, m := range existing {
		ids[m.Name] = m.ID
	}

	for _, m := range f.Methods {
		if _, ok := ids[m.Name]; ok {
			continue
		}
		created, err := t.Methods.CreateMethod(ctx, method.CreateMethodRequest{
			Name:                 m.Name,
			Description:          m.Description,
			DisplayOrder:         m.DisplayOrder,
			RestrictedCountryIDs: m.RestrictedCountryIDs,
		})
		if err != nil {
			return sum, fmt.Errorf("method %q: %w", m.Name, err)
		}
		ids[created.Name] = created.ID
		sum.MethodsCreated++
	}

	lookup := func(name string) (int, error) {
		id, ok := ids[name]
		if !ok {
			return 0, fmt.Errorf("unknown shipping method %q", name)
		}
		return id, nil
	}

	if f.Settings != nil {
		if err := t.Shipping.SaveSettings(ctx, *f.Settings); err != nil {
			return sum, err
		}
	}

	for _, fr := range f.FixedRates {
		id, err := lookup(fr.Method)
		if err != nil {
			return sum, err
		}
		if _, err := t.Shipping.SetFixedRate(ctx, id, shipping.FixedRateRequest{Rate: fr.Rate, TransitDays: fr.TransitDays}); err != nil {
			return sum, fmt.Errorf("fixed rate for %q: %w", fr.Method, err)
		}
		sum.FixedRates++
	}

	// Every rule is checked before any method's rules are replaced.
	requests := make([]shipping.RuleRequest, len(f.Rules))
	for i, r := range f.Rules {
		id, err := lookup(r.Method)
		if err != nil {
			return sum, err
		}
		requests[i] = r.request(id)
		if err := shipping.ValidateRule(requests[i]); err != nil {
			return sum, fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	cleared := make(map[int]bool)
	for i, req := range requests {
		if !cleared[req.ShippingMethodID] {
			if err := t.Shipping.DeleteMethodRules(ctx, req.ShippingMethodID); err != nil {
				return sum, err
			}
			cleared[req.ShippingMethodID] = true
		}
		if _, err := t.Shipping.CreateRule(ctx, req); err != nil {
			return sum, fmt.Errorf("rule %d: %w", i+1, err)
		}
		sum.Rules++
	}

	for _, a := range f.Admins {
		_, err := t.Users.RegisterUser(ctx, user.RegisterRequest{
			Email: a.Email, Password: a.Password, FirstName: a.FirstName, LastName: a.LastName,
		})
		if errors.Is(err, user.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("admin %q: %w", a.Email, err)
		}
		sum.Admins++
	}

	return sum, nil
}

func (r Rule) request(methodID int) shipping.RuleRequest {
	return shipping.RuleRequest{
		ShippingMethodID:         methodID,
		StoreID:                  r.StoreID,
		WarehouseID:              r.WarehouseID,
		CountryID:                r.CountryID,
		StateProvinceID:          r.StateProvinceID,
		Zip:                      r.Zip,
		WeightFrom:               r.WeightFrom,
		WeightTo:                 r.WeightTo,
		OrderSubtotalFrom:        r.OrderSubtotalFrom,
		OrderSubtotalTo:          r.OrderSubtotalTo,
		AdditionalFixedCost:      r.AdditionalFixedCost,
		RatePerWeightUnit:        r.RatePerWeightUnit,
		LowerWeightLimit:         r.LowerWeightLimit,
		PercentageRateOfSubtotal: r.PercentageRateOfSubtotal,
		TransitDays:              r.TransitDays,
	}
}
