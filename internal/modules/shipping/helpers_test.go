package shipping

import (
	"context"
	"testing"

	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/georgemunganga/printa-shipping/internal/modules/setting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

// wideRule matches any weight and subtotal for the method.
func wideRule(methodID int) Rule {
	return Rule{
		ShippingMethodID:  methodID,
		WeightFrom:        decimal.Zero,
		WeightTo:          dec("1000000"),
		OrderSubtotalFrom: decimal.Zero,
		OrderSubtotalTo:   dec("1000000"),
	}
}

func shipment(methodID int, weight, subtotal string) ShipmentContext {
	return ShipmentContext{
		ShippingMethodID: methodID,
		StoreID:          1,
		WarehouseID:      2,
		CountryID:        3,
		StateProvinceID:  4,
		Zip:              "10001",
		Weight:           decimal.NewNullDecimal(dec(weight)),
		OrderSubtotal:    decimal.NewNullDecimal(dec(subtotal)),
	}
}

type fixture struct {
	svc      Service
	methods  method.Service
	settings *SettingsStore
}

// newFixture wires the service over in-memory stores with two methods:
// 1 "Ground" and 2 "Express", the latter not offered to country 99.
func newFixture(t *testing.T, policy SelectionPolicy) fixture {
	t.Helper()
	ctx := context.Background()

	methods := method.NewService(method.NewMemoryRepository())
	_, err := methods.CreateMethod(ctx, method.CreateMethodRequest{Name: "Ground", DisplayOrder: 1})
	require.NoError(t, err)
	_, err = methods.CreateMethod(ctx, method.CreateMethodRequest{Name: "Express", DisplayOrder: 2, RestrictedCountryIDs: []int{99}})
	require.NoError(t, err)

	settings := NewSettingsStore(setting.NewStore(setting.NewMemoryRepository()))
	svc := NewService(NewMemoryRepository(), settings, methods, Options{DefaultStoreID: 1, Policy: policy})
	methods.OnDelete(svc.DeleteFixedRate)
	methods.OnDelete(svc.DeleteMethodRules)
	return fixture{svc: svc, methods: methods, settings: settings}
}
