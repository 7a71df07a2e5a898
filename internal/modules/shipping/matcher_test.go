package shipping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	scoped := wideRule(1)
	scoped.StoreID = intPtr(1)
	scoped.WarehouseID = intPtr(2)
	scoped.CountryID = intPtr(3)
	scoped.StateProvinceID = intPtr(4)
	scoped.Zip = strPtr("10001")

	zeroBand := wideRule(1)
	zeroBand.WeightTo = dec("0")

	tests := []struct {
		name string
		rule Rule
		sc   ShipmentContext
		want bool
	}{
		{"wildcard rule matches any destination", wideRule(1), shipment(1, "5", "50"), true},
		{"wildcard rule matches unknown destination", wideRule(1), ShipmentContext{ShippingMethodID: 1}, true},
		{"other method never matches", wideRule(2), shipment(1, "5", "50"), false},
		{"exact scope matches", scoped, shipment(1, "5", "50"), true},
		{"unknown store does not match scoped rule", scoped, func() ShipmentContext { sc := shipment(1, "5", "50"); sc.StoreID = 0; return sc }(), false},
		{"different zip does not match", scoped, func() ShipmentContext { sc := shipment(1, "5", "50"); sc.Zip = "10002"; return sc }(), false},
		{"empty zip scope is a wildcard", func() Rule { r := wideRule(1); r.Zip = strPtr(""); return r }(), shipment(1, "5", "50"), true},
		{"zero weight band rejects positive weight", zeroBand, shipment(1, "0.01", "50"), false},
		{"zero weight band accepts zero weight", zeroBand, shipment(1, "0", "50"), true},
		{"range bounds are inclusive", func() Rule { r := wideRule(1); r.WeightFrom, r.WeightTo = dec("5"), dec("5"); return r }(), shipment(1, "5", "50"), true},
		{"subtotal above range", func() Rule { r := wideRule(1); r.OrderSubtotalTo = dec("49.99"); return r }(), shipment(1, "5", "50"), false},
		{"absent weight skips the weight check", zeroBand, func() ShipmentContext { sc := shipment(1, "5", "50"); sc.Weight.Valid = false; return sc }(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.rule, tt.sc))
		})
	}
}

func TestFindBestRule(t *testing.T) {
	wildcard := wideRule(1)
	wildcard.ID = 1
	wildcard.AdditionalFixedCost = dec("10")

	exact := wideRule(1)
	exact.ID = 2
	exact.CountryID = intPtr(3)
	exact.Zip = strPtr("10001")

	countryOnly := wideRule(1)
	countryOnly.ID = 3
	countryOnly.CountryID = intPtr(3)

	rules := []Rule{wildcard, exact, countryOnly}
	sc := shipment(1, "5", "50")

	t.Run("first match wins in store order", func(t *testing.T) {
		got, ok := FindBestRule(sc, rules, SelectFirstMatch)
		require.True(t, ok)
		assert.Equal(t, 1, got.ID)
	})

	t.Run("most specific prefers exact scopes", func(t *testing.T) {
		got, ok := FindBestRule(sc, rules, SelectMostSpecific)
		require.True(t, ok)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("most specific keeps the earlier of equal ranks", func(t *testing.T) {
		twin := exact
		twin.ID = 9
		got, ok := FindBestRule(sc, []Rule{wildcard, exact, twin}, SelectMostSpecific)
		require.True(t, ok)
		assert.Equal(t, 2, got.ID)
	})

	t.Run("no match", func(t *testing.T) {
		got, ok := FindBestRule(shipment(7, "5", "50"), rules, SelectFirstMatch)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}

func TestParseSelectionPolicy(t *testing.T) {
	assert.Equal(t, SelectMostSpecific, ParseSelectionPolicy(" Specific "))
	assert.Equal(t, SelectFirstMatch, ParseSelectionPolicy(""))
	assert.Equal(t, SelectFirstMatch, ParseSelectionPolicy("bogus"))
}

func TestFilterRules(t *testing.T) {
	var rules []Rule
	for i := 1; i <= 7; i++ {
		r := wideRule(1)
		r.ID = i
		rules = append(rules, r)
	}
	other := wideRule(2)
	other.ID = 8
	other.CountryID = intPtr(3)
	rules = append(rules, other)

	t.Run("paginates one method with total preserved", func(t *testing.T) {
		f := RuleFilter{ShippingMethodID: intPtr(1)}
		var seen []int
		for pageIndex := 0; pageIndex < 3; pageIndex++ {
			page := FilterRules(rules, f, pageIndex, 3)
			assert.Equal(t, 7, page.TotalCount)
			assert.Equal(t, 3, page.TotalPages)
			for _, r := range page.Items {
				seen = append(seen, r.ID)
			}
		}
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, seen)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{}, 10, 3)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.Equal(t, 8, page.TotalCount)
	})

	t.Run("huge page index is empty", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{}, math.MaxInt, 2)
		assert.Empty(t, page.Items)
		assert.Equal(t, 8, page.TotalCount)
		assert.Equal(t, 4, page.TotalPages)

		page = FilterRules(nil, RuleFilter{}, math.MaxInt, 2)
		assert.Empty(t, page.Items)
	})

	t.Run("zero ids do not filter", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{StoreID: intPtr(0), CountryID: intPtr(0), ShippingMethodID: intPtr(0)}, 0, 0)
		assert.Equal(t, 8, page.TotalCount)
	})

	t.Run("non-positive page size returns everything", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{}, 4, 0)
		assert.Len(t, page.Items, 8)
		assert.Equal(t, 0, page.PageIndex)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("scope filter includes wildcard rules", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{CountryID: intPtr(3)}, 0, 0)
		assert.Equal(t, 8, page.TotalCount)

		page = FilterRules(rules, RuleFilter{CountryID: intPtr(4)}, 0, 0)
		assert.Equal(t, 7, page.TotalCount)
	})

	t.Run("empty zip filter is ignored", func(t *testing.T) {
		page := FilterRules(rules, RuleFilter{Zip: strPtr("")}, 0, 0)
		assert.Equal(t, 8, page.TotalCount)
	})
}
