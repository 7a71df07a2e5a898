package shipping_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/georgemunganga/printa-shipping/internal/database"
	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/georgemunganga/printa-shipping/internal/modules/setting"
	"github.com/georgemunganga/printa-shipping/internal/modules/shipping"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	_ = godotenv.Load("../../../.env")

	// Use a dedicated TEST database; every table is truncated.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, db))

	_, err = db.ExecContext(ctx, `TRUNCATE TABLE shipping_rules, shipping_methods, settings RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPostgresRuleRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	methods := method.NewPostgresRepository(db)
	ground := &method.ShippingMethod{Name: "Ground", DisplayOrder: 1}
	require.NoError(t, methods.Create(ctx, ground))
	air := &method.ShippingMethod{Name: "Air", DisplayOrder: 2, RestrictedCountryIDs: []int{99}}
	require.NoError(t, methods.Create(ctx, air))

	offered, err := methods.List(ctx, 99)
	require.NoError(t, err)
	require.Len(t, offered, 1)
	assert.Equal(t, ground.ID, offered[0].ID)

	got, err := methods.GetByID(ctx, air.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{99}, got.RestrictedCountryIDs)

	repo := shipping.NewPostgresRepository(db)
	country, zip := 3, "10001"
	rules := []shipping.Rule{
		{ShippingMethodID: ground.ID, WeightTo: d("10"), OrderSubtotalTo: d("100"), AdditionalFixedCost: d("5")},
		{ShippingMethodID: ground.ID, CountryID: &country, Zip: &zip, WeightTo: d("10"), OrderSubtotalTo: d("100")},
		{ShippingMethodID: air.ID, CountryID: &country, WeightTo: d("10"), OrderSubtotalTo: d("100")},
	}
	for i := range rules {
		require.NoError(t, repo.Insert(ctx, &rules[i]))
		assert.Positive(t, rules[i].ID)
	}

	r, err := repo.GetByID(ctx, rules[0].ID)
	require.NoError(t, err)
	assert.Nil(t, r.CountryID)
	assert.Nil(t, r.Zip)
	assert.Nil(t, r.TransitDays)
	assert.True(t, d("5").Equal(r.AdditionalFixedCost))

	page, err := repo.Page(ctx, shipping.RuleFilter{ShippingMethodID: &ground.ID}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, rules[0].ID, page.Items[0].ID)

	other := "90210"
	page, err = repo.Page(ctx, shipping.RuleFilter{Zip: &other}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount, "wildcard zips pass the zip filter")

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rules[1].TransitDays = &country
	require.NoError(t, repo.Update(ctx, &rules[1]))
	r, err = repo.GetByID(ctx, rules[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *r.TransitDays)

	require.NoError(t, repo.Delete(ctx, rules[2].ID))
	assert.ErrorIs(t, repo.Delete(ctx, rules[2].ID), shipping.ErrRuleNotFound)
	_, err = repo.GetByID(ctx, rules[2].ID)
	assert.ErrorIs(t, err, shipping.ErrRuleNotFound)
}

func TestPostgresShippingOptions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	methods := method.NewService(method.NewPostgresRepository(db))
	ground, err := methods.CreateMethod(ctx, method.CreateMethodRequest{Name: "Ground"})
	require.NoError(t, err)

	settings := shipping.NewSettingsStore(setting.NewStore(setting.NewPostgresRepository(db)))
	svc := shipping.NewService(shipping.NewPostgresRepository(db), settings, methods, shipping.Options{DefaultStoreID: 1})
	methods.OnDelete(svc.DeleteFixedRate)

	require.NoError(t, svc.SaveMode(ctx, true))
	_, err = svc.CreateRule(ctx, shipping.RuleRequest{
		ShippingMethodID:         ground.ID,
		WeightTo:                 d("100"),
		OrderSubtotalTo:          d("1000"),
		AdditionalFixedCost:      d("5"),
		RatePerWeightUnit:        d("2"),
		LowerWeightLimit:         d("10"),
		PercentageRateOfSubtotal: d("10"),
	})
	require.NoError(t, err)

	options, err := svc.GetShippingOptions(ctx, shipping.OptionsRequest{
		Address: &shipping.Address{CountryID: 1},
		Items:   []shipping.ShipmentItem{{ProductID: "p", Quantity: 1, UnitPrice: d("100"), UnitWeight: d("15")}},
	})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.True(t, d("25").Equal(options[0].Rate))

	_, err = svc.SetFixedRate(ctx, ground.ID, shipping.FixedRateRequest{Rate: d("9.99")})
	require.NoError(t, err)
	require.NoError(t, methods.DeleteMethod(ctx, ground.ID))

	fr, err := settings.FixedRate(ctx, ground.ID)
	require.NoError(t, err)
	assert.True(t, fr.Rate.IsZero())
}
