package shipping

import (
	"context"
	"fmt"

	"github.com/georgemunganga/printa-shipping/internal/modules/setting"
)

// Setting keys, stored lower-case.
const (
	tieredModeKey   = "byweightandsizesettings.shippingbyweightandsizeenabled"
	limitMethodsKey = "byweightandsizesettings.limitmethodstocreated"
	fixedRateKey    = "shippingratecomputationmethod.byweightandsize.rate.shippingmethodid%d"
	transitDaysKey  = "shippingratecomputationmethod.byweightandsize.transitdays.shippingmethodid%d"
)

// SettingsStore loads and saves the pricing mode and the fixed-rate table.
type SettingsStore struct{ store setting.Store }

func NewSettingsStore(store setting.Store) *SettingsStore { return &SettingsStore{store: store} }

func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	sn, err := s.store.Snapshot(ctx)
	if err != nil {
		return Settings{}, err
	}
	tiered, err := sn.Bool(tieredModeKey)
	if err != nil {
		return Settings{}, err
	}
	limit, err := sn.Bool(limitMethodsKey)
	if err != nil {
		return Settings{}, err
	}
	return Settings{TieredModeEnabled: tiered, LimitMethodsToConfigured: limit}, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	if err := s.store.SetBool(ctx, tieredModeKey, settings.TieredModeEnabled); err != nil {
		return err
	}
	return s.store.SetBool(ctx, limitMethodsKey, settings.LimitMethodsToConfigured)
}

// FixedRate returns the flat rate of a method. A method without a stored rate
// costs zero and has no transit estimate.
func (s *SettingsStore) FixedRate(ctx context.Context, methodID int) (FixedRate, error) {
	sn, err := s.store.Snapshot(ctx)
	if err != nil {
		return FixedRate{}, err
	}
	return fixedRateFrom(sn, methodID)
}

// FixedRates builds the fixed-rate table for the given methods from one
// settings snapshot.
func (s *SettingsStore) FixedRates(ctx context.Context, methodIDs []int) (FixedRateTable, error) {
	sn, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	table := make(FixedRateTable, len(methodIDs))
	for _, id := range methodIDs {
		fr, err := fixedRateFrom(sn, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixed rate for method %d: %w", id, err)
		}
		table[id] = fr
	}
	return table, nil
}

func fixedRateFrom(sn setting.Snapshot, methodID int) (FixedRate, error) {
	rate, _, err := sn.Decimal(fmt.Sprintf(fixedRateKey, methodID))
	if err != nil {
		return FixedRate{}, err
	}
	days, err := sn.Int(fmt.Sprintf(transitDaysKey, methodID))
	if err != nil {
		return FixedRate{}, err
	}
	return FixedRate{ShippingMethodID: methodID, Rate: rate, TransitDays: days}, nil
}

func (s *SettingsStore) SetFixedRate(ctx context.Context, fr FixedRate) error {
	if err := s.store.SetDecimal(ctx, fmt.Sprintf(fixedRateKey, fr.ShippingMethodID), fr.Rate); err != nil {
		return err
	}
	return s.store.SetInt(ctx, fmt.Sprintf(transitDaysKey, fr.ShippingMethodID), fr.TransitDays)
}

// DeleteFixedRate removes the stored rate of a method.
func (s *SettingsStore) DeleteFixedRate(ctx context.Context, methodID int) error {
	if err := s.store.Delete(ctx, fmt.Sprintf(fixedRateKey, methodID)); err != nil {
		return err
	}
	return s.store.Delete(ctx, fmt.Sprintf(transitDaysKey, methodID))
}
