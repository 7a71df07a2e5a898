package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgemunganga/printa-shipping/internal/modules/method"
	"github.com/shopspring/decimal"
)

// MethodSource lists the shipping methods offered to a destination country.
type MethodSource interface {
	ListMethods(ctx context.Context, countryID int) ([]method.ShippingMethod, error)
}

// Options tunes the service.
type Options struct {
	// DefaultStoreID is used when a request does not name a store.
	DefaultStoreID int
	Policy         SelectionPolicy
}

// Service defines the shipping rate business logic.
type Service interface {
	// GetShippingOptions prices every shipping method for a shipment.
	GetShippingOptions(ctx context.Context, req OptionsRequest) ([]ShippingOption, error)
	// GetFixedRate returns the single flat rate shared by all methods, or nil.
	GetFixedRate(ctx context.Context, req OptionsRequest) (*decimal.Decimal, error)
	// PreviewCharge computes what a stored rule charges for a weight and subtotal.
	PreviewCharge(ctx context.Context, ruleID int, req PreviewRequest) (*PreviewResponse, error)

	// Rules management
	CreateRule(ctx context.Context, req RuleRequest) (*Rule, error)
	GetRule(ctx context.Context, id int) (*Rule, error)
	UpdateRule(ctx context.Context, id int, req RuleRequest) (*Rule, error)
	DeleteRule(ctx context.Context, id int) error
	// DeleteMethodRules removes every rule of a shipping method.
	DeleteMethodRules(ctx context.Context, methodID int) error
	ListRules(ctx context.Context, f RuleFilter, pageIndex, pageSize int) (RulePage, error)

	// Fixed rates
	ListFixedRates(ctx context.Context) ([]FixedRate, error)
	SetFixedRate(ctx context.Context, methodID int, req FixedRateRequest) (*FixedRate, error)
	DeleteFixedRate(ctx context.Context, methodID int) error

	// Settings
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
	SaveMode(ctx context.Context, tieredModeEnabled bool) error
}

type service struct {
	rules    RuleRepository
	settings *SettingsStore
	methods  MethodSource
	opts     Options
}

func NewService(rules RuleRepository, settings *SettingsStore, methods MethodSource, opts Options) Service {
	if opts.Policy == "" {
		opts.Policy = SelectFirstMatch
	}
	return &service{rules: rules, settings: settings, methods: methods, opts: opts}
}

// ── Shipping options ──────────────────────────────────────────────────────────

func (s *service) GetShippingOptions(ctx context.Context, req OptionsRequest) ([]ShippingOption, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoShipmentItems
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping settings: %w", err)
	}
	if settings.TieredModeEnabled && req.Address == nil {
		return nil, ErrShippingAddressNotSet
	}
	if req.StoreID == 0 {
		req.StoreID = s.opts.DefaultStoreID
	}

	methods, err := s.methods.ListMethods(ctx, destinationCountry(req))
	if err != nil {
		return nil, err
	}

	res := Resolution{Settings: settings, Policy: s.opts.Policy, Methods: methods}
	if settings.TieredModeEnabled {
		if res.Rules, err = s.rules.All(ctx); err != nil {
			return nil, fmt.Errorf("failed to load shipping rules: %w", err)
		}
	} else {
		if res.Fixed, err = s.settings.FixedRates(ctx, methodIDs(methods)); err != nil {
			return nil, err
		}
	}
	return ResolveOptions(req, res)
}

func (s *service) GetFixedRate(ctx context.Context, req OptionsRequest) (*decimal.Decimal, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping settings: %w", err)
	}
	if settings.TieredModeEnabled {
		return nil, nil
	}
	methods, err := s.methods.ListMethods(ctx, destinationCountry(req))
	if err != nil {
		return nil, err
	}
	fixed, err := s.settings.FixedRates(ctx, methodIDs(methods))
	if err != nil {
		return nil, err
	}
	rate, ok := CommonFixedRate(methods, settings, fixed)
	if !ok {
		return nil, nil
	}
	return &rate, nil
}

func (s *service) PreviewCharge(ctx context.Context, ruleID int, req PreviewRequest) (*PreviewResponse, error) {
	if req.Weight.IsNegative() || req.Subtotal.IsNegative() {
		return nil, &ValidationError{Fields: []string{"weight and subtotal must not be negative"}}
	}
	rule, err := s.rules.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{
		RuleID:      rule.ID,
		Rate:        ComputeCharge(*rule, req.Weight, req.Subtotal),
		TransitDays: rule.TransitDays,
	}, nil
}

func destinationCountry(req OptionsRequest) int {
	if req.Address == nil {
		return 0
	}
	return req.Address.CountryID
}

func methodIDs(methods []method.ShippingMethod) []int {
	ids := make([]int, len(methods))
	for i, m := range methods {
		ids[i] = m.ID
	}
	return ids
}

// ── Rules management ──────────────────────────────────────────────────────────

func (s *service) CreateRule(ctx context.Context, req RuleRequest) (*Rule, error) {
	rule, err := validateRule(req)
	if err != nil {
		return nil, err
	}
	if err := s.requireMethod(ctx, rule.ShippingMethodID); err != nil {
		return nil, err
	}
	if err := s.rules.Insert(ctx, &rule); err != nil {
		return nil, fmt.Errorf("failed to create shipping rule: %w", err)
	}
	return &rule, nil
}

func (s *service) GetRule(ctx context.Context, id int) (*Rule, error) {
	return s.rules.GetByID(ctx, id)
}

func (s *service) UpdateRule(ctx context.Context, id int, req RuleRequest) (*Rule, error) {
	existing, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rule, err := validateRule(req)
	if err != nil {
		return nil, err
	}
	if rule.ShippingMethodID != existing.ShippingMethodID {
		if err := s.requireMethod(ctx, rule.ShippingMethodID); err != nil {
			return nil, err
		}
	}
	rule.ID = existing.ID
	rule.CreatedAt = existing.CreatedAt
	if err := s.rules.Update(ctx, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *service) DeleteRule(ctx context.Context, id int) error {
	return s.rules.Delete(ctx, id)
}

func (s *service) DeleteMethodRules(ctx context.Context, methodID int) error {
	if methodID <= 0 {
		return nil
	}
	page, err := s.rules.Page(ctx, RuleFilter{ShippingMethodID: &methodID}, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to list rules of method %d: %w", methodID, err)
	}
	for _, r := range page.Items {
		if err := s.rules.Delete(ctx, r.ID); err != nil && !errors.Is(err, ErrRuleNotFound) {
			return err
		}
	}
	return nil
}

func (s *service) ListRules(ctx context.Context, f RuleFilter, pageIndex, pageSize int) (RulePage, error) {
	page, err := s.rules.Page(ctx, f, pageIndex, pageSize)
	if err != nil {
		return RulePage{}, fmt.Errorf("failed to list shipping rules: %w", err)
	}
	return page, nil
}

// requireMethod rejects rules for shipping methods that do not exist.
func (s *service) requireMethod(ctx context.Context, methodID int) error {
	methods, err := s.methods.ListMethods(ctx, 0)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if m.ID == methodID {
			return nil
		}
	}
	return &ValidationError{Fields: []string{fmt.Sprintf("shipping_method_id %d does not exist", methodID)}}
}

// ── Fixed rates ───────────────────────────────────────────────────────────────

func (s *service) ListFixedRates(ctx context.Context) ([]FixedRate, error) {
	methods, err := s.methods.ListMethods(ctx, 0)
	if err != nil {
		return nil, err
	}
	table, err := s.settings.FixedRates(ctx, methodIDs(methods))
	if err != nil {
		return nil, err
	}
	rates := make([]FixedRate, 0, len(methods))
	for _, m := range methods {
		rates = append(rates, table[m.ID])
	}
	return rates, nil
}

func (s *service) SetFixedRate(ctx context.Context, methodID int, req FixedRateRequest) (*FixedRate, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.requireMethod(ctx, methodID); err != nil {
		return nil, err
	}
	fr := FixedRate{ShippingMethodID: methodID, Rate: req.Rate, TransitDays: req.TransitDays}
	if err := s.settings.SetFixedRate(ctx, fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

func (s *service) DeleteFixedRate(ctx context.Context, methodID int) error {
	return s.settings.DeleteFixedRate(ctx, methodID)
}

// ── Settings ──────────────────────────────────────────────────────────────────

func (s *service) GetSettings(ctx context.Context) (Settings, error) {
	return s.settings.Load(ctx)
}

func (s *service) SaveSettings(ctx context.Context, settings Settings) error {
	return s.settings.Save(ctx, settings)
}

func (s *service) SaveMode(ctx context.Context, tieredModeEnabled bool) error {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	settings.TieredModeEnabled = tieredModeEnabled
	return s.settings.Save(ctx, settings)
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	var verr *ValidationError
	return errors.Is(err, ErrInvalidRequest) || errors.As(err, &verr)
}
