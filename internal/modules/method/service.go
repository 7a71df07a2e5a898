package method

import (
	"context"
	"fmt"
	"strings"
)

// DeleteHook runs after a shipping method has been deleted.
type DeleteHook func(ctx context.Context, methodID int) error

// Service defines shipping method management.
type Service interface {
	CreateMethod(ctx context.Context, req CreateMethodRequest) (*ShippingMethod, error)
	GetMethod(ctx context.Context, id int) (*ShippingMethod, error)
	// ListMethods returns the methods offered to countryID; 0 lists them all.
	ListMethods(ctx context.Context, countryID int) ([]ShippingMethod, error)
	UpdateMethod(ctx context.Context, id int, req CreateMethodRequest) (*ShippingMethod, error)
	DeleteMethod(ctx context.Context, id int) error
	// OnDelete registers a hook run after every successful delete.
	OnDelete(hook DeleteHook)
}

type service struct {
	repo  Repository
	hooks []DeleteHook
}

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateMethod(ctx context.Context, req CreateMethodRequest) (*ShippingMethod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	m := &ShippingMethod{
		Name:                 name,
		Description:          req.Description,
		DisplayOrder:         req.DisplayOrder,
		RestrictedCountryIDs: req.RestrictedCountryIDs,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create shipping method: %w", err)
	}
	return m, nil
}

func (s *service) GetMethod(ctx context.Context, id int) (*ShippingMethod, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMethods(ctx context.Context, countryID int) ([]ShippingMethod, error) {
	methods, err := s.repo.List(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping methods: %w", err)
	}
	return methods, nil
}

func (s *service) UpdateMethod(ctx context.Context, id int, req CreateMethodRequest) (*ShippingMethod, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		m.Name = name
	}
	m.Description = req.Description
	m.DisplayOrder = req.DisplayOrder
	m.RestrictedCountryIDs = req.RestrictedCountryIDs
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) DeleteMethod(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, id); err != nil {
			return fmt.Errorf("shipping method %d deleted but cleanup failed: %w", id, err)
		}
	}
	return nil
}

func (s *service) OnDelete(hook DeleteHook) { s.hooks = append(s.hooks, hook) }
