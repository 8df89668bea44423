package service

import (
	"context"
	"fmt"

	"urban-bites/restaurant-svc/internal/domain"
)

type MenuService struct {
	repo MenuRepository
}

func NewMenuService(repo MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// ListAvailable is the customer menu: unavailable items are never returned.
func (s *MenuService) ListAvailable(ctx context.Context, category string) ([]domain.MenuItem, error) {
	filter := domain.Category(category)
	if category != "" && !filter.Valid() {
		return nil, ValidationError{Field: "category", Message: fmt.Sprintf("category must be one of %v", domain.Categories())}
	}
	return s.repo.ListMenuItems(ctx, true, filter)
}

func (s *MenuService) GetAvailable(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *MenuService) ListAll(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, false, "")
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	if err := ValidateMenuItem(item); err != nil {
		return err
	}
	return s.repo.CreateMenuItem(ctx, item)
}

func (s *MenuService) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(item)
	if err := ValidateMenuItem(item); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) SetAvailability(ctx context.Context, id string, available bool) (*domain.MenuItem, error) {
	return s.repo.SetMenuItemAvailability(ctx, id, available)
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.DeleteMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type DashboardService struct {
	repo DashboardRepository
}

func NewDashboardService(repo DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}
