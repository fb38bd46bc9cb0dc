// Package service orchestrates the global navigation menu. Menus are
// shared by every tenant, so reads run unfiltered and writes are
// restricted to administrators.
package service

import (
	"context"
	"log/slog"
	"sort"

	"finbook/internal/menu/models"
	"finbook/internal/repository"
	"finbook/internal/scope"
	dErrors "finbook/pkg/domain-errors"
)

type CreateMenuInput struct {
	Name     string
	Path     string
	Position int
}

// Repos is the unit of work a menu operation runs against.
type Repos struct {
	UoW   repository.UnitOfWork
	Menus repository.Repository[*models.Menu]
}

type Service struct {
	begin  func() Repos
	logger *slog.Logger
}

func New(begin func() Repos, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{begin: begin, logger: logger}
}

// List returns every menu entry ordered by position. Visible to any
// authenticated caller regardless of tenant.
func (s *Service) List(ctx context.Context) ([]*models.Menu, error) {
	repos := s.begin()
	defer repos.UoW.Discard()

	menus, err := repos.Menus.Query(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Position < menus[j].Position })
	return menus, nil
}

// Create adds a menu entry. Admin only: menus are shared state.
func (s *Service) Create(ctx context.Context, in CreateMenuInput) (*models.Menu, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !sc.Admin {
		return nil, dErrors.New(dErrors.CodeForbidden, "menu management requires admin")
	}
	if in.Name == "" || in.Path == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "menu name and path are required")
	}

	repos := s.begin()
	defer repos.UoW.Discard()

	m := models.NewMenu(in.Name, in.Path, in.Position)
	if err := repos.Menus.Add(ctx, m); err != nil {
		return nil, err
	}
	if err := repos.UoW.SaveChanges(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "menu created", "menu_id", m.ID.String())
	return m, nil
}
