package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cragline/modcatalog/internal/models"
)

// --- Publishers ---

// CreatePublisher creates a publisher, optionally resolving its GameBanana
// identity: a gamebanana_id fetches the display name upstream; a name with
// resolve_gamebanana set fetches the account id from the name. Lookups are a
// single attempt with no retry.
func (c *Catalog) CreatePublisher(ctx context.Context, req models.CreatePublisherRequest) (*models.Publisher, error) {
	p := &models.Publisher{
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	switch {
	case req.GamebananaID != nil:
		existing, err := c.repo.GetPublisherByGamebananaID(ctx, *req.GamebananaID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: gamebanana account %d already has publisher %q", ErrValidation, *req.GamebananaID, existing.Name)
		}

		name, err := c.resolver.UserName(ctx, *req.GamebananaID)
		if err != nil {
			return nil, err
		}
		p.Name = name
		p.GamebananaID = req.GamebananaID

	case req.Name == "":
		return nil, fmt.Errorf("%w: name or gamebanana_id is required", ErrValidation)

	case req.ResolveGamebanana:
		id, err := c.resolver.UserID(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		p.GamebananaID = &id
	}

	if err := c.repo.CreatePublisher(ctx, p); err != nil {
		return nil, err
	}

	slog.Info("publisher created", "id", p.ID, "name", p.Name)
	return p, nil
}

// GetPublisher retrieves a publisher by ID
func (c *Catalog) GetPublisher(ctx context.Context, id int64) (*models.Publisher, error) {
	p, err := c.repo.GetPublisher(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPublisherNotFound
	}
	return p, nil
}

// DeletePublisher removes a publisher by ID
func (c *Catalog) DeletePublisher(ctx context.Context, id int64) error {
	p, err := c.repo.GetPublisher(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPublisherNotFound
	}

	return c.repo.DeletePublisher(ctx, id)
}

// ListPublishers returns publishers matching filters
func (c *Catalog) ListPublishers(ctx context.Context, filters models.PublisherFilters) ([]*models.Publisher, error) {
	return c.repo.ListPublishers(ctx, filters)
}

// cacheInvalidator is implemented by resolvers that cache name lookups.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// RefreshPublisherNames re-resolves the display name of every publisher
// linked to a GameBanana account and persists renames. Returns the number of
// publishers updated. Lookup failures skip the publisher; the next cycle
// retries it.
func (c *Catalog) RefreshPublisherNames(ctx context.Context) (int, error) {
	linked := true
	publishers, err := c.repo.ListPublishers(ctx, models.PublisherFilters{Linked: &linked})
	if err != nil {
		return 0, err
	}

	inv, _ := c.resolver.(cacheInvalidator)

	renamed := 0
	for _, p := range publishers {
		// Drop any cached name so the lookup actually hits upstream
		if inv != nil {
			if err := inv.Invalidate(ctx, *p.GamebananaID); err != nil {
				slog.Warn("failed to invalidate cached name", "gamebanana_id", *p.GamebananaID, "error", err)
			}
		}

		name, err := c.resolver.UserName(ctx, *p.GamebananaID)
		if err != nil {
			slog.Warn("failed to refresh publisher name",
				"publisher_id", p.ID,
				"gamebanana_id", *p.GamebananaID,
				"error", err,
			)
			continue
		}

		if name == p.Name {
			continue
		}

		old := p.Name
		p.Name = name
		if err := c.repo.UpdatePublisher(ctx, p); err != nil {
			slog.Error("failed to persist publisher rename", "publisher_id", p.ID, "error", err)
			continue
		}

		slog.Info("publisher renamed", "publisher_id", p.ID, "old", old, "new", name)
		renamed++
	}

	return renamed, nil
}

// --- Users ---

// CreateUser creates a site user
func (c *Catalog) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	u := &models.User{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}
	if u.DisplayName == "" {
		u.DisplayName = req.Username
	}

	if err := c.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("user created", "id", u.ID, "username", u.Username)
	return u, nil
}

// GetUser retrieves a user by ID
func (c *Catalog) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := c.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// DeleteUser removes a user by ID
func (c *Catalog) DeleteUser(ctx context.Context, id int64) error {
	u, err := c.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	return c.repo.DeleteUser(ctx, id)
}

// ListUsers returns users
func (c *Catalog) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return c.repo.ListUsers(ctx, limit, offset)
}

// LinkUserGamebanana resolves a GameBanana username to an account id and
// links it to the user
func (c *Catalog) LinkUserGamebanana(ctx context.Context, id int64, gamebananaUsername string) (*models.User, error) {
	if gamebananaUsername == "" {
		return nil, fmt.Errorf("%w: gamebanana_username is required", ErrValidation)
	}

	u, err := c.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	gbID, err := c.resolver.UserID(ctx, gamebananaUsername)
	if err != nil {
		return nil, err
	}

	u.GamebananaID = &gbID
	if err := c.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("user linked to gamebanana", "user_id", u.ID, "gamebanana_id", gbID)
	return u, nil
}

// --- Tech ---

// CreateTech creates a tech entry rated at a default-tree difficulty
func (c *Catalog) CreateTech(ctx context.Context, req models.CreateTechRequest) (*models.Tech, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: tech name is required", ErrValidation)
	}

	d, err := c.repo.GetDifficulty(ctx, req.DifficultyID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %d", ErrDifficultyNotFound, req.DifficultyID)
	}
	if d.ModID != nil {
		return nil, fmt.Errorf("%w: tech must be rated at a default-tree difficulty", ErrValidation)
	}

	t := &models.Tech{
		Name:         req.Name,
		Description:  req.Description,
		DifficultyID: req.DifficultyID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := c.repo.CreateTech(ctx, t); err != nil {
		return nil, err
	}

	slog.Info("tech created", "id", t.ID, "name", t.Name)
	return t, nil
}

// GetTech retrieves a tech entry by ID
func (c *Catalog) GetTech(ctx context.Context, id int64) (*models.Tech, error) {
	t, err := c.repo.GetTech(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTechNotFound
	}
	return t, nil
}

// DeleteTech removes a tech entry by ID
func (c *Catalog) DeleteTech(ctx context.Context, id int64) error {
	t, err := c.repo.GetTech(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTechNotFound
	}

	return c.repo.DeleteTech(ctx, id)
}

// ListTech returns all tech entries
func (c *Catalog) ListTech(ctx context.Context) ([]*models.Tech, error) {
	return c.repo.ListTech(ctx)
}
