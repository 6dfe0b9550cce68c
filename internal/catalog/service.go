// Package catalog implements the business operations of the curation site:
// mod and map creation with difficulty-tree handling, publisher and user
// management backed by the GameBanana identity lookup, and tech entries.
package catalog

import (
	"context"
	"errors"

	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/models"
)

// Common errors
var (
	ErrModNotFound        = errors.New("mod not found")
	ErrMapNotFound        = errors.New("map not found")
	ErrPublisherNotFound  = errors.New("publisher not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTechNotFound       = errors.New("tech not found")
	ErrDifficultyNotFound = errors.New("difficulty not found")
	ErrValidation         = errors.New("validation error")
)

// Service defines the catalog operations. Every write takes the acting
// user's id explicitly; there is no ambient default identity.
type Service interface {
	// Mods
	CreateMod(ctx context.Context, actor int64, req models.CreateModRequest) (*models.Mod, error)
	GetMod(ctx context.Context, id int64) (*models.Mod, error)
	UpdateMod(ctx context.Context, id int64, req models.UpdateModRequest) (*models.Mod, error)
	DeleteMod(ctx context.Context, id int64) error
	ListMods(ctx context.Context, filters models.ModFilters) ([]*models.Mod, error)

	// Difficulty trees (display shape)
	ModDifficulties(ctx context.Context, modID int64) (difficulty.Tree, error)
	DefaultDifficulties(ctx context.Context) (difficulty.Tree, error)

	// Maps
	CreateMap(ctx context.Context, actor int64, modID int64, req models.CreateMapRequest) (*models.Map, error)
	GetMap(ctx context.Context, id int64) (*models.Map, error)
	DeleteMap(ctx context.Context, id int64) error
	ListMaps(ctx context.Context, modID int64) ([]*models.Map, error)

	// Publishers
	CreatePublisher(ctx context.Context, req models.CreatePublisherRequest) (*models.Publisher, error)
	GetPublisher(ctx context.Context, id int64) (*models.Publisher, error)
	DeletePublisher(ctx context.Context, id int64) error
	ListPublishers(ctx context.Context, filters models.PublisherFilters) ([]*models.Publisher, error)
	RefreshPublisherNames(ctx context.Context) (int, error)

	// Users
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	LinkUserGamebanana(ctx context.Context, id int64, gamebananaUsername string) (*models.User, error)

	// Tech
	CreateTech(ctx context.Context, req models.CreateTechRequest) (*models.Tech, error)
	GetTech(ctx context.Context, id int64) (*models.Tech, error)
	DeleteTech(ctx context.Context, id int64) error
	ListTech(ctx context.Context) ([]*models.Tech, error)

	// Health
	Ping(ctx context.Context) error
}
