package storage

import (
	"context"

	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/models"
)

// Repository defines the interface for catalog persistence. Lookups return
// (nil, nil) when the entity does not exist.
type Repository interface {
	// Mods. CreateModWithDifficulties writes the mod row and its custom
	// difficulty rows in one transaction so a contiguous tree is never
	// visible half-written.
	CreateModWithDifficulties(ctx context.Context, mod *models.Mod, parents []difficulty.ParentCreation) error
	GetMod(ctx context.Context, id int64) (*models.Mod, error)
	UpdateMod(ctx context.Context, mod *models.Mod) error
	DeleteMod(ctx context.Context, id int64) error
	ListMods(ctx context.Context, filters models.ModFilters) ([]*models.Mod, error)

	// Difficulties
	GetDifficultiesForMod(ctx context.Context, modID int64) ([]models.Difficulty, error)
	GetDefaultDifficulties(ctx context.Context) ([]models.Difficulty, error)
	SeedDefaultDifficulties(ctx context.Context, parents []difficulty.ParentCreation) error
	GetDifficulty(ctx context.Context, id int64) (*models.Difficulty, error)

	// Maps
	CreateMap(ctx context.Context, m *models.Map) error
	GetMap(ctx context.Context, id int64) (*models.Map, error)
	DeleteMap(ctx context.Context, id int64) error
	ListMapsForMod(ctx context.Context, modID int64) ([]*models.Map, error)

	// Publishers
	CreatePublisher(ctx context.Context, p *models.Publisher) error
	GetPublisher(ctx context.Context, id int64) (*models.Publisher, error)
	GetPublisherByGamebananaID(ctx context.Context, gamebananaID int64) (*models.Publisher, error)
	UpdatePublisher(ctx context.Context, p *models.Publisher) error
	DeletePublisher(ctx context.Context, id int64) error
	ListPublishers(ctx context.Context, filters models.PublisherFilters) ([]*models.Publisher, error)

	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)

	// Tech
	CreateTech(ctx context.Context, t *models.Tech) error
	GetTech(ctx context.Context, id int64) (*models.Tech, error)
	DeleteTech(ctx context.Context, id int64) error
	ListTech(ctx context.Context) ([]*models.Tech, error)

	// API Clients
	GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error)
	UpdateClientLastUsed(ctx context.Context, apiKey string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
