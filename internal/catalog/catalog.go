package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/gamebanana"
	"github.com/cragline/modcatalog/internal/models"
	"github.com/cragline/modcatalog/internal/storage"
)

// Catalog implements Service over a Repository and a GameBanana resolver
type Catalog struct {
	repo     storage.Repository
	resolver gamebanana.Resolver
	defaults *difficulty.DefaultLoader
}

// New creates a new Catalog
func New(repo storage.Repository, resolver gamebanana.Resolver, defaults *difficulty.DefaultLoader) *Catalog {
	return &Catalog{
		repo:     repo,
		resolver: resolver,
		defaults: defaults,
	}
}

// Ping checks that the persistence layer is reachable
func (c *Catalog) Ping(ctx context.Context) error {
	return c.repo.Ping(ctx)
}

// SeedDefaults writes the configured default difficulty tree to storage if
// no default rows exist yet. Called once at startup.
func (c *Catalog) SeedDefaults(ctx context.Context) error {
	parsed, err := difficulty.ParseSubmission(c.defaults.Tree())
	if err != nil {
		return fmt.Errorf("default tree is invalid: %w", err)
	}
	return c.repo.SeedDefaultDifficulties(ctx, parsed.Parents)
}

// --- Mods ---

// CreateMod assembles and persists a new mod. The publisher is resolved
// either by id or by GameBanana account (created on first sight); a custom
// difficulty submission is parsed and written atomically with the mod row.
func (c *Catalog) CreateMod(ctx context.Context, actor int64, req models.CreateModRequest) (*models.Mod, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: mod name is required", ErrValidation)
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown mod type %q", ErrValidation, req.Type)
	}

	publisher, err := c.resolvePublisher(ctx, req)
	if err != nil {
		return nil, err
	}

	mod := &models.Mod{
		Name:            req.Name,
		Type:            req.Type,
		PublisherID:     publisher.ID,
		GamebananaModID: req.GamebananaModID,
		ContentWarning:  req.ContentWarning,
		CreatedBy:       actor,
		CreatedAt:       time.Now().UTC(),
	}

	var parents []difficulty.ParentCreation
	if len(req.Difficulties) > 0 {
		parsed, err := difficulty.ParseSubmission(req.Difficulties)
		if err != nil {
			return nil, err
		}
		parents = parsed.Parents
		mod.HasSubDifficulties = parsed.HasSubDifficulties
	} else {
		mod.HasSubDifficulties = c.defaults.Tree().HasSubDifficulties()
	}

	if err := c.repo.CreateModWithDifficulties(ctx, mod, parents); err != nil {
		return nil, err
	}

	slog.Info("mod created",
		"id", mod.ID,
		"name", mod.Name,
		"publisher_id", mod.PublisherID,
		"custom_difficulties", len(parents) > 0,
		"actor", actor,
	)

	if mod.Difficulties, err = c.ModDifficulties(ctx, mod.ID); err != nil {
		return nil, err
	}

	return mod, nil
}

// resolvePublisher finds or creates the publisher a mod submission names
func (c *Catalog) resolvePublisher(ctx context.Context, req models.CreateModRequest) (*models.Publisher, error) {
	if req.PublisherID != 0 {
		publisher, err := c.repo.GetPublisher(ctx, req.PublisherID)
		if err != nil {
			return nil, err
		}
		if publisher == nil {
			return nil, ErrPublisherNotFound
		}
		return publisher, nil
	}

	if req.PublisherGamebananaID == 0 {
		return nil, fmt.Errorf("%w: publisher_id or publisher_gamebanana_id is required", ErrValidation)
	}

	publisher, err := c.repo.GetPublisherByGamebananaID(ctx, req.PublisherGamebananaID)
	if err != nil {
		return nil, err
	}
	if publisher != nil {
		return publisher, nil
	}

	// Unknown account: resolve the display name upstream and create it
	name, err := c.resolver.UserName(ctx, req.PublisherGamebananaID)
	if err != nil {
		return nil, err
	}

	gbID := req.PublisherGamebananaID
	publisher = &models.Publisher{
		Name:         name,
		GamebananaID: &gbID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.repo.CreatePublisher(ctx, publisher); err != nil {
		return nil, err
	}

	slog.Info("publisher created from gamebanana lookup", "id", publisher.ID, "name", name, "gamebanana_id", gbID)
	return publisher, nil
}

// GetMod retrieves a mod with its display difficulty tree populated
func (c *Catalog) GetMod(ctx context.Context, id int64) (*models.Mod, error) {
	mod, err := c.repo.GetMod(ctx, id)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, ErrModNotFound
	}

	if mod.Difficulties, err = c.ModDifficulties(ctx, id); err != nil {
		return nil, err
	}

	return mod, nil
}

// UpdateMod applies a partial update and returns the updated mod
func (c *Catalog) UpdateMod(ctx context.Context, id int64, req models.UpdateModRequest) (*models.Mod, error) {
	mod, err := c.repo.GetMod(ctx, id)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, ErrModNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: mod name cannot be blank", ErrValidation)
		}
		mod.Name = *req.Name
	}
	if req.ContentWarning != nil {
		mod.ContentWarning = *req.ContentWarning
	}
	if req.Approved != nil {
		mod.Approved = *req.Approved
	}

	if err := c.repo.UpdateMod(ctx, mod); err != nil {
		return nil, err
	}

	if mod.Difficulties, err = c.ModDifficulties(ctx, id); err != nil {
		return nil, err
	}

	return mod, nil
}

// DeleteMod removes a mod; its difficulty rows and maps cascade
func (c *Catalog) DeleteMod(ctx context.Context, id int64) error {
	mod, err := c.repo.GetMod(ctx, id)
	if err != nil {
		return err
	}
	if mod == nil {
		return ErrModNotFound
	}

	return c.repo.DeleteMod(ctx, id)
}

// ListMods returns mods matching filters
func (c *Catalog) ListMods(ctx context.Context, filters models.ModFilters) ([]*models.Mod, error) {
	return c.repo.ListMods(ctx, filters)
}

// --- Difficulty trees ---

// ModDifficulties returns the display tree a mod's maps validate against:
// the mod's custom tree when it owns difficulty rows, the global default
// tree otherwise.
func (c *Catalog) ModDifficulties(ctx context.Context, modID int64) (difficulty.Tree, error) {
	rows, err := c.modDifficultyRows(ctx, modID)
	if err != nil {
		return nil, err
	}
	return difficulty.Reconstruct(models.DifficultyRows(rows))
}

// DefaultDifficulties returns the global default tree's display shape
func (c *Catalog) DefaultDifficulties(ctx context.Context) (difficulty.Tree, error) {
	rows, err := c.repo.GetDefaultDifficulties(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Not seeded yet; fall back to the configured tree
		return c.defaults.Tree(), nil
	}
	return difficulty.Reconstruct(models.DifficultyRows(rows))
}

// modDifficultyRows loads the rows of the tree owning a mod's maps. Never
// returns rows belonging to another mod: only this mod's rows or the default
// set are consulted.
func (c *Catalog) modDifficultyRows(ctx context.Context, modID int64) ([]models.Difficulty, error) {
	rows, err := c.repo.GetDifficultiesForMod(ctx, modID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	return c.repo.GetDefaultDifficulties(ctx)
}

// --- Maps ---

// CreateMap validates the claimed difficulty against the mod's configured
// tree and persists the map. Validation runs before any write.
func (c *Catalog) CreateMap(ctx context.Context, actor int64, modID int64, req models.CreateMapRequest) (*models.Map, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: map name is required", ErrValidation)
	}

	mod, err := c.repo.GetMod(ctx, modID)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, ErrModNotFound
	}

	rows, err := c.modDifficultyRows(ctx, modID)
	if err != nil {
		return nil, err
	}

	tree, err := difficulty.Reconstruct(models.DifficultyRows(rows))
	if err != nil {
		return nil, err
	}

	if err := difficulty.ValidateAssignment(tree, req.ModDifficulty); err != nil {
		return nil, err
	}

	row, ok := difficulty.FindRow(models.DifficultyRows(rows), req.ModDifficulty)
	if !ok {
		return nil, fmt.Errorf("difficulty rows inconsistent with tree for mod %d", modID)
	}

	for _, techID := range req.TechIDs {
		tech, err := c.repo.GetTech(ctx, techID)
		if err != nil {
			return nil, err
		}
		if tech == nil {
			return nil, fmt.Errorf("%w: tech %d", ErrTechNotFound, techID)
		}
	}

	m := &models.Map{
		ModID:         modID,
		Name:          req.Name,
		MapperName:    req.MapperName,
		DifficultyID:  row.ID,
		TechIDs:       req.TechIDs,
		CreatedBy:     actor,
		CreatedAt:     time.Now().UTC(),
		ModDifficulty: req.ModDifficulty,
	}

	if err := c.repo.CreateMap(ctx, m); err != nil {
		return nil, err
	}

	slog.Info("map created", "id", m.ID, "mod_id", modID, "name", m.Name, "actor", actor)
	return m, nil
}

// GetMap retrieves a map with its display difficulty populated
func (c *Catalog) GetMap(ctx context.Context, id int64) (*models.Map, error) {
	m, err := c.repo.GetMap(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMapNotFound
	}

	if m.ModDifficulty, err = c.claimForDifficulty(ctx, m.DifficultyID); err != nil {
		return nil, err
	}

	return m, nil
}

// DeleteMap removes a map by ID
func (c *Catalog) DeleteMap(ctx context.Context, id int64) error {
	m, err := c.repo.GetMap(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMapNotFound
	}

	return c.repo.DeleteMap(ctx, id)
}

// ListMaps returns a mod's maps with display difficulties populated
func (c *Catalog) ListMaps(ctx context.Context, modID int64) ([]*models.Map, error) {
	mod, err := c.repo.GetMod(ctx, modID)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, ErrModNotFound
	}

	maps, err := c.repo.ListMapsForMod(ctx, modID)
	if err != nil {
		return nil, err
	}

	for _, m := range maps {
		if m.ModDifficulty, err = c.claimForDifficulty(ctx, m.DifficultyID); err != nil {
			return nil, err
		}
	}

	return maps, nil
}

// claimForDifficulty converts a stored difficulty row back to its display
// claim: a [parent, child] pair for child rows, a bare name otherwise.
func (c *Catalog) claimForDifficulty(ctx context.Context, id int64) (difficulty.Claimed, error) {
	row, err := c.repo.GetDifficulty(ctx, id)
	if err != nil {
		return difficulty.Claimed{}, err
	}
	if row == nil {
		return difficulty.Claimed{}, fmt.Errorf("%w: %d", ErrDifficultyNotFound, id)
	}

	if row.ParentID == nil {
		return difficulty.Claimed{Parent: row.Name}, nil
	}

	parent, err := c.repo.GetDifficulty(ctx, *row.ParentID)
	if err != nil {
		return difficulty.Claimed{}, err
	}
	if parent == nil {
		return difficulty.Claimed{}, fmt.Errorf("%w: parent of %d", ErrDifficultyNotFound, id)
	}

	return difficulty.Claimed{Parent: parent.Name, Child: row.Name}, nil
}
