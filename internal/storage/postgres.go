package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cragline/modcatalog/internal/difficulty"
	"github.com/cragline/modcatalog/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate entity")

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// isUniqueViolation reports whether err is a uniqueness constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Mods ---

// CreateModWithDifficulties inserts the mod row and its custom difficulty
// rows in a single transaction. The contiguity invariant on difficulty
// orders is therefore never observable half-written.
func (r *PostgresRepository) CreateModWithDifficulties(ctx context.Context, mod *models.Mod, parents []difficulty.ParentCreation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO mods (name, type, publisher_id, gamebanana_mod_id, content_warning, approved, has_sub_difficulties, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		mod.Name,
		string(mod.Type),
		mod.PublisherID,
		mod.GamebananaModID,
		mod.ContentWarning,
		mod.Approved,
		mod.HasSubDifficulties,
		mod.CreatedBy,
		mod.CreatedAt,
	).Scan(&mod.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("mod %q: %w", mod.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create mod: %w", err)
	}

	for _, parent := range parents {
		var parentID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO difficulties (mod_id, name, sort_order, parent_id) VALUES ($1, $2, $3, NULL) RETURNING id`,
			mod.ID, parent.Name, parent.Order,
		).Scan(&parentID)
		if err != nil {
			return fmt.Errorf("failed to create difficulty %q: %w", parent.Name, err)
		}

		for _, child := range parent.Children {
			_, err := tx.Exec(ctx,
				`INSERT INTO difficulties (mod_id, name, sort_order, parent_id) VALUES ($1, $2, $3, $4)`,
				mod.ID, child.Name, child.Order, parentID,
			)
			if err != nil {
				return fmt.Errorf("failed to create sub-difficulty %q: %w", child.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mod creation: %w", err)
	}

	return nil
}

// GetMod retrieves a mod by ID
func (r *PostgresRepository) GetMod(ctx context.Context, id int64) (*models.Mod, error) {
	query := `
		SELECT id, name, type, publisher_id, gamebanana_mod_id, content_warning, approved, has_sub_difficulties, created_by, created_at
		FROM mods
		WHERE id = $1
	`

	mod, err := scanMod(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get mod: %w", err)
	}
	return mod, nil
}

// UpdateMod updates an existing mod's mutable fields
func (r *PostgresRepository) UpdateMod(ctx context.Context, mod *models.Mod) error {
	query := `
		UPDATE mods
		SET name = $2, content_warning = $3, approved = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, mod.ID, mod.Name, mod.ContentWarning, mod.Approved)
	if err != nil {
		return fmt.Errorf("failed to update mod: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mod not found: %d", mod.ID)
	}

	return nil
}

// DeleteMod deletes a mod by ID. Difficulty and map rows cascade.
func (r *PostgresRepository) DeleteMod(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM mods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mod: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mod not found: %d", id)
	}

	return nil
}

// ListMods returns mods matching filters
func (r *PostgresRepository) ListMods(ctx context.Context, filters models.ModFilters) ([]*models.Mod, error) {
	query := `
		SELECT id, name, type, publisher_id, gamebanana_mod_id, content_warning, approved, has_sub_difficulties, created_by, created_at
		FROM mods
		WHERE 1=1
	`
	args := make([]interface{}, 0)
	argNum := 1

	if filters.PublisherID != 0 {
		query += fmt.Sprintf(" AND publisher_id = $%d", argNum)
		args = append(args, filters.PublisherID)
		argNum++
	}

	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, string(filters.Type))
		argNum++
	}

	if filters.Approved != nil {
		query += fmt.Sprintf(" AND approved = $%d", argNum)
		args = append(args, *filters.Approved)
		argNum++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
		argNum++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filters.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mods: %w", err)
	}
	defer rows.Close()

	var mods []*models.Mod
	for rows.Next() {
		mod, err := scanMod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mod: %w", err)
		}
		mods = append(mods, mod)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mods: %w", err)
	}

	return mods, nil
}

// scanMod scans one mod row from a pgx.Row or pgx.Rows
func scanMod(row pgx.Row) (*models.Mod, error) {
	var mod models.Mod
	var typeStr string
	var gbModID sql.NullInt64

	err := row.Scan(
		&mod.ID,
		&mod.Name,
		&typeStr,
		&mod.PublisherID,
		&gbModID,
		&mod.ContentWarning,
		&mod.Approved,
		&mod.HasSubDifficulties,
		&mod.CreatedBy,
		&mod.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	mod.Type = models.ModType(typeStr)
	if gbModID.Valid {
		mod.GamebananaModID = &gbModID.Int64
	}

	return &mod, nil
}

// --- Difficulties ---

// GetDifficultiesForMod returns all difficulty rows owned by a mod
func (r *PostgresRepository) GetDifficultiesForMod(ctx context.Context, modID int64) ([]models.Difficulty, error) {
	query := `
		SELECT id, mod_id, name, sort_order, parent_id
		FROM difficulties
		WHERE mod_id = $1
	`
	return r.queryDifficulties(ctx, query, modID)
}

// GetDefaultDifficulties returns the global default tree rows (mod_id IS NULL)
func (r *PostgresRepository) GetDefaultDifficulties(ctx context.Context) ([]models.Difficulty, error) {
	query := `
		SELECT id, mod_id, name, sort_order, parent_id
		FROM difficulties
		WHERE mod_id IS NULL
	`
	return r.queryDifficulties(ctx, query)
}

// GetDifficulty retrieves a single difficulty row by ID
func (r *PostgresRepository) GetDifficulty(ctx context.Context, id int64) (*models.Difficulty, error) {
	query := `
		SELECT id, mod_id, name, sort_order, parent_id
		FROM difficulties
		WHERE id = $1
	`

	var d models.Difficulty
	var modID, parentID sql.NullInt64

	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &modID, &d.Name, &d.Order, &parentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get difficulty: %w", err)
	}

	if modID.Valid {
		d.ModID = &modID.Int64
	}
	if parentID.Valid {
		d.ParentID = &parentID.Int64
	}

	return &d, nil
}

// SeedDefaultDifficulties writes the default tree rows if none exist yet.
// The seed happens inside one transaction, same as mod creation.
func (r *PostgresRepository) SeedDefaultDifficulties(ctx context.Context, parents []difficulty.ParentCreation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM difficulties WHERE mod_id IS NULL`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count default difficulties: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, parent := range parents {
		var parentID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO difficulties (mod_id, name, sort_order, parent_id) VALUES (NULL, $1, $2, NULL) RETURNING id`,
			parent.Name, parent.Order,
		).Scan(&parentID)
		if err != nil {
			return fmt.Errorf("failed to seed difficulty %q: %w", parent.Name, err)
		}

		for _, child := range parent.Children {
			_, err := tx.Exec(ctx,
				`INSERT INTO difficulties (mod_id, name, sort_order, parent_id) VALUES (NULL, $1, $2, $3)`,
				child.Name, child.Order, parentID,
			)
			if err != nil {
				return fmt.Errorf("failed to seed sub-difficulty %q: %w", child.Name, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// queryDifficulties runs a difficulty SELECT and scans the result set
func (r *PostgresRepository) queryDifficulties(ctx context.Context, query string, args ...interface{}) ([]models.Difficulty, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query difficulties: %w", err)
	}
	defer rows.Close()

	var difficulties []models.Difficulty
	for rows.Next() {
		var d models.Difficulty
		var modID, parentID sql.NullInt64

		if err := rows.Scan(&d.ID, &modID, &d.Name, &d.Order, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan difficulty: %w", err)
		}

		if modID.Valid {
			d.ModID = &modID.Int64
		}
		if parentID.Valid {
			d.ParentID = &parentID.Int64
		}

		difficulties = append(difficulties, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating difficulties: %w", err)
	}

	return difficulties, nil
}

// --- Maps ---

// CreateMap inserts a map row and its tech links in one transaction
func (r *PostgresRepository) CreateMap(ctx context.Context, m *models.Map) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO maps (mod_id, name, mapper_name, difficulty_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		m.ModID,
		m.Name,
		m.MapperName,
		m.DifficultyID,
		m.CreatedBy,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create map: %w", err)
	}

	for _, techID := range m.TechIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO map_tech (map_id, tech_id) VALUES ($1, $2)`, m.ID, techID); err != nil {
			return fmt.Errorf("failed to link tech %d: %w", techID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit map creation: %w", err)
	}

	return nil
}

// GetMap retrieves a map by ID, including its tech links
func (r *PostgresRepository) GetMap(ctx context.Context, id int64) (*models.Map, error) {
	query := `
		SELECT id, mod_id, name, mapper_name, difficulty_id, created_by, created_at
		FROM maps
		WHERE id = $1
	`

	var m models.Map
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.ModID,
		&m.Name,
		&m.MapperName,
		&m.DifficultyID,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get map: %w", err)
	}

	if m.TechIDs, err = r.getMapTech(ctx, m.ID); err != nil {
		return nil, err
	}

	return &m, nil
}

// DeleteMap deletes a map by ID
func (r *PostgresRepository) DeleteMap(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM maps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete map: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("map not found: %d", id)
	}

	return nil
}

// ListMapsForMod returns all maps belonging to a mod
func (r *PostgresRepository) ListMapsForMod(ctx context.Context, modID int64) ([]*models.Map, error) {
	query := `
		SELECT id, mod_id, name, mapper_name, difficulty_id, created_by, created_at
		FROM maps
		WHERE mod_id = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, modID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	defer rows.Close()

	var maps []*models.Map
	for rows.Next() {
		var m models.Map
		err := rows.Scan(&m.ID, &m.ModID, &m.Name, &m.MapperName, &m.DifficultyID, &m.CreatedBy, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan map: %w", err)
		}
		maps = append(maps, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating maps: %w", err)
	}

	for _, m := range maps {
		if m.TechIDs, err = r.getMapTech(ctx, m.ID); err != nil {
			return nil, err
		}
	}

	return maps, nil
}

// getMapTech loads the tech ids linked to a map
func (r *PostgresRepository) getMapTech(ctx context.Context, mapID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT tech_id FROM map_tech WHERE map_id = $1 ORDER BY tech_id`, mapID)
	if err != nil {
		return nil, fmt.Errorf("failed to query map tech: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tech id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// --- API Clients ---

// GetClientByApiKey retrieves an API client by key
func (r *PostgresRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	query := `
		SELECT id, name, api_key, user_id, is_active, created_at, last_used_at, permissions
		FROM api_clients
		WHERE api_key = $1
	`

	var c models.ApiClient
	var lastUsed sql.NullTime
	var permsJSON []byte

	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&c.ID,
		&c.Name,
		&c.ApiKey,
		&c.UserID,
		&c.IsActive,
		&c.CreatedAt,
		&lastUsed,
		&permsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}

	if lastUsed.Valid {
		c.LastUsedAt = &lastUsed.Time
	}

	if err := json.Unmarshal(permsJSON, &c.Permissions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
	}

	return &c, nil
}

// UpdateClientLastUsed stamps the client's last_used_at
func (r *PostgresRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_clients SET last_used_at = NOW() WHERE api_key = $1`, apiKey)
	if err != nil {
		return fmt.Errorf("failed to update client last_used_at: %w", err)
	}
	return nil
}
