package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cragline/modcatalog/internal/models"
)

// --- Publishers ---

// CreatePublisher inserts a publisher and fills its ID
func (r *PostgresRepository) CreatePublisher(ctx context.Context, p *models.Publisher) error {
	query := `
		INSERT INTO publishers (name, gamebanana_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, p.Name, p.GamebananaID, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("publisher %q: %w", p.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create publisher: %w", err)
	}

	return nil
}

// GetPublisher retrieves a publisher by ID
func (r *PostgresRepository) GetPublisher(ctx context.Context, id int64) (*models.Publisher, error) {
	return r.getPublisher(ctx, `SELECT id, name, gamebanana_id, created_at FROM publishers WHERE id = $1`, id)
}

// GetPublisherByGamebananaID retrieves a publisher by its GameBanana account id
func (r *PostgresRepository) GetPublisherByGamebananaID(ctx context.Context, gamebananaID int64) (*models.Publisher, error) {
	return r.getPublisher(ctx, `SELECT id, name, gamebanana_id, created_at FROM publishers WHERE gamebanana_id = $1`, gamebananaID)
}

func (r *PostgresRepository) getPublisher(ctx context.Context, query string, arg interface{}) (*models.Publisher, error) {
	var p models.Publisher
	var gbID sql.NullInt64

	err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &gbID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get publisher: %w", err)
	}

	if gbID.Valid {
		p.GamebananaID = &gbID.Int64
	}

	return &p, nil
}

// UpdatePublisher updates a publisher's name and GameBanana link
func (r *PostgresRepository) UpdatePublisher(ctx context.Context, p *models.Publisher) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE publishers SET name = $2, gamebanana_id = $3 WHERE id = $1`,
		p.ID, p.Name, p.GamebananaID,
	)
	if err != nil {
		return fmt.Errorf("failed to update publisher: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("publisher not found: %d", p.ID)
	}

	return nil
}

// DeletePublisher deletes a publisher by ID
func (r *PostgresRepository) DeletePublisher(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM publishers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete publisher: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("publisher not found: %d", id)
	}

	return nil
}

// ListPublishers returns publishers matching filters
func (r *PostgresRepository) ListPublishers(ctx context.Context, filters models.PublisherFilters) ([]*models.Publisher, error) {
	query := `
		SELECT id, name, gamebanana_id, created_at
		FROM publishers
		WHERE 1=1
	`
	args := make([]interface{}, 0)
	argNum := 1

	if filters.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Name+"%")
		argNum++
	}

	if filters.Linked != nil {
		if *filters.Linked {
			query += " AND gamebanana_id IS NOT NULL"
		} else {
			query += " AND gamebanana_id IS NULL"
		}
	}

	query += " ORDER BY name ASC"

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
		return nil, fmt.Errorf("failed to list publishers: %w", err)
	}
	defer rows.Close()

	var publishers []*models.Publisher
	for rows.Next() {
		var p models.Publisher
		var gbID sql.NullInt64

		if err := rows.Scan(&p.ID, &p.Name, &gbID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan publisher: %w", err)
		}
		if gbID.Valid {
			p.GamebananaID = &gbID.Int64
		}
		publishers = append(publishers, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publishers: %w", err)
	}

	return publishers, nil
}

// --- Users ---

// CreateUser inserts a user and fills its ID
func (r *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, display_name, gamebanana_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, u.Username, u.DisplayName, u.GamebananaID, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID
func (r *PostgresRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, username, display_name, gamebanana_id, created_at FROM users WHERE id = $1`, id)
}

// GetUserByUsername retrieves a user by username
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, username, display_name, gamebanana_id, created_at FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	var gbID sql.NullInt64

	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.DisplayName, &gbID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if gbID.Valid {
		u.GamebananaID = &gbID.Int64
	}

	return &u, nil
}

// UpdateUser updates a user's display name and GameBanana link
func (r *PostgresRepository) UpdateUser(ctx context.Context, u *models.User) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET display_name = $2, gamebanana_id = $3 WHERE id = $1`,
		u.ID, u.DisplayName, u.GamebananaID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %d", u.ID)
	}

	return nil
}

// DeleteUser deletes a user by ID
func (r *PostgresRepository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %d", id)
	}

	return nil
}

// ListUsers returns users ordered by username
func (r *PostgresRepository) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT id, username, display_name, gamebanana_id, created_at FROM users ORDER BY username ASC`
	args := make([]interface{}, 0)
	argNum := 1

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, limit)
		argNum++
	}

	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		var gbID sql.NullInt64

		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &gbID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if gbID.Valid {
			u.GamebananaID = &gbID.Int64
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// --- Tech ---

// CreateTech inserts a tech entry and fills its ID
func (r *PostgresRepository) CreateTech(ctx context.Context, t *models.Tech) error {
	query := `
		INSERT INTO tech (name, description, difficulty_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query, t.Name, t.Description, t.DifficultyID, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tech %q: %w", t.Name, ErrDuplicate)
		}
		return fmt.Errorf("failed to create tech: %w", err)
	}

	return nil
}

// GetTech retrieves a tech entry by ID
func (r *PostgresRepository) GetTech(ctx context.Context, id int64) (*models.Tech, error) {
	query := `SELECT id, name, description, difficulty_id, created_at FROM tech WHERE id = $1`

	var t models.Tech
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.DifficultyID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get tech: %w", err)
	}

	return &t, nil
}

// DeleteTech deletes a tech entry by ID
func (r *PostgresRepository) DeleteTech(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tech WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tech: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tech not found: %d", id)
	}

	return nil
}

// ListTech returns all tech entries ordered by name
func (r *PostgresRepository) ListTech(ctx context.Context) ([]*models.Tech, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, difficulty_id, created_at FROM tech ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech: %w", err)
	}
	defer rows.Close()

	var techs []*models.Tech
	for rows.Next() {
		var t models.Tech
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.DifficultyID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tech: %w", err)
		}
		techs = append(techs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tech: %w", err)
	}

	return techs, nil
}
