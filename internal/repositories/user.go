package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
)

// UserRepository handles [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)
	user.SetSequence(sequence)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	query := `
		INSERT INTO users (id, sequence, spotify_id, email, display_name, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.SpotifyID(), user.Email(), user.DisplayName(), user.Image(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := userSelect + " WHERE id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves a user by their external Spotify profile id.
func (r *UserRepository) GetBySpotifyID(spotifyID string) (*models.User, error) {
	query := userSelect + " WHERE spotify_id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// UpsertBySpotifyID creates the user on first sign-in or refreshes the
// identity fields on subsequent ones. Returns the persisted user.
func (r *UserRepository) UpsertBySpotifyID(spotifyID, email, displayName, image string) (*models.User, error) {
	existing, err := r.GetBySpotifyID(spotifyID)
	if err == nil {
		existing.SetEmail(email)
		if displayName != "" {
			existing.SetDisplayName(displayName)
		}
		if image != "" {
			existing.SetImage(image)
		}
		if err := r.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	user := models.NewUser(0, spotifyID, email, displayName, image)
	if err := r.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET email = ?, display_name = ?, image = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Email(), user.DisplayName(), user.Image(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := userSelect + " WHERE deleted_at IS NULL"

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	return r.queryUsers(query, args...)
}

// Search finds users by display name or email substring, excluding the
// given user and soft-deleted rows. Used by the friends search command.
func (r *UserRepository) Search(query string, excludeUserID string, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	pattern := "%" + query + "%"
	sqlQuery := userSelect + `
		WHERE deleted_at IS NULL
		AND id != ?
		AND (display_name LIKE ? OR email LIKE ?)
		ORDER BY sequence ASC
		LIMIT ?
	`

	return r.queryUsers(sqlQuery, excludeUserID, pattern, pattern, limit)
}

const userSelect = `
	SELECT id, sequence, spotify_id, email, display_name, image, created_at, updated_at, deleted_at
	FROM users
`

// scanOne scans a single row into a [models.User]
func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		id          string
		sequence    int
		spotifyID   string
		email       string
		displayName string
		image       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &spotifyID, &email, &displayName, &image, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, spotifyID, email, displayName, image.String)
	user.SetID(id)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}

// queryUsers runs a multi-row user query and scans the results.
func (r *UserRepository) queryUsers(query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			id          string
			sequence    int
			spotifyID   string
			email       string
			displayName string
			image       sql.NullString
			createdAt   time.Time
			updatedAt   time.Time
			deletedAt   sql.NullTime
		)

		if err := rows.Scan(&id, &sequence, &spotifyID, &email, &displayName, &image, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(sequence, spotifyID, email, displayName, image.String)
		user.SetID(id)
		user.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			user.SetDeletedAt(&deletedAt.Time)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}
