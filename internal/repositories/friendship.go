package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixweek/internal/models"
	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// FriendshipRepository manages the friend graph. A friendship is a
// symmetric relation stored as a single row keyed on the ordered pair
// (user_a < user_b), so no one-sided state can exist.
type FriendshipRepository struct {
	db *sql.DB
}

// NewFriendshipRepository creates a new [FriendshipRepository] with the given database connection
func NewFriendshipRepository(db *sql.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// pairKey normalizes two user ids into the stored column order.
func pairKey(userA, userB string) (string, string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

// Add creates the friendship between two users.
//
// Fails with [shared.ErrValidation] on self-friending and with
// [shared.ErrConflict] when the pair is already connected. Duplicates
// are detected by the primary key on the normalized pair, so two
// concurrent adds cannot both succeed.
func (r *FriendshipRepository) Add(userA, userB string) error {
	if userA == userB {
		return fmt.Errorf("%w: cannot add yourself as friend", shared.ErrValidation)
	}

	a, b := pairKey(userA, userB)

	_, err := r.db.Exec(
		"INSERT INTO friendships (user_a, user_b, created_at) VALUES (?, ?, ?)",
		a, b, time.Now(),
	)
	if isDuplicateRow(err) {
		return shared.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}

	return nil
}

// isDuplicateRow reports whether err is a primary key or unique
// constraint violation from the sqlite driver.
func isDuplicateRow(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Remove deletes the friendship. Removing an absent friendship is not
// an error.
func (r *FriendshipRepository) Remove(userA, userB string) error {
	a, b := pairKey(userA, userB)

	_, err := r.db.Exec("DELETE FROM friendships WHERE user_a = ? AND user_b = ?", a, b)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	return nil
}

// FriendsOf returns the ids of every user connected to userID,
// excluding userID itself.
func (r *FriendshipRepository) FriendsOf(userID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT user_b FROM friendships WHERE user_a = ?
		UNION
		SELECT user_a FROM friendships WHERE user_b = ?
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer rows.Close()

	var friends []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		if id != userID {
			friends = append(friends, id)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return friends, nil
}

// AreFriends reports whether a connection exists between two users.
func (r *FriendshipRepository) AreFriends(userA, userB string) (bool, error) {
	a, b := pairKey(userA, userB)

	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a = ? AND user_b = ?)",
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// Suggestions returns the newest users not yet connected to userID,
// excluding userID itself.
func (r *FriendshipRepository) Suggestions(userID string, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT id, sequence, spotify_id, email, display_name, image, created_at, updated_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
		AND id != ?
		AND id NOT IN (SELECT user_b FROM friendships WHERE user_a = ?)
		AND id NOT IN (SELECT user_a FROM friendships WHERE user_b = ?)
		ORDER BY created_at DESC
		LIMIT ?
	`

	userRepo := NewUserRepository(r.db)
	return userRepo.queryUsers(query, userID, userID, userID, limit)
}
