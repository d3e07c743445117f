package models

import (
	"fmt"
	"time"
)

// User represents an account created on first successful sign-in and
// refreshed on every subsequent one. Users are never hard-deleted.
type User struct {
	id          string
	sequence    int
	spotifyID   string
	email       string
	displayName string
	image       string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewUser creates a User from an external profile.
func NewUser(sequence int, spotifyID, email, displayName, image string) *User {
	now := time.Now()
	return &User{
		sequence:    sequence,
		spotifyID:   spotifyID,
		email:       email,
		displayName: displayName,
		image:       image,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) SpotifyID() string     { return u.spotifyID }
func (u *User) Email() string         { return u.email }
func (u *User) DisplayName() string   { return u.displayName }
func (u *User) Image() string         { return u.image }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

func (u *User) SetID(id string)            { u.id = id }
func (u *User) SetSequence(sequence int)   { u.sequence = sequence }
func (u *User) SetUpdatedAt(t time.Time)   { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time)  { u.deletedAt = t }
func (u *User) SetEmail(email string)      { u.email = email }
func (u *User) SetDisplayName(name string) { u.displayName = name }
func (u *User) SetImage(image string)      { u.image = image }

// Validate checks that the user carries the minimum identity fields.
func (u *User) Validate() error {
	if u.spotifyID == "" {
		return fmt.Errorf("user missing spotify id")
	}
	if u.displayName == "" {
		return fmt.Errorf("user missing display name")
	}
	return nil
}
