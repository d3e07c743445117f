package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/mixweek/internal/shared"
	"github.com/desertthunder/mixweek/internal/ui"
	"github.com/urfave/cli/v3"
)

// FriendsAdd connects the signed-in user with another user.
func (r *Runner) FriendsAdd(ctx context.Context, cmd *cli.Command) error {
	friendID := cmd.StringArg("user")
	if friendID == "" {
		return fmt.Errorf("%w: user ID is required", shared.ErrMissingArgument)
	}

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	friend, err := r.users.Get(friendID)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, friendID)
	}

	if err := r.friends.Add(user.ID(), friend.ID()); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			r.writePlain("Already connected with %s\n", friend.DisplayName())
			return nil
		}
		return err
	}

	r.logger.Infof("connected %v and %v", user.ID(), friend.ID())
	r.writePlain("✓ Connected with %s\n", friend.DisplayName())
	return nil
}

// FriendsRemove disconnects the signed-in user from another user.
func (r *Runner) FriendsRemove(ctx context.Context, cmd *cli.Command) error {
	friendID := cmd.StringArg("user")
	if friendID == "" {
		return fmt.Errorf("%w: user ID is required", shared.ErrMissingArgument)
	}

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	if err := r.friends.Remove(user.ID(), friendID); err != nil {
		return err
	}

	r.writePlain("✓ Disconnected from %s\n", friendID)
	return nil
}

// friendEntry is the list view of one friend with this week's activity.
type friendEntry struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Email         string `json:"email"`
	SongsThisWeek int    `json:"songs_this_week"`
}

// FriendsList lists the user's friends with their pick counts for the
// current week.
func (r *Runner) FriendsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	friendIDs, err := r.friends.FriendsOf(user.ID())
	if err != nil {
		return err
	}

	weekStart := shared.WeekStart(r.now())
	entries := make([]friendEntry, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		friend, err := r.users.Get(friendID)
		if err != nil {
			r.logger.Warn("skipping unknown friend", "id", friendID, "error", err)
			continue
		}

		entry := friendEntry{
			ID:          friend.ID(),
			DisplayName: friend.DisplayName(),
			Email:       friend.Email(),
		}
		if selection, err := r.picks.GetForWeek(friendID, weekStart); err == nil && selection != nil {
			entry.SongsThisWeek = len(selection.Tracks)
		}
		entries = append(entries, entry)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	if len(entries) == 0 {
		r.writePlain("No friends yet. %s\n", ui.Styles.Help("Find some with: mixweek friends search <name>"))
		return nil
	}

	r.writePlain("Your circle (%d):\n\n", len(entries))
	for i, entry := range entries {
		r.writePlain("%d. %s\n", i+1, entry.DisplayName)
		r.writePlain("   ID: %s\n", entry.ID)
		r.writePlain("   Picks this week: %d\n", entry.SongsThisWeek)
		r.writePlain("\n")
	}

	return nil
}

// FriendsSearch finds users by display name or email.
func (r *Runner) FriendsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	results, err := r.users.Search(query, user.ID(), int(limit))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		r.writePlain("No users match %q\n", query)
		return nil
	}

	r.writePlain("Found %d users:\n\n", len(results))
	for i, found := range results {
		connected, _ := r.friends.AreFriends(user.ID(), found.ID())
		r.writePlain("%d. %s\n", i+1, found.DisplayName())
		r.writePlain("   ID: %s\n", found.ID())
		if connected {
			r.writePlain("   Already in your circle\n")
		} else {
			r.writePlain("   Add with: mixweek friends add %s\n", found.ID())
		}
		r.writePlain("\n")
	}

	return nil
}

// FriendsSuggest lists users the signed-in user is not connected with yet.
func (r *Runner) FriendsSuggest(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	if err := r.ensureStores(); err != nil {
		return err
	}

	user, err := r.currentUser()
	if err != nil {
		return err
	}

	suggestions, err := r.friends.Suggestions(user.ID(), int(limit))
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		r.writePlain("No suggestions right now\n")
		return nil
	}

	r.writePlain("People you might know:\n\n")
	for i, suggestion := range suggestions {
		r.writePlain("%d. %s\n", i+1, suggestion.DisplayName())
		r.writePlain("   Add with: mixweek friends add %s\n", suggestion.ID())
		r.writePlain("\n")
	}

	return nil
}
