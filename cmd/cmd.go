// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user and token state",
				Action: r.AuthStatus,
			},
		},
	}
}

// friendsCommand handles the friend graph
func friendsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "friends",
		Usage: "Manage your music circle",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Connect with another user by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user"},
				},
				Action: r.FriendsAdd,
			},
			{
				Name:  "remove",
				Usage: "Disconnect from a user by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "user"},
				},
				Action: r.FriendsRemove,
			},
			{
				Name:  "list",
				Usage: "List friends with their picks for this week",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.FriendsList,
			},
			{
				Name:  "search",
				Usage: "Find users by name or email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of users to return",
						Value: 10,
					},
				},
				Action: r.FriendsSearch,
			},
			{
				Name:  "suggest",
				Usage: "Suggest users you are not connected with yet",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions",
						Value: 5,
					},
				},
				Action: r.FriendsSuggest,
			},
		},
	}
}

// picksCommand handles weekly track selections
func picksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "picks",
		Usage: "Manage your weekly song picks",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Replace this week's picks (1-3 tracks)",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track search query, repeatable up to 3 times",
						Required: true,
					},
				},
				Action: r.PicksSet,
			},
			{
				Name:  "show",
				Usage: "Show this week's picks",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PicksShow,
			},
		},
	}
}

// feedCommand renders the weekly friend feed
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Show what your friends picked this week",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export format (csv, markdown, text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path for --export",
			},
		},
		Action: r.Feed,
	}
}

// recommendCommand scores track suggestions from friend activity
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Recommend tracks based on your friends' recent picks",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Show the data behind the recommendations",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export format (csv, text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path for --export",
			},
		},
		Action: r.Recommend,
	}
}

// syncCommand builds or updates the weekly Spotify playlist
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync this week's feed to a Spotify playlist",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress progress output",
			},
		},
		Action: r.Sync,
	}
}

// playlistCommand shows the synced playlist record for the current week
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Show this week's synced playlist",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlist,
	}
}
