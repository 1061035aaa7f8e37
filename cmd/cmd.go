// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// libraryCommand handles library listing, search and export
func libraryCommand(r *Runner) *cli.Command {
	filterFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Filter by genre",
		},
		&cli.StringFlag{
			Name:  "tag",
			Usage: "Filter by tag",
		},
		&cli.BoolFlag{
			Name:  "missing",
			Usage: "Only titles without a base install",
		},
		&cli.BoolFlag{
			Name:  "pending",
			Usage: "Only titles with pending updates",
		},
		&cli.BoolFlag{
			Name:  "dlc",
			Usage: "Only titles with pending DLC",
		},
		&cli.BoolFlag{
			Name:  "redundant",
			Usage: "Only titles with redundant updates on disk",
		},
	}

	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Game library operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the library",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort spec (field-order, e.g. name-asc, size-desc)",
						Value:   "name-asc",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page to fetch",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Fetch every page",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				}, filterFlags...),
				Action: r.LibraryList,
			},
			{
				Name:  "search",
				Usage: "Search the whole library server-side",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				}, filterFlags...),
				Action: r.LibrarySearch,
			},
			{
				Name:  "export",
				Usage: "Export the library to a file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort spec (field-order)",
						Value:   "name-asc",
					},
				}, filterFlags...),
				Action: r.LibraryExport,
			},
		},
	}
}

// infoCommand shows one game's full detail
func infoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show full details for one title",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title-id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Info,
	}
}

// ignoreCommand manages per-title ignore preferences
func ignoreCommand(r *Runner) *cli.Command {
	itemFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "type",
			Usage:    "Item type: update or dlc",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "item",
			Usage:    "Update version number or DLC app id",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "ignore",
		Usage: "Manage ignored updates and DLC",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show all stored ignore preferences",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.IgnoreList,
			},
			{
				Name:  "set",
				Usage: "Ignore an update or DLC for a title",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title-id",
					},
				},
				Flags:  itemFlags,
				Action: r.IgnoreSet,
			},
			{
				Name:  "unset",
				Usage: "Stop ignoring an update or DLC for a title",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title-id",
					},
				},
				Flags:  itemFlags,
				Action: r.IgnoreUnset,
			},
		},
	}
}

// jobsCommand inspects and controls backend background jobs
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Background job operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show active and recent jobs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsList,
			},
			{
				Name:   "watch",
				Usage:  "Poll the job list until every job has finished",
				Action: r.JobsWatch,
			},
			{
				Name:  "cancel",
				Usage: "Request cancellation of a job",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "job-id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.JobsCancel,
			},
			{
				Name:   "cleanup",
				Usage:  "Clear finished jobs and fail stuck ones",
				Action: r.JobsCleanup,
			},
		},
	}
}

// wishlistCommand manages the server-side wishlist
func wishlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "wishlist",
		Usage: "Wishlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show the wishlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WishlistList,
			},
			{
				Name:  "add",
				Usage: "Add a title to the wishlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title-id",
					},
				},
				Action: r.WishlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a wishlist entry by its id",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.WishlistRemove,
			},
		},
	}
}

// systemCommand reports server build information
func systemCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "Server information",
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Show server build info",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SystemInfo,
			},
		},
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Aliases: []string{"tui"},
		Usage:   "Launch the interactive library browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-push",
				Usage: "Disable the websocket push channel, poll only",
			},
		},
		Action: r.TUI,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize local state",
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
