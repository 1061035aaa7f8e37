package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fernandodimas/myfoil-tui/internal/formatter"
	"github.com/fernandodimas/myfoil-tui/internal/services"
	"github.com/fernandodimas/myfoil-tui/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// IgnoreList prints every stored ignore preference.
func (r *Runner) IgnoreList(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.library.IgnorePrefs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch ignore preferences: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(prefs, true)
	}

	if len(prefs) == 0 {
		r.writePlain("no ignore preferences stored\n")
		return nil
	}
	for titleID, p := range prefs {
		r.writePlain("%s\n", titleID)
		for version, on := range p.Updates {
			if on {
				r.writePlain("  update v%s\n", version)
			}
		}
		for appID, on := range p.DLCs {
			if on {
				r.writePlain("  dlc %s\n", appID)
			}
		}
	}
	return nil
}

// IgnoreSet marks an update or DLC as ignored.
func (r *Runner) IgnoreSet(ctx context.Context, cmd *cli.Command) error {
	return r.setIgnore(ctx, cmd, true)
}

// IgnoreUnset clears an ignore flag.
func (r *Runner) IgnoreUnset(ctx context.Context, cmd *cli.Command) error {
	return r.setIgnore(ctx, cmd, false)
}

func (r *Runner) setIgnore(ctx context.Context, cmd *cli.Command, ignored bool) error {
	titleID := cmd.StringArg("title-id")
	if titleID == "" {
		return fmt.Errorf("%w: title id", shared.ErrMissingArgument)
	}
	kind := strings.ToLower(cmd.String("type"))
	item := cmd.String("item")

	switch kind {
	case "update":
		if _, err := strconv.Atoi(item); err != nil {
			return fmt.Errorf("%w: update item must be a version number", shared.ErrInvalidArgument)
		}
	case "dlc":
	default:
		return fmt.Errorf("%w: type %q (want update or dlc)", shared.ErrInvalidFlag, kind)
	}

	req := services.IgnoreRequest{Type: kind, ItemID: item, Ignored: ignored}
	if err := r.library.SetIgnore(ctx, titleID, req); err != nil {
		return fmt.Errorf("failed to update ignore preference: %w", err)
	}

	verb := "ignored"
	if !ignored {
		verb = "unignored"
	}
	r.writePlain("%s %s %s for %s\n", verb, kind, item, strings.ToUpper(titleID))
	return nil
}

// WishlistList prints the server-side wishlist.
func (r *Runner) WishlistList(ctx context.Context, cmd *cli.Command) error {
	items, err := r.system.Wishlist(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch wishlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}
	if len(items) == 0 {
		r.writePlain("wishlist is empty\n")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title ID", "Name", "Release"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.ID, item.TitleID, item.Name,
			formatter.FormatDateDisplay(item.ReleaseDate),
		})
	}
	t.Render()
	return nil
}

// WishlistAdd puts a title on the wishlist.
func (r *Runner) WishlistAdd(ctx context.Context, cmd *cli.Command) error {
	titleID := cmd.StringArg("title-id")
	if titleID == "" {
		return fmt.Errorf("%w: title id", shared.ErrMissingArgument)
	}
	if err := r.system.AddToWishlist(ctx, titleID); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	r.writePlain("added %s to wishlist\n", strings.ToUpper(titleID))
	return nil
}

// WishlistRemove removes a wishlist entry by its row id.
func (r *Runner) WishlistRemove(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: wishlist id %q", shared.ErrInvalidArgument, raw)
	}
	if err := r.system.RemoveFromWishlist(ctx, id); err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	r.writePlain("removed wishlist entry %d\n", id)
	return nil
}

// SystemInfo prints the server build info.
func (r *Runner) SystemInfo(ctx context.Context, cmd *cli.Command) error {
	info, err := r.system.SystemInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch system info: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(info, true)
	}
	r.writePlain("build version: %s\n", info.BuildVersion)
	if info.IDSource != "" {
		r.writePlain("id source: %s\n", info.IDSource)
	}
	return nil
}
