// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// recordFlags are the field flags shared by add and signature write.
type recordFlags struct {
	exe    string
	name   string
	desc   string
	panel  string
	movies []string
	images []string
	gameID int
}

func (f *recordFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.exe, "exe", "", "path of the game executable")
	fs.StringVar(&f.name, "name", "", "display name")
	fs.StringVar(&f.desc, "desc", "", "description")
	fs.StringVar(&f.panel, "panel", "", "path of the panel image")
	fs.StringArrayVar(&f.movies, "movie", nil, "path of a movie (repeatable)")
	fs.StringArrayVar(&f.images, "image", nil, "path of an image (repeatable)")
	fs.IntVar(&f.gameID, "game-id", 0, "positive game ID")
}

// build creates a fresh record with a new UUID, stamped with now.
func (f *recordFlags) build(now time.Time) (*game.Record, error) {
	r := game.New().SetName(f.name).SetDesc(f.desc).Touch(now)
	if f.exe != "" {
		p, err := game.ParsePath(f.exe)
		if err != nil {
			return nil, fmt.Errorf("--exe: %w", err)
		}
		r.SetExe(p)
	}
	if f.panel != "" {
		p, err := game.ParsePath(f.panel)
		if err != nil {
			return nil, fmt.Errorf("--panel: %w", err)
		}
		r.SetPanel(p)
	}
	movies, err := game.ParsePaths(f.movies...)
	if err != nil {
		return nil, fmt.Errorf("--movie: %w", err)
	}
	images, err := game.ParsePaths(f.images...)
	if err != nil {
		return nil, fmt.Errorf("--image: %w", err)
	}
	if f.gameID < 0 {
		return nil, fmt.Errorf("--game-id: must be a positive, unique natural number, got %d", f.gameID)
	}
	return r.SetMovieList(movies).SetImageList(images).SetGameID(f.gameID), nil
}

func (c *cli) addCmd() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "add <location>",
		Short: "Append a new record to a collection",
		Long: `Append a record with a freshly generated UUID and lastMod set to now.
A missing collection is created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec, err := flags.build(time.Now())
			if err != nil {
				return err
			}

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			coll := catalog.NewCollection(store, args[0])
			records, _, err := coll.Read(ctx)
			if err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return err
			}
			if err := coll.Write(ctx, append(records, rec)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.UUID())
			return err
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func (c *cli) fmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <location>...",
		Short: "Rewrite collections in canonical form",
		Long: `Decode each collection and write it back with canonical key order and
indentation. Fields that fail to decode are dropped, so run check first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, loc := range args {
				coll := catalog.NewCollection(store, loc)
				records, diags, err := coll.Read(ctx)
				if err != nil {
					return err
				}
				if err := coll.Write(ctx, records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records rewritten, %d diagnostics\n", loc, len(records), len(diags))
			}
			return nil
		},
	}
}
