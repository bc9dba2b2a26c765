// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/chrootRISCassembler/GameInfo/internal/persistence/sqlite"
	"github.com/spf13/cobra"
)

func (c *cli) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Document store maintenance",
	}
	cmd.AddCommand(c.storeVerifyCmd())
	return cmd
}

func (c *cli) storeVerifyCmd() *cobra.Command {
	var (
		path string
		mode string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check SQLite store integrity",
		Long: `Run an integrity check over a SQLite document store. The database is
opened read-only, so this is safe to run next to a serving process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = c.cfg.Store.Path
			}
			if path == "" {
				return errors.New("--path is required (or set store.path)")
			}
			m, err := sqlite.ParseMode(mode)
			if err != nil {
				return err
			}

			rep, err := sqlite.Verify(cmd.Context(), path, m)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rep.OK() {
				fmt.Fprintf(out, "%s: ok (%s, schema v%d)\n", rep.Path, rep.Mode, rep.SchemaVersion)
				return nil
			}
			for _, issue := range rep.Issues {
				fmt.Fprintf(out, "%s: %s\n", rep.Path, issue)
			}
			return fmt.Errorf("%s: %d integrity problems", rep.Path, len(rep.Issues))
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "SQLite database file (defaults to store.path)")
	cmd.Flags().StringVar(&mode, "mode", string(sqlite.ModeQuick), "verification mode: quick or full")
	return cmd
}
