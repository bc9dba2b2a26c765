// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) signatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signature",
		Short: "Read and write single-record signature documents",
	}
	cmd.AddCommand(c.signatureReadCmd(), c.signatureWriteCmd())
	return cmd
}

func (c *cli) signatureReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <location>",
		Short: "Print a signature in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, diags, err := catalog.NewSignature(store, args[0]).Read(ctx)
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], d)
			}
			data, err := catalog.WriteSignature(rec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *cli) signatureWriteCmd() *cobra.Command {
	var (
		flags recordFlags
		from  string
		id    string
	)
	cmd := &cobra.Command{
		Use:   "write <location>",
		Short: "Write a signature document",
		Long: `Write a signature either for a new record built from the field flags, or,
with --from and --uuid, for an existing record of a collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (from == "") != (id == "") {
				return errors.New("--from and --uuid must be given together")
			}

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var rec *game.Record
			if from != "" {
				want, err := uuid.Parse(id)
				if err != nil {
					return fmt.Errorf("--uuid: %w", err)
				}
				records, _, err := catalog.NewCollection(store, from).Read(ctx)
				if err != nil {
					return err
				}
				if rec = findRecord(records, want); rec == nil {
					return fmt.Errorf("no record with UUID %s in %s", want, from)
				}
			} else if rec, err = flags.build(time.Now()); err != nil {
				return err
			}

			if err := catalog.NewSignature(store, args[0]).Write(ctx, rec); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.UUID())
			return err
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&from, "from", "", "collection to copy the record from")
	cmd.Flags().StringVar(&id, "uuid", "", "UUID of the record to copy (with --from)")
	return cmd
}
