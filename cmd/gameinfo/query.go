// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/chrootRISCassembler/GameInfo/internal/game"
	"github.com/chrootRISCassembler/GameInfo/internal/metrics"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) queryCmd() *cobra.Command {
	var (
		id        string
		fields    string
		predicate string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "query <location>",
		Short: "Render selected fields of one record",
		Long: `Find the record with --uuid in a collection and render a projection of
it. Select fields either with --fields (a comma separated key list) or with
--predicate (a JSON object of booleans such as '{"name": true}', which also
selects UUID unless it is set to false).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (fields == "") == (predicate == "") {
				return errors.New("exactly one of --fields or --predicate is required")
			}
			want, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("--uuid: %w", err)
			}

			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, _, err := catalog.NewCollection(store, args[0]).Read(ctx)
			if err != nil {
				return err
			}
			rec := findRecord(records, want)
			if rec == nil {
				return fmt.Errorf("no record with UUID %s in %s", want, args[0])
			}

			var projection game.Projection
			if fields != "" {
				var set game.FieldSet
				set, err = game.ParseFieldList(fields)
				metrics.RecordQuery("fields", err)
				if err != nil {
					return err
				}
				projection = game.Query(rec, set)
			} else {
				projection, err = game.QueryJSON(rec, predicate)
				metrics.RecordQuery("predicate", err)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.Marshal(projection)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			_, err = fmt.Fprintln(out, projection.String())
			return err
		},
	}
	cmd.Flags().StringVar(&id, "uuid", "", "UUID of the record to query")
	cmd.Flags().StringVar(&fields, "fields", "", "comma separated field keys, e.g. name,desc")
	cmd.Flags().StringVar(&predicate, "predicate", "", `predicate object, e.g. '{"name": true}'`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projection as a JSON object")
	_ = cmd.MarkFlagRequired("uuid")
	return cmd
}

// findRecord returns the first record with identifier id.
func findRecord(records []*game.Record, id uuid.UUID) *game.Record {
	for _, r := range records {
		if r.HasUUID() && r.UUID() == id {
			return r
		}
	}
	return nil
}
