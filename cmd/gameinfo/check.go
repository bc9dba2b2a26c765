// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/chrootRISCassembler/GameInfo/internal/catalog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkResult is the outcome of checking one document.
type checkResult struct {
	location string
	records  int
	diags    []string
	err      error
}

func (c *cli) checkCmd() *cobra.Command {
	var (
		signature bool
		strict    bool
		jobs      int
	)
	cmd := &cobra.Command{
		Use:   "check <location>...",
		Short: "Decode documents and report diagnostics",
		Long: `Decode each collection (or, with --signature, signature) document and
print every per-field diagnostic. Documents are checked concurrently.
The command fails when a document cannot be read or parsed, and with
--strict also when any diagnostic is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
			}
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			results := make([]checkResult, len(args))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(jobs)
			for i, loc := range args {
				i, loc := i, loc
				g.Go(func() error {
					res := checkResult{location: loc}
					if signature {
						_, diags, err := catalog.NewSignature(store, loc).Read(gctx)
						res.err = err
						if err == nil {
							res.records = 1
							res.diags = diags.Strings()
						}
					} else {
						records, diags, err := catalog.NewCollection(store, loc).Read(gctx)
						res.records, res.err = len(records), err
						for _, d := range diags {
							res.diags = append(res.diags, d.String())
						}
					}
					results[i] = res
					return nil
				})
			}
			_ = g.Wait()

			return reportCheck(cmd.OutOrStdout(), results, strict)
		},
	}
	cmd.Flags().BoolVar(&signature, "signature", false, "treat documents as single-record signatures")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any diagnostic is reported")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "documents checked in parallel")
	return cmd
}

// reportCheck prints results in argument order.
func reportCheck(w io.Writer, results []checkResult, strict bool) error {
	var failed, diagnosed int
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(w, "%s: error: %v\n", res.location, res.err)
			continue
		}
		fmt.Fprintf(w, "%s: %d records, %d diagnostics\n", res.location, res.records, len(res.diags))
		for _, d := range res.diags {
			fmt.Fprintf(w, "  %s\n", d)
		}
		if len(res.diags) > 0 {
			diagnosed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents could not be read", failed, len(results))
	}
	if strict && diagnosed > 0 {
		return fmt.Errorf("%w: %d of %d documents", errDiagnostics, diagnosed, len(results))
	}
	return nil
}
