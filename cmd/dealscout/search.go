package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dealscout/backend/internal/domain"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var forceLive bool

	cmd := &cobra.Command{
		Use:   "search <request>",
		Short: "Run one deal search and print the result as JSON",
		Example: `  dealscout search "work laptop under $1000"
  dealscout search --live "noise cancelling headphones"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := buildApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			payload, err := app.agent.Search(ctx, domain.SearchRequest{
				Query:     strings.Join(args, " "),
				ForceLive: forceLive,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().BoolVar(&forceLive, "live", false, "require live web results, never fall back")
	return cmd
}
