package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/campgroundfyi/airsync/internal/airtable"
	"github.com/campgroundfyi/airsync/pkg/constants"
	"github.com/campgroundfyi/airsync/pkg/fieldmap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "Show a table's field names and how they map to internal keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		table := cfg.Table
		if len(args) > 0 {
			table = args[0]
		}

		client, err := airtable.NewClient(cfg.APIKey, cfg.BaseID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cobraCmd.Context(), constants.DefaultHTTPTimeout)
		defer cancel()

		info, err := client.Info(ctx, table)
		if err != nil {
			return err
		}

		fmt.Printf("Table: %s\n", info.Table)
		mapped := fieldmap.DefaultTable().Externals()
		sort.Strings(info.FieldNames)
		for _, name := range info.FieldNames {
			if internal, ok := mapped[name]; ok {
				fmt.Printf("  %s -> %s\n", name, internal)
			} else {
				fmt.Printf("  %s (unmapped)\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
