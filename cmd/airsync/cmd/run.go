package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campgroundfyi/airsync/internal/airtable"
	"github.com/campgroundfyi/airsync/internal/dedupe"
	"github.com/campgroundfyi/airsync/pkg/constants"
	"github.com/campgroundfyi/airsync/pkg/errors"
	"github.com/campgroundfyi/airsync/pkg/fieldmap"
	"github.com/campgroundfyi/airsync/pkg/reconcile"
	"github.com/campgroundfyi/airsync/pkg/records"
)

var (
	flagMatchFile string
	flagTableFile string
	flagDryRun    bool
)

// matchFile is the JSON document produced by the external matcher and merger:
// duplicate groups and, positionally aligned, the merged record for each.
type matchFile struct {
	Groups []reconcile.Group  `json:"groups"`
	Merged []records.Internal `json:"merged"`
}

// fileMatcher replays groups recorded in a match file.
type fileMatcher struct {
	groups []reconcile.Group
}

// Groups implements dedupe.Matcher.
func (m *fileMatcher) Groups(_ context.Context, _ []records.Internal) ([]reconcile.Group, error) {
	return m.groups, nil
}

// fileMerger replays merged records recorded in a match file.
type fileMerger struct {
	merged []records.Internal
}

// Merge implements dedupe.Merger.
func (m *fileMerger) Merge(_ context.Context, _ []records.Internal, _ []reconcile.Group) ([]records.Internal, error) {
	return m.merged, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply deduplication results to the configured table",
	Long: `Run fetches the configured table, pairs each duplicate group from the
match file with its merged record, updates every cluster's primary, and
deletes the remaining duplicates. Use --dry-run to print the plan without
writing anything.`,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(flagMatchFile)
		if err != nil {
			return errors.WrapIO("read", flagMatchFile, err)
		}
		var match matchFile
		if err := json.Unmarshal(data, &match); err != nil {
			return errors.WrapParse("json", flagMatchFile, err)
		}

		client, err := airtable.NewClient(cfg.APIKey, cfg.BaseID)
		if err != nil {
			return err
		}

		var opts []dedupe.EngineOption
		if flagTableFile != "" {
			table, err := fieldmap.LoadTable(flagTableFile)
			if err != nil {
				return err
			}
			opts = append(opts, dedupe.WithMappingTable(table))
		}

		engine := dedupe.New(cfg, client,
			&fileMatcher{groups: match.Groups},
			&fileMerger{merged: match.Merged},
			opts...)

		ctx, cancel := context.WithTimeout(cobraCmd.Context(), constants.RunTimeout)
		defer cancel()

		if flagDryRun {
			plan, _, err := engine.Plan(ctx)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		summary, err := engine.Run(ctx)
		if summary != nil {
			fmt.Printf("Records: %d, updated: %d, deleted: %d, failures: %d\n",
				summary.OriginalRecords, summary.Updated, summary.Deleted, len(summary.Failures))
		}
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&flagMatchFile, "match-file", "", "JSON file with duplicate groups and merged records (required)")
	runCmd.Flags().StringVar(&flagTableFile, "mapping-table", "", "YAML file overriding the field mapping table")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the plan without applying it")
	_ = runCmd.MarkFlagRequired("match-file")
	rootCmd.AddCommand(runCmd)
}
