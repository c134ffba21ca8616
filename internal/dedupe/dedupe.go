// Package dedupe orchestrates a full reconciliation run: fetch the table,
// normalize records, hand them to the external matcher and merger, plan the
// update and delete operations, and apply them in chunks.
package dedupe

import (
	"context"

	"github.com/campgroundfyi/airsync/internal/airtable"
	"github.com/campgroundfyi/airsync/internal/config"
	"github.com/campgroundfyi/airsync/pkg/fieldmap"
	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/reconcile"
	"github.com/campgroundfyi/airsync/pkg/records"
	"github.com/campgroundfyi/airsync/pkg/resolve"
	"github.com/campgroundfyi/airsync/pkg/sync"
)

// Matcher clusters normalized records into duplicate groups. It is an
// external collaborator; the engine only consumes its output.
type Matcher interface {
	Groups(ctx context.Context, recs []records.Internal) ([]reconcile.Group, error)
}

// Merger produces one merged record per group, positionally aligned with the
// group sequence it was given.
type Merger interface {
	Merge(ctx context.Context, recs []records.Internal, groups []reconcile.Group) ([]records.Internal, error)
}

// Engine wires the reconciliation pipeline together for one table.
type Engine struct {
	cfg     *config.Config
	client  *airtable.Client
	matcher Matcher
	merger  Merger
	table   fieldmap.Table
	rules   []resolve.Rule
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMappingTable overrides the default field mapping table.
func WithMappingTable(table fieldmap.Table) EngineOption {
	return func(e *Engine) {
		e.table = table
	}
}

// WithCheckboxRules overrides the checkbox resolution rules.
func WithCheckboxRules(rules ...resolve.Rule) EngineOption {
	return func(e *Engine) {
		e.rules = rules
	}
}

// New creates an Engine.
func New(cfg *config.Config, client *airtable.Client, matcher Matcher, merger Merger, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:     cfg,
		client:  client,
		matcher: matcher,
		merger:  merger,
		table:   fieldmap.DefaultTable(),
		rules:   resolve.DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summary reports what a run did.
type Summary struct {
	OriginalRecords int
	MergedRecords   int
	Updated         int
	Deleted         int
	DeletedIDs      []string
	Failures        []sync.Failure
	Diagnostics     []string
}

// Plan computes the reconciliation plan for the configured table without
// applying it. Configuration is validated up front; no remote call is
// attempted when credentials are missing.
func (e *Engine) Plan(ctx context.Context) (*reconcile.Plan, []records.Record, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log := logging.Ctx(ctx)
	ctx = logging.WithTable(ctx, e.cfg.Table)

	existing, err := e.client.List(ctx, e.cfg.Table)
	if err != nil {
		return nil, nil, err
	}
	if len(existing) == 0 {
		log.Warn().Str("table", e.cfg.Table).Msg("No existing records found")
		return &reconcile.Plan{}, nil, nil
	}

	// Classify linked fields once for the whole batch, then build the mapper
	// and resolver around that fixed classification.
	linked := records.DetectLinkedFields(existing, records.NewLinkedFields(e.cfg.LinkedFields...))
	if linked.Len() > 0 {
		log.Info().Strs("fields", linked.Names()).Msg("Detected linked record fields")
	}

	mapper := fieldmap.New(e.table, linked)
	resolver := resolve.New(airtable.NewLabelLookup(e.client, e.cfg.EventsTable, e.cfg.EventLabelField))

	internal := mapper.NormalizeAll(existing)
	for i, rec := range internal {
		internal[i] = resolver.Apply(ctx, rec, e.rules...)
	}

	groups, err := e.matcher.Groups(ctx, internal)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("groups", len(groups)).Msg("Matching complete")

	merged, err := e.merger.Merge(ctx, internal, groups)
	if err != nil {
		return nil, nil, err
	}

	pairings, diags := reconcile.Pairings(groups, merged)
	plan := reconcile.NewPlanner(mapper).Plan(existing, pairings, diags...)
	log.Info().Str("plan", plan.Summary()).Msg("Reconciliation plan ready")

	return plan, existing, nil
}

// Run computes and applies the reconciliation plan, collapsing every
// duplicate group into its primary.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	plan, existing, err := e.Plan(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		OriginalRecords: len(existing),
		MergedRecords:   len(plan.Updates),
		Diagnostics:     plan.Diagnostics,
	}
	if plan.IsEmpty() {
		return summary, nil
	}

	applier := sync.NewApplier(
		airtable.NewTableStore(e.client, e.cfg.Table),
		sync.WithChunkSize(e.cfg.ChunkSize),
	)
	outcome, err := applier.Apply(ctx, plan)
	if outcome != nil {
		summary.Updated = outcome.Updated
		summary.Deleted = outcome.Deleted
		summary.DeletedIDs = outcome.DeletedIDs
		summary.Failures = outcome.Failures
	}
	if err != nil {
		return summary, err
	}

	logging.Ctx(ctx).Info().
		Int("updated", summary.Updated).
		Int("deleted", summary.Deleted).
		Msg("Reconciliation run complete")
	return summary, nil
}
