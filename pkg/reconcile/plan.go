package reconcile

import (
	"fmt"
	"strings"

	"github.com/campgroundfyi/airsync/pkg/fieldmap"
	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/records"
)

// Update is one pending write: the target record identifier and the external
// field values to overwrite it with.
type Update struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Plan is the computed set of operations needed to collapse duplicate groups
// into their primaries. No identifier ever appears in both Updates and
// Deletions, and Deletions only ever holds duplicates, never a primary.
type Plan struct {
	Updates     []Update `json:"updates"`
	Deletions   []string `json:"deletions"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// IsEmpty reports whether the plan carries no operations.
func (p *Plan) IsEmpty() bool {
	return len(p.Updates) == 0 && len(p.Deletions) == 0
}

// Summary returns a one-line description of the plan.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%d updates, %d deletions, %d diagnostics",
		len(p.Updates), len(p.Deletions), len(p.Diagnostics))
}

// Planner builds reconciliation plans. The mapper serializes merged records
// for writing; bookkeeping keys produced by the matcher and merger are
// stripped before serialization so they never reach the remote store.
type Planner struct {
	mapper      *fieldmap.Mapper
	bookkeeping map[string]struct{}
}

// Option configures a Planner.
type Option func(*Planner)

// WithBookkeepingKeys overrides the set of internal-only keys stripped from
// merged records before serialization.
func WithBookkeepingKeys(keys ...string) Option {
	return func(p *Planner) {
		p.bookkeeping = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			p.bookkeeping[k] = struct{}{}
		}
	}
}

// defaultBookkeeping covers the matcher's diagnostic columns. Normalized-copy
// columns carry a suffix and are matched separately.
var defaultBookkeeping = []string{
	"MATCH_STATUS",
	"MATCH_REASONS",
	"match_status",
	"match_reasons",
	"source",
}

// normalizedCopySuffix marks standardized shadow columns added by the
// matcher's preprocessing.
const normalizedCopySuffix = "_std"

// NewPlanner creates a Planner serializing through the given mapper.
func NewPlanner(mapper *fieldmap.Mapper, opts ...Option) *Planner {
	p := &Planner{mapper: mapper}
	WithBookkeepingKeys(defaultBookkeeping...)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes the operations for collapsing each pairing's group into its
// primary. Pairings whose group is empty or whose primary position falls
// outside the existing sequence are skipped with a diagnostic; processing
// continues. Duplicate positions out of bounds are likewise skipped. A
// pairing with a nil merged record contributes no update but its duplicates
// are still deleted. The plan never deletes a primary and never updates an
// identifier twice.
func (p *Planner) Plan(existing []records.Record, pairings []Pairing, diagnostics ...string) *Plan {
	plan := &Plan{Diagnostics: diagnostics}

	updated := make(map[string]struct{}, len(pairings))
	primaries := make(map[string]struct{}, len(pairings))

	for i, pairing := range pairings {
		primary := pairing.Group.Primary()
		if primary < 0 {
			plan.diag("pairing %d has an empty group", i)
			continue
		}
		if primary >= len(existing) {
			plan.diag("pairing %d: primary position %d out of bounds (%d existing records)",
				i, primary, len(existing))
			continue
		}

		id := existing[primary].ID
		primaries[id] = struct{}{}
		if pairing.Merged == nil {
			continue
		}
		if _, seen := updated[id]; seen {
			plan.diag("pairing %d: record %s already updated by an earlier pairing", i, id)
			continue
		}
		updated[id] = struct{}{}

		plan.Updates = append(plan.Updates, Update{
			ID:     id,
			Fields: p.mapper.Denormalize(p.strip(pairing.Merged)),
		})
	}

	deleted := make(map[string]struct{})
	for i, pairing := range pairings {
		for _, pos := range pairing.Group.Duplicates() {
			if pos < 0 || pos >= len(existing) {
				plan.diag("pairing %d: duplicate position %d out of bounds (%d existing records)",
					i, pos, len(existing))
				continue
			}
			id := existing[pos].ID
			if _, isPrimary := primaries[id]; isPrimary {
				plan.diag("pairing %d: refusing to delete %s, it is a primary", i, id)
				continue
			}
			if _, seen := deleted[id]; seen {
				continue
			}
			deleted[id] = struct{}{}
			plan.Deletions = append(plan.Deletions, id)
		}
	}

	for _, d := range plan.Diagnostics {
		logging.Warn().Str("component", "reconcile").Msg(d)
	}

	return plan
}

// strip removes internal bookkeeping keys and normalized-copy columns from a
// merged record.
func (p *Planner) strip(merged records.Internal) records.Internal {
	out := make(records.Internal, len(merged))
	for key, value := range merged {
		if _, drop := p.bookkeeping[key]; drop {
			continue
		}
		if strings.HasSuffix(key, normalizedCopySuffix) {
			continue
		}
		out[key] = value
	}
	return out
}

func (p *Plan) diag(format string, args ...any) {
	p.Diagnostics = append(p.Diagnostics, fmt.Sprintf(format, args...))
}
