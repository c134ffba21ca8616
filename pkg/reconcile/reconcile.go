// Package reconcile turns duplicate-cluster groupings and their merged
// records into a plan of update and delete operations against the remote
// store. Planning is side-effect-free: no network calls, no mutation of its
// inputs.
package reconcile

import (
	"fmt"

	"github.com/campgroundfyi/airsync/pkg/records"
)

// Group is a cluster of positions into the existing-records sequence judged
// to represent the same real-world entity. Indices[0] is the designated
// primary; Indices[1:] are duplicates to remove.
type Group struct {
	Indices []int `json:"indices"`
}

// Primary returns the primary position, or -1 for an empty group.
func (g Group) Primary() int {
	if len(g.Indices) == 0 {
		return -1
	}
	return g.Indices[0]
}

// Duplicates returns the positions of the duplicates to remove.
func (g Group) Duplicates() []int {
	if len(g.Indices) < 2 {
		return nil
	}
	return g.Indices[1:]
}

// Pairing binds a duplicate group to the merged record derived from it. The
// merge stage produces pairings once, so the planner never relies on two
// sequences staying index-aligned. A nil Merged marks a group the merger
// produced no record for; its duplicates are still deleted, only the update
// is skipped.
type Pairing struct {
	Group  Group            `json:"group"`
	Merged records.Internal `json:"merged"`
}

// Pairings builds pairings from the positional output of an external matcher
// and merger, where merged[i] is the result of merging groups[i]. Every group
// yields a pairing: groups past the end of the merged sequence pair with a
// nil merged record and a diagnostic, so their duplicates still reach the
// deletion pass. Merged entries beyond the end of the group sequence have
// nothing to align with; each is skipped with a diagnostic rather than
// failing the run.
func Pairings(groups []Group, merged []records.Internal) ([]Pairing, []string) {
	var diagnostics []string
	pairings := make([]Pairing, 0, len(groups))

	for i, g := range groups {
		var m records.Internal
		if i < len(merged) {
			m = merged[i]
		} else {
			diagnostics = append(diagnostics,
				fmt.Sprintf("group %d has no merged record (%d merged); update skipped, duplicates still removed", i, len(merged)))
		}
		pairings = append(pairings, Pairing{Group: g, Merged: m})
	}
	for i := len(groups); i < len(merged); i++ {
		diagnostics = append(diagnostics,
			fmt.Sprintf("merged record %d has no matching group (%d groups)", i, len(groups)))
	}

	return pairings, diagnostics
}
