package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campgroundfyi/airsync/pkg/fieldmap"
	"github.com/campgroundfyi/airsync/pkg/records"
)

func testPlanner() *Planner {
	mapper := fieldmap.New(fieldmap.DefaultTable(), records.NewLinkedFields())
	return NewPlanner(mapper)
}

func existingRecords(ids ...string) []records.Record {
	recs := make([]records.Record, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, records.Record{ID: id, Fields: map[string]any{}})
	}
	return recs
}

func TestPairingsPositionalAlignment(t *testing.T) {
	groups := []Group{{Indices: []int{0, 1}}, {Indices: []int{2}}}
	merged := []records.Internal{
		{"email": "a@example.com"},
		{"email": "b@example.com"},
	}

	pairings, diags := Pairings(groups, merged)
	require.Len(t, pairings, 2)
	assert.Empty(t, diags)
	assert.Equal(t, groups[0], pairings[0].Group)
	assert.Equal(t, merged[1], pairings[1].Merged)
}

func TestPairingsMergedLongerThanGroups(t *testing.T) {
	groups := []Group{{Indices: []int{0}}}
	merged := []records.Internal{
		{"email": "a@example.com"},
		{"email": "orphan@example.com"},
	}

	pairings, diags := Pairings(groups, merged)
	assert.Len(t, pairings, 1)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "no matching group")
}

func TestPairingsGroupsBeyondMergedAreKept(t *testing.T) {
	groups := []Group{{Indices: []int{0, 1}}, {Indices: []int{2, 3}}}
	merged := []records.Internal{{"email": "a@example.com"}}

	pairings, diags := Pairings(groups, merged)

	require.Len(t, pairings, 2)
	assert.Equal(t, merged[0], pairings[0].Merged)
	assert.Nil(t, pairings[1].Merged)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "no merged record")
}

func TestPlanBasicScenario(t *testing.T) {
	// existing = [r1, r2, r3]; groups = [{0,1}, {2}] → update r1 and r3, delete r2
	existing := existingRecords("r1", "r2", "r3")
	pairings := []Pairing{
		{Group: Group{Indices: []int{0, 1}}, Merged: records.Internal{"email": "m0@example.com"}},
		{Group: Group{Indices: []int{2}}, Merged: records.Internal{"email": "m1@example.com"}},
	}

	plan := testPlanner().Plan(existing, pairings)

	require.Len(t, plan.Updates, 2)
	assert.Equal(t, "r1", plan.Updates[0].ID)
	assert.Equal(t, map[string]any{"Email": "m0@example.com"}, plan.Updates[0].Fields)
	assert.Equal(t, "r3", plan.Updates[1].ID)
	assert.Equal(t, map[string]any{"Email": "m1@example.com"}, plan.Updates[1].Fields)
	assert.Equal(t, []string{"r2"}, plan.Deletions)
	assert.Empty(t, plan.Diagnostics)
}

func TestPlanNeverDeletesAPrimary(t *testing.T) {
	existing := existingRecords("r1", "r2", "r3")
	pairings := []Pairing{
		{Group: Group{Indices: []int{0, 2}}, Merged: records.Internal{"email": "a@example.com"}},
		// malformed matcher output naming a primary as someone's duplicate
		{Group: Group{Indices: []int{1, 0}}, Merged: records.Internal{"email": "b@example.com"}},
	}

	plan := testPlanner().Plan(existing, pairings)

	assert.NotContains(t, plan.Deletions, "r1")
	assert.Contains(t, plan.Deletions, "r3")
	assert.NotEmpty(t, plan.Diagnostics)
}

func TestPlanNeverUpdatesAnIDTwice(t *testing.T) {
	existing := existingRecords("r1", "r2")
	pairings := []Pairing{
		{Group: Group{Indices: []int{0}}, Merged: records.Internal{"email": "first@example.com"}},
		{Group: Group{Indices: []int{0}}, Merged: records.Internal{"email": "second@example.com"}},
	}

	plan := testPlanner().Plan(existing, pairings)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, map[string]any{"Email": "first@example.com"}, plan.Updates[0].Fields)
	assert.NotEmpty(t, plan.Diagnostics)
}

func TestPlanSkipsOutOfBoundsWithDiagnostic(t *testing.T) {
	existing := existingRecords("r1")

	t.Run("primary out of bounds", func(t *testing.T) {
		pairings := []Pairing{
			{Group: Group{Indices: []int{5}}, Merged: records.Internal{"email": "x@example.com"}},
		}
		plan := testPlanner().Plan(existing, pairings)
		assert.Empty(t, plan.Updates)
		require.Len(t, plan.Diagnostics, 1)
		assert.Contains(t, plan.Diagnostics[0], "out of bounds")
	})

	t.Run("duplicate out of bounds", func(t *testing.T) {
		pairings := []Pairing{
			{Group: Group{Indices: []int{0, 9}}, Merged: records.Internal{"email": "x@example.com"}},
		}
		plan := testPlanner().Plan(existing, pairings)
		assert.Len(t, plan.Updates, 1)
		assert.Empty(t, plan.Deletions)
		assert.NotEmpty(t, plan.Diagnostics)
	})

	t.Run("empty group", func(t *testing.T) {
		pairings := []Pairing{
			{Group: Group{}, Merged: records.Internal{"email": "x@example.com"}},
		}
		plan := testPlanner().Plan(existing, pairings)
		assert.Empty(t, plan.Updates)
		assert.NotEmpty(t, plan.Diagnostics)
	})
}

func TestPlanDeletesDuplicatesOfGroupWithoutMergedRecord(t *testing.T) {
	// duplicates of a group the merger produced nothing for must still be
	// removed; only the update is skipped
	existing := existingRecords("r1", "r2", "r3", "r4")
	groups := []Group{{Indices: []int{0, 1}}, {Indices: []int{2, 3}}}
	merged := []records.Internal{{"email": "m0@example.com"}}

	pairings, diags := Pairings(groups, merged)
	plan := testPlanner().Plan(existing, pairings, diags...)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "r1", plan.Updates[0].ID)
	assert.ElementsMatch(t, []string{"r2", "r4"}, plan.Deletions)
	assert.NotContains(t, plan.Deletions, "r3", "unmerged group keeps its primary")
}

func TestPlanDeletionsDrawnOnlyFromDuplicates(t *testing.T) {
	existing := existingRecords("r1", "r2", "r3", "r4")
	pairings := []Pairing{
		{Group: Group{Indices: []int{0, 1, 3}}, Merged: records.Internal{"email": "m@example.com"}},
	}

	plan := testPlanner().Plan(existing, pairings)

	assert.ElementsMatch(t, []string{"r2", "r4"}, plan.Deletions)
	for _, u := range plan.Updates {
		assert.NotContains(t, plan.Deletions, u.ID, "no id in both updates and deletions")
	}
}

func TestPlanStripsBookkeepingFields(t *testing.T) {
	existing := existingRecords("r1")
	pairings := []Pairing{
		{Group: Group{Indices: []int{0}}, Merged: records.Internal{
			"email":          "a@example.com",
			"MATCH_STATUS":   "merged",
			"MATCH_REASONS":  "email match",
			"email_std":      "a@example.com",
			"first_name_std": "ada",
			"source":         "airtable",
		}},
	}

	plan := testPlanner().Plan(existing, pairings)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, map[string]any{"Email": "a@example.com"}, plan.Updates[0].Fields)
}

func TestPlanSummary(t *testing.T) {
	plan := &Plan{Updates: []Update{{ID: "r1"}}, Deletions: []string{"r2"}}
	assert.False(t, plan.IsEmpty())
	assert.Contains(t, plan.Summary(), "1 updates")
	assert.True(t, (&Plan{}).IsEmpty())
}
