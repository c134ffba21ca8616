package fieldmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campgroundfyi/airsync/pkg/records"
)

func testMapper(linked ...string) *Mapper {
	return New(DefaultTable(), records.NewLinkedFields(linked...))
}

func TestNormalizeMapsKnownColumns(t *testing.T) {
	m := testMapper()
	rec := records.Record{
		ID: "rec001",
		Fields: map[string]any{
			"Email":            "jane@example.com",
			"First Name":       "Jane",
			"UID":              "u-42",
			"Engagement Score": float64(7),
		},
	}

	got := m.Normalize(rec)

	assert.Equal(t, "rec001", got["id"])
	assert.Equal(t, "jane@example.com", got["email"])
	assert.Equal(t, "Jane", got["first_name"])
	assert.Equal(t, "u-42", got["uid"])
	assert.Equal(t, float64(7), got["engagement_score"])
}

func TestNormalizeDropsEmptyValues(t *testing.T) {
	m := testMapper()
	rec := records.Record{
		ID: "rec002",
		Fields: map[string]any{
			"Email":      "",
			"Last Name":  "Doe",
			"Newsletter": false,
		},
	}

	got := m.Normalize(rec)

	assert.Equal(t, "Doe", got["last_name"])
	assert.NotContains(t, got, "email")
	assert.NotContains(t, got, "newsletter")
}

func TestNormalizePassesThroughUnmappedLinkedColumns(t *testing.T) {
	m := testMapper("Sponsorships")
	rec := records.Record{
		ID: "rec003",
		Fields: map[string]any{
			"Sponsorships": []any{"recS1"},
			"Committees":   []any{"recC1", "recC2"}, // unknown but reference-shaped
			"Notes":        "free text",             // unknown scalar, dropped
		},
	}

	got := m.Normalize(rec)

	assert.Equal(t, []any{"recS1"}, got["Sponsorships"])
	assert.Equal(t, []any{"recC1", "recC2"}, got["Committees"])
	assert.NotContains(t, got, "Notes")
}

func TestNormalizeAll(t *testing.T) {
	m := testMapper()
	recs := []records.Record{
		{ID: "rec001", Fields: map[string]any{"Email": "a@example.com"}},
		{ID: "rec002", Fields: map[string]any{"Email": "b@example.com"}},
	}

	got := m.NormalizeAll(recs)

	require.Len(t, got, 2)
	assert.Equal(t, "a@example.com", got[0]["email"])
	assert.Equal(t, "rec002", got[1]["id"])
}

func TestExternalsListsExternalColumns(t *testing.T) {
	ext := DefaultTable().Externals()

	assert.Equal(t, "email", ext["Email"])
	assert.Equal(t, "match_status", ext["Match Status"])
	assert.NotContains(t, ext, "email", "keys are external spellings only")
}

func TestDenormalizeManyToOne(t *testing.T) {
	m := testMapper()

	// machine key, human label, and legacy alias all land on the same column
	for _, key := range []string{"uid", "UID", "uniqueID"} {
		fields := m.Denormalize(records.Internal{key: "u-42"})
		assert.Equal(t, map[string]any{"UID": "u-42"}, fields, "spelling %q", key)
	}
}

func TestDenormalizePreservesLinkedArrays(t *testing.T) {
	m := testMapper()
	fields := m.Denormalize(records.Internal{
		"events":     []string{"recA", "recB"},
		"Buddy List": []string{"recX"}, // not in the table, still reference-shaped
		"scratch":    "temp",           // not in the table and not a reference array
	})

	assert.Equal(t, []string{"recA", "recB"}, fields["Events"])
	assert.Equal(t, []string{"recX"}, fields["Buddy List"])
	assert.NotContains(t, fields, "scratch")
}

func TestDenormalizeOmitsIDAndEmpty(t *testing.T) {
	m := testMapper()
	fields := m.Denormalize(records.Internal{
		"id":    "rec001",
		"email": "",
		"tags":  []any{},
	})
	assert.Empty(t, fields)
}

func TestRoundTripOnMappedSubset(t *testing.T) {
	m := testMapper()
	rec := records.Record{
		ID: "rec010",
		Fields: map[string]any{
			"Email":         "a@example.com",
			"First Name":    "Ada",
			"Last Name":     "Lovelace",
			"Member Status": "Active",
			"Events":        []any{"recE1", "recE2"},
		},
	}

	got := m.Denormalize(m.Normalize(rec))
	assert.Equal(t, rec.Fields, got)
}

func TestLoadTable(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "table.yaml")
		doc := `fields:
  - internal: email
    external: Email
  - internal: uid
    external: UID
    aliases: [uniqueID]
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		table, err := LoadTable(path)
		require.NoError(t, err)

		ext, ok := table.External("uniqueID")
		assert.True(t, ok)
		assert.Equal(t, "UID", ext)

		in, ok := table.Internal("Email")
		assert.True(t, ok)
		assert.Equal(t, "email", in)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fields: []\n"), 0o644))
		_, err := LoadTable(path)
		assert.Error(t, err)
	})
}
