package fieldmap

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/campgroundfyi/airsync/pkg/errors"
)

// Entry declares one external column and the internal spellings that map to
// it. Internal, External, and every alias all resolve to External when
// serializing; External resolves to Internal when normalizing.
type Entry struct {
	Internal string   `yaml:"internal"`
	External string   `yaml:"external"`
	Aliases  []string `yaml:"aliases,omitempty"`
}

// Table is the many-to-one internal⇄external field name mapping. Several
// internal spellings (a machine key, the human label, legacy aliases) may map
// to the same external column.
type Table struct {
	toExternal map[string]string
	toInternal map[string]string
}

// NewTable builds a mapping table from entries.
func NewTable(entries ...Entry) Table {
	t := Table{
		toExternal: make(map[string]string, len(entries)*2),
		toInternal: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Internal == "" || e.External == "" {
			continue
		}
		t.toExternal[e.Internal] = e.External
		t.toExternal[e.External] = e.External
		for _, alias := range e.Aliases {
			t.toExternal[alias] = e.External
		}
		t.toInternal[e.External] = e.Internal
	}
	return t
}

// External looks up the external column for an internal spelling.
func (t Table) External(internal string) (string, bool) {
	ext, ok := t.toExternal[internal]
	return ext, ok
}

// Internal looks up the canonical internal key for an external column.
func (t Table) Internal(external string) (string, bool) {
	in, ok := t.toInternal[external]
	return in, ok
}

// Externals returns a map of external column name to canonical internal key.
func (t Table) Externals() map[string]string {
	out := make(map[string]string, len(t.toInternal))
	for ext, in := range t.toInternal {
		out[ext] = in
	}
	return out
}

// tableFile is the YAML document shape for custom mapping tables.
type tableFile struct {
	Fields []Entry `yaml:"fields"`
}

// LoadTable reads a mapping table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, errors.NewConfigError("fieldmap", "failed to read mapping table", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Table{}, errors.WrapParse("yaml", path, err)
	}
	if len(file.Fields) == 0 {
		return Table{}, errors.NewValidationError("fields", path, "mapping table declares no fields")
	}

	return NewTable(file.Fields...), nil
}

// DefaultTable returns the mapping table for the provider roster schema.
func DefaultTable() Table {
	return NewTable(
		Entry{Internal: "email", External: "Email"},
		Entry{Internal: "first_name", External: "First Name"},
		Entry{Internal: "last_name", External: "Last Name"},
		Entry{Internal: "name_full", External: "Registrant Full Name (F)"},
		Entry{Internal: "uid", External: "UID", Aliases: []string{"uniqueID"}},
		Entry{Internal: "neon_crm_id", External: "NeonCRM Account ID"},
		Entry{Internal: "circle_id", External: "Circle Account ID (C)"},
		Entry{Internal: "provider_type", External: "Provider Type"},
		Entry{Internal: "tags", External: "Tags"},
		Entry{Internal: "tpg_id", External: "TPG ID"},
		Entry{Internal: "member_status", External: "Member Status"},
		Entry{Internal: "join_date", External: "Join Date"},
		Entry{Internal: "event_rsvps", External: "Event RSVPs"},
		Entry{Internal: "event_attendance", External: "Event Attendance"},
		Entry{Internal: "donate_total", External: "Donate(Total)"},
		Entry{Internal: "revenue_total", External: "Revenue (Total)"},
		Entry{Internal: "newsletter", External: "Newsletter"},
		Entry{Internal: "program_applications", External: "Program Applications"},
		Entry{Internal: "program_acceptances", External: "Program Acceptances"},
		Entry{Internal: "engagement_score", External: "Engagement Score"},
		Entry{Internal: "test_link", External: "Test Link"},
		Entry{Internal: "uid_from_test_link", External: "UID (from Test Link)"},
		Entry{Internal: "tags_from_test_link", External: "Tags (from Test Link)"},
		Entry{Internal: "events", External: "Events"},
		Entry{Internal: "match_status", External: "Match Status", Aliases: []string{"MATCH_STATUS"}},
		Entry{Internal: "match_reasons", External: "Match Reasons", Aliases: []string{"MATCH_REASONS"}},
	)
}
