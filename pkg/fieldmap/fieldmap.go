// Package fieldmap translates between the remote store's external column
// names and the flat internal field keys used by the deduplication pipeline.
// Translation is a pure data transform: no network access, no mutation of
// its inputs.
package fieldmap

import (
	"github.com/campgroundfyi/airsync/pkg/records"
)

// IDKey is the internal key carrying the remote record identifier through
// normalization.
const IDKey = "id"

// Mapper performs bidirectional field translation. The linked-field set is an
// explicit value fixed at construction; build one mapper per batch after
// detection rather than sharing a mutable set.
type Mapper struct {
	table  Table
	linked records.LinkedFields
}

// New creates a Mapper with the given mapping table and linked-field set.
func New(table Table, linked records.LinkedFields) *Mapper {
	return &Mapper{table: table, linked: linked}
}

// Normalize converts a remote record into the flat internal shape. Mapped
// columns are copied under their canonical internal key when present with a
// non-empty value. Unmapped columns are passed through under their own name
// when classified as linked or shaped like a reference array, so unknown
// linked columns are never silently dropped.
func (m *Mapper) Normalize(rec records.Record) records.Internal {
	out := records.Internal{IDKey: rec.ID}

	for name, value := range rec.Fields {
		if records.IsEmpty(value) {
			continue
		}
		if internal, ok := m.table.Internal(name); ok {
			out[internal] = value
			continue
		}
		if m.linked.Contains(name) || records.IsReferenceList(value) {
			out[name] = value
		}
	}

	return out
}

// NormalizeAll converts a batch of remote records.
func (m *Mapper) NormalizeAll(recs []records.Record) []records.Internal {
	out := make([]records.Internal, 0, len(recs))
	for _, rec := range recs {
		out = append(out, m.Normalize(rec))
	}
	return out
}

// Denormalize converts a flat internal record back into external column
// values. Keys with empty values are omitted. Reference arrays are copied
// through shape-preserved, including under keys absent from the mapping
// table: the mapper must not assume all pass-through keys are pre-declared.
func (m *Mapper) Denormalize(internal records.Internal) map[string]any {
	fields := make(map[string]any, len(internal))

	for key, value := range internal {
		if key == IDKey || records.IsEmpty(value) {
			continue
		}
		if external, ok := m.table.External(key); ok {
			fields[external] = value
			continue
		}
		if records.IsReferenceList(value) {
			fields[key] = value
		}
	}

	return fields
}
