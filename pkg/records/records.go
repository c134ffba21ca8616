// Package records defines the data model shared by the airsync reconciliation
// engine: remote records as fetched from the store, the flat internal record
// shape consumed by the matcher and merger, and the classification of field
// values into a closed set of shapes.
package records

import (
	"strings"

	"github.com/campgroundfyi/airsync/pkg/constants"
)

// Record is a single row in the remote store: an opaque identifier plus a
// mapping of external field name to value. Records are immutable once fetched
// within one reconciliation pass.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Internal is the flat field-key to value mapping produced by normalization
// and consumed by the external matcher and merger.
type Internal = map[string]any

// IsReferenceID reports whether s has the shape of a record identifier:
// the fixed reference prefix followed by a non-empty opaque token.
func IsReferenceID(s string) bool {
	return strings.HasPrefix(s, constants.ReferencePrefix) && len(s) > len(constants.ReferencePrefix)
}

// ReferenceIDs returns the identifiers held by v if v is a linked-record
// array: a list whose every element is a string with the reference shape.
// The second return is false when v has any other shape. An empty list is
// a valid (empty) reference array.
func ReferenceIDs(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		for _, item := range list {
			if !IsReferenceID(item) {
				return nil, false
			}
		}
		return list, true
	case []any:
		ids := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok || !IsReferenceID(s) {
				return nil, false
			}
			ids = append(ids, s)
		}
		return ids, true
	default:
		return nil, false
	}
}

// IsReferenceList reports whether v is a linked-record array.
func IsReferenceList(v any) bool {
	_, ok := ReferenceIDs(v)
	return ok
}

// IsEmpty reports whether v carries no content and should be omitted when
// copying fields: nil, empty string, false, zero, or an empty list.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
