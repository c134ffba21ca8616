package records

import "sort"

// LinkedFields is the set of field names whose values are linked-record
// arrays. Membership combines statically configured names with names detected
// dynamically from a batch of records. The set is immutable after
// construction; build a new one per batch rather than mutating a shared set.
type LinkedFields struct {
	names map[string]struct{}
}

// NewLinkedFields builds a set from statically configured field names.
func NewLinkedFields(names ...string) LinkedFields {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return LinkedFields{names: set}
}

// Contains reports whether name is classified as a linked field.
func (lf LinkedFields) Contains(name string) bool {
	_, ok := lf.names[name]
	return ok
}

// Names returns the member field names in sorted order.
func (lf LinkedFields) Names() []string {
	names := make([]string, 0, len(lf.names))
	for n := range lf.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of member fields.
func (lf LinkedFields) Len() int {
	return len(lf.names)
}

// DetectLinkedFields scans a batch of records and returns the configured set
// extended with every field whose observed values are all linked-record
// arrays. A single non-reference value disqualifies a field from dynamic
// detection. Once a field is in the returned set, that classification holds
// for the whole batch when re-serializing.
func DetectLinkedFields(recs []Record, configured LinkedFields) LinkedFields {
	candidates := make(map[string]struct{})
	disqualified := make(map[string]struct{})

	for _, rec := range recs {
		for name, value := range rec.Fields {
			if IsReferenceList(value) {
				candidates[name] = struct{}{}
			} else {
				disqualified[name] = struct{}{}
			}
		}
	}

	set := make(map[string]struct{}, configured.Len()+len(candidates))
	for name := range configured.names {
		set[name] = struct{}{}
	}
	for name := range candidates {
		if _, bad := disqualified[name]; !bad {
			set[name] = struct{}{}
		}
	}

	return LinkedFields{names: set}
}
