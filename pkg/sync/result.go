package sync

import "fmt"

// Op identifies the operation a failure belongs to.
type Op string

// Operations performed by the executor.
const (
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Failure records one failed operation.
type Failure struct {
	Op  Op
	IDs []string
	Err error
}

// Outcome reports what a run actually did: counts of records updated and
// deleted, the identifiers removed, and any operation-level failures.
type Outcome struct {
	Updated    int
	Deleted    int
	DeletedIDs []string
	Failures   []Failure
}

// IsSuccess reports full success: every operation applied cleanly.
func (o *Outcome) IsSuccess() bool {
	return len(o.Failures) == 0
}

// IsPartial reports partial success: some operations applied, some failed.
func (o *Outcome) IsPartial() bool {
	return len(o.Failures) > 0 && (o.Updated > 0 || o.Deleted > 0)
}

// FailedIDs returns the identifiers of every failed operation.
func (o *Outcome) FailedIDs() []string {
	var ids []string
	for _, f := range o.Failures {
		ids = append(ids, f.IDs...)
	}
	return ids
}

// Summary returns a human-readable summary of the outcome.
func (o *Outcome) Summary() string {
	if o.IsSuccess() {
		return fmt.Sprintf("Sync successful: %d updated, %d deleted", o.Updated, o.Deleted)
	}
	return fmt.Sprintf("Sync finished with %d failures: %d updated, %d deleted",
		len(o.Failures), o.Updated, o.Deleted)
}
