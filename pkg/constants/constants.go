// Package constants provides shared constants used throughout the airsync codebase.
// This includes timeouts, remote API limits, and other configuration values that
// should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the record store
	DefaultHTTPTimeout = 30 * time.Second

	// RunTimeout is the default timeout for a full reconciliation run
	RunTimeout = 10 * time.Minute
)

// Remote API limits imposed by the record store
const (
	// MaxPageSize is the largest page the list endpoint will return
	MaxPageSize = 100

	// MaxBatchSize is the largest number of records accepted by a single
	// batch create or batch update call
	MaxBatchSize = 10
)

// Defaults for reconciliation runs
const (
	// DefaultChunkSize is the number of operations grouped into one remote call
	DefaultChunkSize = MaxBatchSize

	// DefaultTable is the table reconciled when none is configured
	DefaultTable = "All Providers"

	// DefaultEventsTable is the table holding linked event records
	DefaultEventsTable = "Events"

	// DefaultEventLabelField is the field read when resolving an event
	// reference to a human-readable label
	DefaultEventLabelField = "Event Name"
)

// ReferencePrefix is the textual prefix shared by all record identifiers in
// the remote store. A list whose every element carries this prefix is treated
// as a linked-record array.
const ReferencePrefix = "rec"
