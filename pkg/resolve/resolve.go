// Package resolve fuses checkbox-style fields with their linked-record
// counterparts into canonical label lists. A remote checkbox alone carries no
// content; which events a record relates to lives in a separate linked
// column. The resolver joins the two into one human-readable list before the
// scalar checkbox representation is discarded.
package resolve

import (
	"context"

	"github.com/campgroundfyi/airsync/pkg/logging"
	"github.com/campgroundfyi/airsync/pkg/records"
)

// DefaultDelimiter separates labels when a checkbox field arrives as text.
const DefaultDelimiter = ","

// LabelLookup resolves one reference identifier to its human-readable label.
// Lookups happen once per reference; no batching is available at this
// boundary.
type LabelLookup interface {
	Label(ctx context.Context, id string) (string, error)
}

// LabelLookupFunc adapts a function to the LabelLookup interface.
type LabelLookupFunc func(ctx context.Context, id string) (string, error)

// Label implements LabelLookup.
func (f LabelLookupFunc) Label(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// Rule names one checkbox field, the linked column that carries its detail,
// and the placeholder emitted when the flag is set but no detail resolves.
type Rule struct {
	Field       string
	LinkField   string
	Placeholder string
}

// DefaultRules returns the two production checkbox columns, both backed by
// the events linked column.
func DefaultRules() []Rule {
	return []Rule{
		{Field: "event_rsvps", LinkField: "events", Placeholder: "Has RSVP'd to Events"},
		{Field: "event_attendance", LinkField: "events", Placeholder: "Has Attended Events"},
	}
}

// Resolver turns checkbox values into label lists.
type Resolver struct {
	lookup    LabelLookup
	delimiter string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithDelimiter overrides the delimiter used to split text-valued checkbox
// fields into labels.
func WithDelimiter(d string) Option {
	return func(r *Resolver) {
		if d != "" {
			r.delimiter = d
		}
	}
}

// New creates a Resolver backed by the given lookup.
func New(lookup LabelLookup, opts ...Option) *Resolver {
	r := &Resolver{lookup: lookup, delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Labels resolves one checkbox field of rec against its rule. The first
// matching case wins:
//
//  1. The checkbox value is itself a reference array: resolve each reference
//     to a label.
//  2. The checkbox value is already a plain label list, as a prior run's
//     write-back leaves it: keep the labels as they are.
//  3. The checkbox value is non-empty text: split on the delimiter.
//  4. The checkbox is true: take labels from the linked column; when none
//     resolve, fall back to the rule's placeholder.
//  5. Otherwise the result is empty and the field is cleared on write-back.
//
// A reference that fails to resolve is logged and skipped; it never aborts
// the batch.
func (r *Resolver) Labels(ctx context.Context, rec records.Internal, rule Rule) []string {
	switch v := records.Classify(rec[rule.Field]); v.Kind {
	case records.KindReferenceList:
		return r.resolveRefs(ctx, v.Refs)
	case records.KindLabelList:
		return v.Labels
	case records.KindDelimitedText:
		return records.SplitLabels(v.Text, r.delimiter)
	case records.KindBool:
		if !v.Bool {
			return nil
		}
		if labels := r.linkedLabels(ctx, rec[rule.LinkField]); len(labels) > 0 {
			return labels
		}
		return []string{rule.Placeholder}
	default:
		return nil
	}
}

// Apply resolves every rule against a copy of rec. Checkbox fields that
// resolve to labels are replaced with the label list; fields that resolve to
// nothing are removed so they are cleared on write-back.
func (r *Resolver) Apply(ctx context.Context, rec records.Internal, rules ...Rule) records.Internal {
	out := make(records.Internal, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	for _, rule := range rules {
		labels := r.Labels(ctx, rec, rule)
		if len(labels) > 0 {
			out[rule.Field] = labels
		} else {
			delete(out, rule.Field)
		}
	}

	return out
}

// linkedLabels extracts candidate labels from a linked column value, either
// by resolving a reference array or by splitting delimited text.
func (r *Resolver) linkedLabels(ctx context.Context, v any) []string {
	switch val := records.Classify(v); val.Kind {
	case records.KindReferenceList:
		return r.resolveRefs(ctx, val.Refs)
	case records.KindLabelList:
		return val.Labels
	case records.KindDelimitedText:
		return records.SplitLabels(val.Text, r.delimiter)
	default:
		return nil
	}
}

// resolveRefs looks up each reference, skipping failures and blank labels.
func (r *Resolver) resolveRefs(ctx context.Context, refs []string) []string {
	labels := make([]string, 0, len(refs))
	for _, ref := range refs {
		label, err := r.lookup.Label(ctx, ref)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("reference", ref).
				Msg("Could not resolve linked reference")
			continue
		}
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
