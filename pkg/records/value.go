package records

import "strings"

// Kind identifies the shape of a checkbox-style field value. Upstream data is
// loosely typed: the same column may arrive as a boolean flag, a linked-record
// array, or a delimited string. Classifying once at ingestion lets downstream
// logic match on a closed set instead of repeated shape probing.
type Kind int

const (
	// KindEmpty is an absent value, or any shape that carries no usable content.
	KindEmpty Kind = iota
	// KindBool is a plain checkbox flag.
	KindBool
	// KindReferenceList is a linked-record array of identifiers.
	KindReferenceList
	// KindDelimitedText is a non-empty string holding delimiter-separated labels.
	KindDelimitedText
	// KindLabelList is a non-empty list of plain label strings, the shape a
	// resolved checkbox field takes after write-back.
	KindLabelList
)

// Value is the tagged variant produced by Classify. Exactly one of the payload
// fields is meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Bool   bool
	Text   string
	Refs   []string
	Labels []string
}

// Classify decides the shape of a raw field value once. Booleans classify as
// KindBool whether set or not so callers can distinguish an unchecked box from
// an absent field when they need to.
func Classify(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindEmpty}
	case bool:
		return Value{Kind: KindBool, Bool: t}
	case string:
		if strings.TrimSpace(t) == "" {
			return Value{Kind: KindEmpty}
		}
		return Value{Kind: KindDelimitedText, Text: t}
	default:
		if refs, ok := ReferenceIDs(v); ok {
			return Value{Kind: KindReferenceList, Refs: refs}
		}
		if labels, ok := labelList(v); ok {
			return Value{Kind: KindLabelList, Labels: labels}
		}
		return Value{Kind: KindEmpty}
	}
}

// labelList returns v's elements if v is a list of strings with at least one
// non-blank entry. Blank entries are dropped.
func labelList(v any) ([]string, bool) {
	var items []string
	switch list := v.(type) {
	case []string:
		items = list
	case []any:
		items = make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, s)
		}
	default:
		return nil, false
	}

	labels := make([]string, 0, len(items))
	for _, s := range items {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	if len(labels) == 0 {
		return nil, false
	}
	return labels, true
}

// SplitLabels splits a delimited string into trimmed, non-empty labels.
func SplitLabels(s, delimiter string) []string {
	parts := strings.Split(s, delimiter)
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}
