package domain

import (
	"fmt"
	"strings"
)

// MalformedFeedError is returned by the feed parser when the document cannot be used.
type MalformedFeedError struct {
	Reason string
	Err    error
}

func (e *MalformedFeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed feed: %s: %v", e.Reason, e.Err)
	}
	return "malformed feed: " + e.Reason
}

func (e *MalformedFeedError) Unwrap() error {
	return e.Err
}

// InvalidIdentifierError is returned when a category id cannot be ordered numerically.
type InvalidIdentifierError struct {
	ID  string
	Err error
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid category id %q: %v", e.ID, e.Err)
}

func (e *InvalidIdentifierError) Unwrap() error {
	return e.Err
}

// CyclicHierarchyError is returned when a category is its own ancestor.
// Chain lists the ancestors from the root down to the repeated id.
type CyclicHierarchyError struct {
	ID    string
	Chain []string
}

func (e *CyclicHierarchyError) Error() string {
	return fmt.Sprintf("cyclic category hierarchy at %q: %s -> %s", e.ID, strings.Join(e.Chain, " -> "), e.ID)
}
