// Package view defines the closed set of dashboard views and the navigation
// state that selects one of them.
package view

import (
	"fmt"
	"sync"
)

// Kind identifies one dashboard view.
type Kind int

const (
	Overview Kind = iota
	ClassDistribution
	AmountDistribution
	TemporalDistribution

	kindCount
)

var kindInfo = [kindCount]struct {
	slug  string
	title string
}{
	Overview:             {"overview", "Dataset Overview"},
	ClassDistribution:    {"class", "Class Distribution"},
	AmountDistribution:   {"amount", "Amount Distribution"},
	TemporalDistribution: {"temporal", "Temporal Distribution"},
}

// InvalidSelectionError reports a Kind outside the known views. It signals a
// programming defect and is raised with panic.
type InvalidSelectionError struct {
	Kind Kind
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid view selection: %d", int(e.Kind))
}

// Kinds returns every view in menu order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Valid reports whether k is a known view.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Slug returns the URL path segment of k.
func (k Kind) Slug() string {
	k.mustBeValid()
	return kindInfo[k].slug
}

// Title returns the menu label of k.
func (k Kind) Title() string {
	k.mustBeValid()
	return kindInfo[k].title
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindInfo[k].slug
}

func (k Kind) mustBeValid() {
	if !k.Valid() {
		panic(&InvalidSelectionError{Kind: k})
	}
}

// ParseKind maps a URL slug to its view.
func ParseKind(slug string) (Kind, bool) {
	for i, info := range kindInfo {
		if info.slug == slug {
			return Kind(i), true
		}
	}
	return 0, false
}

// Navigator holds the current view selection. The zero value selects Overview.
type Navigator struct {
	mu      sync.RWMutex
	current Kind
}

// Select makes k the current view. It panics with *InvalidSelectionError when
// k is not a known view.
func (n *Navigator) Select(k Kind) {
	k.mustBeValid()
	n.mu.Lock()
	n.current = k
	n.mu.Unlock()
}

// Current returns the selected view.
func (n *Navigator) Current() Kind {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}
