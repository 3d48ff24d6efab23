package state

import (
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
)

// NamespaceList is the namespace listing with a local fuzzy search.
type NamespaceList struct {
	List[remote.Namespace]

	Search    LineEditor
	Searching bool

	all []remote.Namespace
}

// NewNamespaceList returns an empty namespace list.
func NewNamespaceList() *NamespaceList {
	return &NamespaceList{List: NewList[remote.Namespace]()}
}

func namespaceLabel(ns remote.Namespace) string {
	return ns.Name
}

// Refresh issues a namespace reload.
func (l *NamespaceList) Refresh(issue Issue) {
	l.Begin(issue(backend.RefreshNamespaces{}))
}

// All returns every loaded namespace regardless of the search.
func (l *NamespaceList) All() []remote.Namespace {
	return l.all
}

// ApplyLoaded installs a namespace result and re-applies the search.
func (l *NamespaceList) ApplyLoaded(res backend.NamespacesLoaded, current string, now time.Time) bool {
	if !l.Replace(res.Seq, res.Namespaces, now) {
		return false
	}
	l.all = res.Namespaces
	l.applySearch()
	if l.Search.Text == "" {
		for i, ns := range l.Items {
			if ns.Name == current {
				l.Cursor = i
				break
			}
		}
	}
	events.List.Applied("namespaces", len(l.all), nil)
	return true
}

// ApplyFailed records a failed reload.
func (l *NamespaceList) ApplyFailed(res backend.NamespacesFailed, message string) bool {
	if !l.Fail(res.Seq, message) {
		return false
	}
	events.List.Applied("namespaces", len(l.Items), res.Err)
	return true
}

// SetSearch replaces the search text and filters the visible items.
func (l *NamespaceList) SetSearch(text string, cursor int) {
	l.Search.Set(text, cursor)
	l.applySearch()
}

// EditSearch applies edit to the search buffer and refilters when it changed.
func (l *NamespaceList) EditSearch(edit func(*LineEditor) bool) bool {
	if !edit(&l.Search) {
		return false
	}
	l.applySearch()
	return true
}

// ClearSearch drops the search and shows every namespace.
func (l *NamespaceList) ClearSearch() {
	l.Searching = false
	l.Search.Clear()
	l.applySearch()
}

func (l *NamespaceList) applySearch() {
	l.Items = FilterByLabel(l.all, l.Search.Text, namespaceLabel)
	l.ViewportOffset = 0
	if len(l.Items) == 0 {
		l.Cursor = -1
		return
	}
	l.Cursor = BestMatchIndex(l.Items, l.Search.Text, namespaceLabel)
}
