package state

import (
	"strings"
	"time"

	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
)

// StatusFilter restricts the workflow list to an execution status.
type StatusFilter int

const (
	FilterNone StatusFilter = iota
	FilterRunning
	FilterCompleted
	FilterFailed
	FilterCanceled
	FilterAll
)

var filterCycle = []StatusFilter{FilterNone, FilterRunning, FilterCompleted, FilterFailed, FilterCanceled, FilterAll}

// Next returns the following filter in the cycle, wrapping after All.
func (f StatusFilter) Next() StatusFilter {
	for i, candidate := range filterCycle {
		if candidate == f {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return FilterNone
}

func (f StatusFilter) String() string {
	switch f {
	case FilterRunning:
		return "Running"
	case FilterCompleted:
		return "Completed"
	case FilterFailed:
		return "Failed"
	case FilterCanceled:
		return "Canceled"
	case FilterAll:
		return "All"
	default:
		return "None"
	}
}

// Atom returns the query fragment for the filter, empty for None and All.
func (f StatusFilter) Atom() string {
	switch f {
	case FilterRunning, FilterCompleted, FilterFailed, FilterCanceled:
		return "ExecutionStatus = '" + f.String() + "'"
	default:
		return ""
	}
}

// ComposeQuery joins the filter atom and the free-text query with AND,
// filter first.
func ComposeQuery(filter StatusFilter, query string) string {
	parts := make([]string, 0, 2)
	if atom := filter.Atom(); atom != "" {
		parts = append(parts, atom)
	}
	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, " AND ")
}

type pageMove struct {
	seq     uint64
	page    int
	stack   [][]byte
	current []byte
	forward []byte
}

// WorkflowList is the paginated workflow listing.
type WorkflowList struct {
	List[remote.Workflow]

	Page          int
	ForwardCursor []byte
	CurrentToken  []byte
	BackStack     [][]byte
	Filter        StatusFilter
	Query         string

	pending *pageMove
}

// NewWorkflowList returns an empty list on page 1.
func NewWorkflowList(auto AutoRefresh) *WorkflowList {
	l := &WorkflowList{List: NewList[remote.Workflow](), Page: 1}
	l.Auto = auto
	return l
}

// ComposedQuery returns the query sent to the service.
func (l *WorkflowList) ComposedQuery() string {
	return ComposeQuery(l.Filter, l.Query)
}

// HasNext reports whether a further page exists.
func (l *WorkflowList) HasNext() bool {
	return len(l.ForwardCursor) > 0
}

// HasPrev reports whether a previous page exists.
func (l *WorkflowList) HasPrev() bool {
	return len(l.BackStack) > 0
}

// Reset returns to page 1 and issues a fresh load for the current query.
func (l *WorkflowList) Reset(issue Issue) {
	l.Page = 1
	l.BackStack = nil
	l.CurrentToken = nil
	l.pending = nil
	query := l.ComposedQuery()
	l.Begin(issue(backend.RefreshList{Query: query}))
	events.List.Page("workflows", l.Page, backend.Reload.String())
}

// NextPage moves forward one page. It is a no-op without a forward cursor
// or while a load is in flight.
func (l *WorkflowList) NextPage(issue Issue) bool {
	if !l.HasNext() || l.Loading {
		return false
	}
	move := l.snapshot()
	token := l.ForwardCursor
	l.BackStack = append(l.BackStack, l.CurrentToken)
	l.Page++
	seq := issue(backend.LoadPage{Query: l.ComposedQuery(), Token: token, Direction: backend.Forward})
	move.seq = seq
	l.pending = &move
	l.Begin(seq)
	events.List.Page("workflows", l.Page, backend.Forward.String())
	return true
}

// PrevPage moves back one page by replaying the stored token of the
// previous page.
func (l *WorkflowList) PrevPage(issue Issue) bool {
	if !l.HasPrev() || l.Loading {
		return false
	}
	move := l.snapshot()
	last := len(l.BackStack) - 1
	token := l.BackStack[last]
	l.BackStack = l.BackStack[:last]
	l.Page--
	if l.Page < 1 {
		l.Page = 1
	}
	seq := issue(backend.LoadPage{Query: l.ComposedQuery(), Token: token, Direction: backend.Backward})
	move.seq = seq
	l.pending = &move
	l.Begin(seq)
	events.List.Page("workflows", l.Page, backend.Backward.String())
	return true
}

// CycleFilter advances the status filter and reloads from page 1.
func (l *WorkflowList) CycleFilter(issue Issue) {
	l.Filter = l.Filter.Next()
	events.List.Filter("workflows", l.Filter.String(), l.Query)
	l.Reset(issue)
}

// SetQuery replaces the free-text query and reloads from page 1.
func (l *WorkflowList) SetQuery(query string, issue Issue) {
	l.Query = strings.TrimSpace(query)
	events.List.Filter("workflows", l.Filter.String(), l.Query)
	l.Reset(issue)
}

// ClearFilters drops both the status filter and the query and reloads.
func (l *WorkflowList) ClearFilters(issue Issue) {
	l.Filter = FilterNone
	l.Query = ""
	events.List.Filter("workflows", l.Filter.String(), l.Query)
	l.Reset(issue)
}

// AutoRefresh reloads the current page when the timer is due. Page and
// stack are kept.
func (l *WorkflowList) AutoRefresh(now time.Time, issue Issue) bool {
	if !l.RefreshDue(now) {
		return false
	}
	var cmd backend.Command = backend.RefreshList{Query: l.ComposedQuery()}
	if len(l.CurrentToken) > 0 {
		cmd = backend.LoadPage{Query: l.ComposedQuery(), Token: l.CurrentToken, Direction: backend.Reload}
	}
	l.Begin(issue(cmd))
	return true
}

// ApplyLoaded installs a page result. It reports whether the result was
// applied.
func (l *WorkflowList) ApplyLoaded(res backend.ListLoaded, now time.Time) bool {
	if !l.Replace(res.Seq, res.Workflows, now) {
		return false
	}
	l.ForwardCursor = res.NextToken
	l.CurrentToken = res.Token
	if l.pending != nil && res.Seq >= l.pending.seq {
		l.pending = nil
	}
	events.List.Applied("workflows", len(res.Workflows), nil)
	return true
}

// ApplyFailed records a failed page load, rolling back a page move that the
// failure answers.
func (l *WorkflowList) ApplyFailed(res backend.ListFailed, message string) bool {
	if !l.Fail(res.Seq, message) {
		return false
	}
	if l.pending != nil && l.pending.seq == res.Seq {
		l.restore(*l.pending)
		l.pending = nil
	}
	events.List.Applied("workflows", len(l.Items), res.Err)
	return true
}

func (l *WorkflowList) snapshot() pageMove {
	return pageMove{
		page:    l.Page,
		stack:   append([][]byte(nil), l.BackStack...),
		current: l.CurrentToken,
		forward: l.ForwardCursor,
	}
}

func (l *WorkflowList) restore(move pageMove) {
	l.Page = move.page
	l.BackStack = move.stack
	l.CurrentToken = move.current
	l.ForwardCursor = move.forward
}
