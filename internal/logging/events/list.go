package events

import "github.com/atomicstack/tuiporal/internal/logging"

type ListTracer struct{}

type DialogTracer struct{}

var (
	List   = ListTracer{}
	Dialog = DialogTracer{}
)

func (ListTracer) Page(list string, page int, direction string) {
	logging.Trace("list.page", map[string]interface{}{"list": list, "page": page, "direction": direction})
}

func (ListTracer) Filter(list, filter, query string) {
	logging.Trace("list.filter", map[string]interface{}{"list": list, "filter": filter, "query": query})
}

func (ListTracer) AutoRefresh(list string, enabled bool) {
	logging.Trace("list.auto-refresh", map[string]interface{}{"list": list, "enabled": enabled})
}

func (ListTracer) Applied(list string, items int, err error) {
	payload := map[string]interface{}{"list": list, "items": items}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("list.applied", payload)
}

func (DialogTracer) Open(kind, workflowID string) {
	logging.Trace("dialog.open", map[string]interface{}{"kind": kind, "workflow": workflowID})
}

func (DialogTracer) Confirm(kind, workflowID string) {
	logging.Trace("dialog.confirm", map[string]interface{}{"kind": kind, "workflow": workflowID})
}

func (DialogTracer) Dismiss(kind string) {
	logging.Trace("dialog.dismiss", map[string]interface{}{"kind": kind})
}

func (DialogTracer) Invalid(kind, message string) {
	logging.Trace("dialog.invalid", map[string]interface{}{"kind": kind, "message": message})
}
