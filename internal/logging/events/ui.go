package events

import "github.com/atomicstack/tuiporal/internal/logging"

type UITracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Screen(from, to string) {
	logging.Trace("ui.screen", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Cursor(screen string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"screen": screen, "cursor": cursor})
}

func (UITracer) Key(screen, key string) {
	logging.Trace("ui.key", map[string]interface{}{"screen": screen, "key": key})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (CommandTracer) Queue(seq uint64, label string) {
	logging.Trace("command.queue", map[string]interface{}{"seq": seq, "label": label})
}

func (CommandTracer) Dropped(seq uint64, label string) {
	logging.Trace("command.dropped", map[string]interface{}{"seq": seq, "label": label})
}

func (CommandTracer) Result(seq uint64, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"seq": seq, "msg": msgType})
}

func (CommandTracer) Stale(seq uint64, msgType string) {
	logging.Trace("command.stale", map[string]interface{}{"seq": seq, "msg": msgType})
}
