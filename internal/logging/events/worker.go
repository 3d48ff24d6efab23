package events

import (
	"time"

	"github.com/atomicstack/tuiporal/internal/logging"
)

type WorkerTracer struct{}

type ConnectionTracer struct{}

var (
	Worker     = WorkerTracer{}
	Connection = ConnectionTracer{}
)

func (WorkerTracer) Start(profile string) {
	logging.Trace("worker.start", map[string]interface{}{"profile": profile})
}

func (WorkerTracer) Stop() {
	logging.Trace("worker.stop", nil)
}

func (WorkerTracer) Call(seq uint64, label string) {
	logging.Trace("worker.call", map[string]interface{}{"seq": seq, "label": label})
}

func (WorkerTracer) Done(seq uint64, label string, elapsed time.Duration, err error) {
	payload := map[string]interface{}{
		"seq":     seq,
		"label":   label,
		"elapsed": elapsed.String(),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("worker.done", payload)
}

func (ConnectionTracer) Transition(from, to, message string) {
	logging.Trace("connection.transition", map[string]interface{}{"from": from, "to": to, "message": message})
}

func (ConnectionTracer) Dial(profile, address string, tls, bearer bool) {
	logging.Trace("connection.dial", map[string]interface{}{
		"profile": profile,
		"address": address,
		"tls":     tls,
		"bearer":  bearer,
	})
}
