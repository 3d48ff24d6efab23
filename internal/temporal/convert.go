package temporal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/atomicstack/tuiporal/internal/remote"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	namespacepb "go.temporal.io/api/namespace/v1"
	workflowpb "go.temporal.io/api/workflow/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var rawJSON = protojson.MarshalOptions{Multiline: true, Indent: "  "}

var statuses = map[enumspb.WorkflowExecutionStatus]remote.Status{
	enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:          remote.StatusRunning,
	enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:        remote.StatusCompleted,
	enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:           remote.StatusFailed,
	enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:         remote.StatusCanceled,
	enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED:       remote.StatusTerminated,
	enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW: remote.StatusContinuedAsNew,
	enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:        remote.StatusTimedOut,
}

func convertStatus(s enumspb.WorkflowExecutionStatus) remote.Status {
	if status, ok := statuses[s]; ok {
		return status
	}
	return remote.StatusUnknown
}

func convertNamespaceState(s enumspb.NamespaceState) remote.NamespaceState {
	switch s {
	case enumspb.NAMESPACE_STATE_REGISTERED:
		return remote.NamespaceRegistered
	case enumspb.NAMESPACE_STATE_DEPRECATED:
		return remote.NamespaceDeprecated
	case enumspb.NAMESPACE_STATE_DELETED:
		return remote.NamespaceDeleted
	default:
		return remote.NamespaceUnspecified
	}
}

func timeOf(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

func convertExecution(info *workflowpb.WorkflowExecutionInfo) remote.Workflow {
	return remote.Workflow{
		ID:            info.GetExecution().GetWorkflowId(),
		RunID:         info.GetExecution().GetRunId(),
		Type:          info.GetType().GetName(),
		Status:        convertStatus(info.GetStatus()),
		TaskQueue:     info.GetTaskQueue(),
		StartTime:     timeOf(info.GetStartTime()),
		CloseTime:     timeOf(info.GetCloseTime()),
		HistoryLength: info.GetHistoryLength(),
	}
}

func convertNamespace(info *namespacepb.NamespaceInfo) remote.Namespace {
	return remote.Namespace{
		Name:        info.GetName(),
		Description: info.GetDescription(),
		State:       convertNamespaceState(info.GetState()),
		OwnerEmail:  info.GetOwnerEmail(),
		ID:          info.GetId(),
	}
}

func convertEvent(ev *historypb.HistoryEvent) remote.Event {
	out := remote.Event{
		ID:   ev.GetEventId(),
		Time: timeOf(ev.GetEventTime()),
		Type: HumanizeEventType(ev.GetEventType().String()),
	}
	attrs := eventAttributes(ev)
	if attrs == nil {
		return out
	}
	raw, err := rawJSON.Marshal(attrs)
	if err != nil {
		return out
	}
	out.Raw = string(raw)
	out.Attributes = FlattenJSON(raw)
	return out
}

// eventAttributes returns the message set in the event's attributes oneof.
func eventAttributes(ev *historypb.HistoryEvent) proto.Message {
	if ev == nil {
		return nil
	}
	m := ev.ProtoReflect()
	oneof := m.Descriptor().Oneofs().ByName("attributes")
	if oneof == nil {
		return nil
	}
	field := m.WhichOneof(oneof)
	if field == nil {
		return nil
	}
	return m.Get(field).Message().Interface()
}

// HumanizeEventType turns EVENT_TYPE_WORKFLOW_EXECUTION_STARTED into
// WorkflowExecutionStarted. Names already in that form are returned as is.
func HumanizeEventType(name string) string {
	if !strings.HasPrefix(name, "EVENT_TYPE_") {
		return name
	}
	words := strings.Split(strings.TrimPrefix(name, "EVENT_TYPE_"), "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// FlattenJSON flattens a JSON object into dotted key/value pairs sorted by
// key. Array elements are addressed by index.
func FlattenJSON(data []byte) []remote.Attribute {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil
	}
	var attrs []remote.Attribute
	flatten("", root, &attrs)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	return attrs
}

func flatten(prefix string, value interface{}, out *[]remote.Attribute) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch v := value.(type) {
	case map[string]interface{}:
		for k, child := range v {
			flatten(join(k), child, out)
		}
	case []interface{}:
		for i, child := range v {
			flatten(join(fmt.Sprint(i)), child, out)
		}
	case nil:
		*out = append(*out, remote.Attribute{Key: prefix, Value: "null"})
	default:
		*out = append(*out, remote.Attribute{Key: prefix, Value: fmt.Sprint(v)})
	}
}
