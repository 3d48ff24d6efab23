package temporal

import (
	"testing"
	"time"

	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	namespacepb "go.temporal.io/api/namespace/v1"
	taskqueuepb "go.temporal.io/api/taskqueue/v1"
	workflowpb "go.temporal.io/api/workflow/v1"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestHumanizeEventType(t *testing.T) {
	assert.Equal(t, "WorkflowExecutionStarted", HumanizeEventType("EVENT_TYPE_WORKFLOW_EXECUTION_STARTED"))
	assert.Equal(t, "ActivityTaskScheduled", HumanizeEventType("EVENT_TYPE_ACTIVITY_TASK_SCHEDULED"))
	assert.Equal(t, "WorkflowTaskCompleted", HumanizeEventType("WorkflowTaskCompleted"))
	assert.Equal(t, "", HumanizeEventType(""))
}

func TestConvertStatus(t *testing.T) {
	assert.Equal(t, remote.StatusRunning, convertStatus(enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING))
	assert.Equal(t, remote.StatusContinuedAsNew, convertStatus(enumspb.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW))
	assert.Equal(t, remote.StatusTimedOut, convertStatus(enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT))
	assert.Equal(t, remote.StatusUnknown, convertStatus(enumspb.WORKFLOW_EXECUTION_STATUS_UNSPECIFIED))
}

func TestConvertExecution(t *testing.T) {
	info := &workflowpb.WorkflowExecutionInfo{
		Execution:     &commonpb.WorkflowExecution{WorkflowId: "order-1", RunId: "run-1"},
		Type:          &commonpb.WorkflowType{Name: "OrderWorkflow"},
		Status:        enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED,
		TaskQueue:     "orders",
		StartTime:     timestamppb.New(testTime),
		CloseTime:     timestamppb.New(testTime.Add(time.Minute)),
		HistoryLength: 42,
	}
	got := convertExecution(info)
	assert.Equal(t, remote.Workflow{
		ID:            "order-1",
		RunID:         "run-1",
		Type:          "OrderWorkflow",
		Status:        remote.StatusCompleted,
		TaskQueue:     "orders",
		StartTime:     testTime,
		CloseTime:     testTime.Add(time.Minute),
		HistoryLength: 42,
	}, got)

	running := convertExecution(&workflowpb.WorkflowExecutionInfo{Status: enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING})
	assert.True(t, running.CloseTime.IsZero(), "missing close time must stay zero")
}

func TestConvertNamespace(t *testing.T) {
	got := convertNamespace(&namespacepb.NamespaceInfo{
		Name:        "payments",
		State:       enumspb.NAMESPACE_STATE_REGISTERED,
		Description: "payment flows",
		OwnerEmail:  "team@example.com",
		Id:          "ns-1",
	})
	assert.Equal(t, remote.Namespace{
		Name:        "payments",
		Description: "payment flows",
		State:       remote.NamespaceRegistered,
		OwnerEmail:  "team@example.com",
		ID:          "ns-1",
	}, got)
}

func TestConvertEventFlattensAttributes(t *testing.T) {
	ev := &historypb.HistoryEvent{
		EventId:   1,
		EventTime: timestamppb.New(testTime),
		EventType: enumspb.EVENT_TYPE_WORKFLOW_EXECUTION_STARTED,
		Attributes: &historypb.HistoryEvent_WorkflowExecutionStartedEventAttributes{
			WorkflowExecutionStartedEventAttributes: &historypb.WorkflowExecutionStartedEventAttributes{
				WorkflowType: &commonpb.WorkflowType{Name: "OrderWorkflow"},
				TaskQueue:    &taskqueuepb.TaskQueue{Name: "orders"},
				Attempt:      1,
			},
		},
	}
	got := convertEvent(ev)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, testTime, got.Time)
	assert.Equal(t, "WorkflowExecutionStarted", got.Type)
	assert.Contains(t, got.Raw, "\"OrderWorkflow\"")

	values := map[string]string{}
	for _, a := range got.Attributes {
		values[a.Key] = a.Value
	}
	assert.Equal(t, "OrderWorkflow", values["workflowType.name"])
	assert.Equal(t, "orders", values["taskQueue.name"])
	assert.Equal(t, "1", values["attempt"])
	for i := 1; i < len(got.Attributes); i++ {
		assert.LessOrEqual(t, got.Attributes[i-1].Key, got.Attributes[i].Key, "attributes must be sorted")
	}
}

func TestConvertEventWithoutAttributes(t *testing.T) {
	got := convertEvent(&historypb.HistoryEvent{EventId: 7, EventType: enumspb.EVENT_TYPE_WORKFLOW_TASK_SCHEDULED})
	assert.Equal(t, "WorkflowTaskScheduled", got.Type)
	assert.Empty(t, got.Raw)
	assert.Empty(t, got.Attributes)
}

func TestFlattenJSON(t *testing.T) {
	attrs := FlattenJSON([]byte(`{"b":{"c":[1,"x"]},"a":null,"d":true}`))
	require.Len(t, attrs, 4)
	assert.Equal(t, []remote.Attribute{
		{Key: "a", Value: "null"},
		{Key: "b.c.0", Value: "1"},
		{Key: "b.c.1", Value: "x"},
		{Key: "d", Value: "true"},
	}, attrs)
	assert.Nil(t, FlattenJSON([]byte("not json")))
}
