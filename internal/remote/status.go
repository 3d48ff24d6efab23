package remote

// Status is the execution status of a workflow.
type Status int

const (
	StatusUnknown Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCanceled
	StatusTerminated
	StatusContinuedAsNew
	StatusTimedOut
)

var statusNames = map[Status]string{
	StatusUnknown:        "Unknown",
	StatusRunning:        "Running",
	StatusCompleted:      "Completed",
	StatusFailed:         "Failed",
	StatusCanceled:       "Canceled",
	StatusTerminated:     "Terminated",
	StatusContinuedAsNew: "ContinuedAsNew",
	StatusTimedOut:       "TimedOut",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

// Closed reports whether the execution has finished.
func (s Status) Closed() bool {
	return s != StatusRunning && s != StatusUnknown
}

// NamespaceState is the registration state of a namespace.
type NamespaceState int

const (
	NamespaceUnspecified NamespaceState = iota
	NamespaceRegistered
	NamespaceDeprecated
	NamespaceDeleted
)

func (s NamespaceState) String() string {
	switch s {
	case NamespaceRegistered:
		return "Registered"
	case NamespaceDeprecated:
		return "Deprecated"
	case NamespaceDeleted:
		return "Deleted"
	default:
		return "Unspecified"
	}
}
