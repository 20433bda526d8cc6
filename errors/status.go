package errors

// Status is the closed status-code vocabulary of the boundary surface.
// Values are negative for failures, as the status codes they stand in for.
type Status int32

const (
	StatusSuccess                Status = 0
	StatusInvalidArgument        Status = -1
	StatusNoMemory               Status = -2
	StatusGenericFailure         Status = -3
	StatusResourceError          Status = -4
	StatusTimeout                Status = -5
	StatusParameterError         Status = -6
	StatusPriorityDenied         Status = -7
	StatusNoFineGrainedTimerLeft Status = -8
)

var kindStatus = map[Kind]Status{
	KindInvalidArgument:        StatusInvalidArgument,
	KindNoMemory:               StatusNoMemory,
	KindGenericFailure:         StatusGenericFailure,
	KindResourceError:          StatusResourceError,
	KindTimeout:                StatusTimeout,
	KindParameterError:         StatusParameterError,
	KindPriorityDenied:         StatusPriorityDenied,
	KindNoFineGrainedTimerLeft: StatusNoFineGrainedTimerLeft,
}

// StatusOf maps err onto the closed vocabulary. nil is StatusSuccess and
// errors from outside this package are StatusGenericFailure.
func StatusOf(err error) Status {
	kind, ok := KindOf(err)
	if !ok {
		return StatusSuccess
	}
	if s, found := kindStatus[kind]; found {
		return s
	}
	return StatusGenericFailure
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusInvalidArgument:
		return "InvalidArgument"
	case StatusNoMemory:
		return "NoMemory"
	case StatusGenericFailure:
		return "GenericFailure"
	case StatusResourceError:
		return "ResourceError"
	case StatusTimeout:
		return "Timeout"
	case StatusParameterError:
		return "ParameterError"
	case StatusPriorityDenied:
		return "PriorityDenied"
	case StatusNoFineGrainedTimerLeft:
		return "NoFineGrainedTimerLeft"
	}
	return "Status(unknown)"
}
