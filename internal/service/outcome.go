package service

import "fmt"

const (
	silentCouncilText  = "The Lead Councillor is silent. Unexpected API response."
	upstreamStatusText = "Sorry, I had trouble reaching the council (HTTP Error %d)."
	internalErrorText  = "Sorry, an internal error occurred while consulting the council."
)

// OutcomeKind enumerates the results of a single relay attempt
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeUpstreamStatus
	OutcomeShape
	OutcomeTransport
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUpstreamStatus:
		return "upstream_status"
	case OutcomeShape:
		return "shape"
	case OutcomeTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Outcome is the result of one relay. Text is set for OutcomeSuccess,
// StatusCode for OutcomeUpstreamStatus and Err for every failure.
type Outcome struct {
	Kind       OutcomeKind
	Text       string
	StatusCode int
	Err        error
}

func Success(text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text}
}

func UpstreamStatusFailure(code int, err error) Outcome {
	return Outcome{Kind: OutcomeUpstreamStatus, StatusCode: code, Err: err}
}

func ShapeFailure(err error) Outcome {
	return Outcome{Kind: OutcomeShape, Err: err}
}

func TransportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeTransport, Err: err}
}

// Message renders the outcome as the text returned to the caller
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeSuccess:
		return o.Text
	case OutcomeUpstreamStatus:
		return fmt.Sprintf(upstreamStatusText, o.StatusCode)
	case OutcomeShape:
		return silentCouncilText
	default:
		return internalErrorText
	}
}
