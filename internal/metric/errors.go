package metric

import "fmt"

// Reason classifies why collecting a metric failed.
type Reason int

const (
	ReasonUnavailable Reason = iota
	ReasonParseFailure
	ReasonTimeout
	ReasonDivideByZero
)

func (r Reason) String() string {
	switch r {
	case ReasonUnavailable:
		return "unavailable"
	case ReasonParseFailure:
		return "parse failure"
	case ReasonTimeout:
		return "timed out"
	case ReasonDivideByZero:
		return "divide by zero"
	}
	return "unknown"
}

// CollectionError reports a single metric's failure. One collector failing
// never aborts the rest of a sampling cycle; the error is rendered inline
// in that metric's section instead.
type CollectionError struct {
	Metric Kind
	Reason Reason
	Err    error
}

func (e *CollectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Metric, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Metric, e.Reason)
}

func (e *CollectionError) Unwrap() error { return e.Err }

func Unavailable(k Kind, err error) *CollectionError {
	return &CollectionError{Metric: k, Reason: ReasonUnavailable, Err: err}
}

func ParseFailure(k Kind, err error) *CollectionError {
	return &CollectionError{Metric: k, Reason: ReasonParseFailure, Err: err}
}

func Timeout(k Kind, err error) *CollectionError {
	return &CollectionError{Metric: k, Reason: ReasonTimeout, Err: err}
}

func DivideByZero(k Kind) *CollectionError {
	return &CollectionError{Metric: k, Reason: ReasonDivideByZero}
}
