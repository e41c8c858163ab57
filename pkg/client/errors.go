package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a load failed.
type ErrorKind int

const (
	// UpstreamFailure covers transport errors and non-2xx responses.
	UpstreamFailure ErrorKind = iota + 1
	// ParseFailure means the body was not a readable envelope.
	ParseFailure
	// DomainFailure means the envelope reported success=false.
	DomainFailure
)

func (k ErrorKind) String() string {
	switch k {
	case UpstreamFailure:
		return "upstream"
	case ParseFailure:
		return "parse"
	case DomainFailure:
		return "domain"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is against a *FetchError of the same kind.
var (
	ErrUpstream = &FetchError{Kind: UpstreamFailure}
	ErrParse    = &FetchError{Kind: ParseFailure}
	ErrDomain   = &FetchError{Kind: DomainFailure}
)

// ErrSuperseded is returned by Load when a newer load started before this one
// finished; its outcome was discarded.
var ErrSuperseded = errors.New("load superseded by a newer request")

// FetchError is returned by every Source. Message is safe to show to users.
type FetchError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches any *FetchError with the same Kind.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}

func upstreamError(status int, message string, err error) *FetchError {
	return &FetchError{Kind: UpstreamFailure, Status: status, Message: message, Err: err}
}

func parseError(err error) *FetchError {
	return &FetchError{Kind: ParseFailure, Message: "invalid response body", Err: err}
}

// describe turns any load failure into the text shown to users.
func describe(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		if fe.Kind == DomainFailure || fe.Err == nil {
			return fe.Message
		}
		return fe.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
