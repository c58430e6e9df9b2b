package taskfile

import (
	"errors"
	"fmt"
)

// ErrDocumentInvalid marks any pre-execution document failure: unreadable
// file, malformed YAML, schema violation, or a semantic problem such as a
// missing required field. Nothing runs once it is raised.
var ErrDocumentInvalid = errors.New("invalid task document")

// DocumentError wraps a document validation failure.
type DocumentError struct {
	Msg string
}

func (e *DocumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", ErrDocumentInvalid.Error(), e.Msg)
}

func (e *DocumentError) Unwrap() error { return ErrDocumentInvalid }

func invalidf(format string, args ...any) error {
	return &DocumentError{Msg: fmt.Sprintf(format, args...)}
}
