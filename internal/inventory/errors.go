package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrNoControlNodes = errors.New("no control-plane nodes found (role=control)")
	ErrNoWorkerNodes  = errors.New("no worker nodes found (role=worker)")
)

// ParseError reports an input file that could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse input: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a structurally invalid node map. Host is empty for
// errors about the document as a whole.
type SchemaError struct {
	Host   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Host == "" {
		return e.Reason
	}
	return fmt.Sprintf("host '%s' %s", e.Host, e.Reason)
}
