package typematch

import (
	"errors"
	"strings"

	"github.com/typematch/typematch/internal/vctx"
)

// ErrorDetail is one structured validation failure: an absolute path into the
// checked value (e.g. "value.spam.foo"), a message (e.g. "is missing"), and
// any nested failures recorded beneath that location.
type ErrorDetail struct {
	Path    string
	Message string
	Nested  []ErrorDetail
}

// VError is the error returned by Check and StrictCheck. Path points at the
// first offending location; Message carries the combined, possibly
// multi-line, rendering of every reported failure.
type VError struct {
	Path    string
	Message string
}

func (e *VError) Error() string { return e.Message }

// AsVError extracts a *VError from err using errors.As internally.
func AsVError(err error) (*VError, bool) {
	var ve *VError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func detailsFromNodes(nodes []vctx.Node) []ErrorDetail {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]ErrorDetail, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ErrorDetail{Path: n.Path, Message: n.Message, Nested: detailsFromNodes(n.Nested)})
	}
	return out
}

func newVError(reportedPath string, details []ErrorDetail) *VError {
	if len(details) == 0 {
		// The detail pass recorded nothing it could attribute; report the
		// value itself.
		return &VError{Path: reportedPath, Message: reportedPath + " is invalid"}
	}
	b := &strings.Builder{}
	for i, d := range details {
		if i > 0 {
			b.WriteString("\n")
		}
		writeDetail(b, d, "")
	}
	return &VError{Path: details[0].Path, Message: b.String()}
}

// writeDetail renders one failure. A single nested failure collapses onto the
// same line with "; " so linear chains read as one sentence; several nested
// failures indent on following lines so genuinely branching failures read as
// a list.
func writeDetail(b *strings.Builder, d ErrorDetail, indent string) {
	b.WriteString(indent)
	b.WriteString(d.Path)
	b.WriteString(" ")
	b.WriteString(d.Message)
	for len(d.Nested) == 1 {
		d = d.Nested[0]
		b.WriteString("; ")
		b.WriteString(d.Path)
		b.WriteString(" ")
		b.WriteString(d.Message)
	}
	for _, n := range d.Nested {
		b.WriteString("\n")
		writeDetail(b, n, indent+"    ")
	}
}
