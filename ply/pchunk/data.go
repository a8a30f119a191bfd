// Package pchunk is the streaming heart of the reader: it accepts
// byte chunks of any size and yields fully decoded records on element
// (binary) or line (ASCII) boundaries.
package pchunk

import (
	"fmt"
	"strings"
)

type (
	// TruncatedHeaderError reports end of input before end_header.
	TruncatedHeaderError struct{}

	// TruncatedBodyError reports end of input mid-element.
	TruncatedBodyError struct {
		Element  string
		Expected uint64
		Received uint64
	}

	// MissingElementsError reports end of input with declared elements
	// still undelivered.
	MissingElementsError struct {
		Remaining []string
	}

	// ElementNotFinishedError reports a cursor advance requested while
	// the current element still has records.
	ElementNotFinishedError struct {
		Element   string
		Remaining uint64
	}
)

func (r TruncatedHeaderError) Error() string {
	return "input ended before end_header"
}

func (r TruncatedBodyError) Error() string {
	return fmt.Sprintf(
		`input ended mid element "%s": expected %d records, received %d`,
		r.Element, r.Expected, r.Received,
	)
}

func (r MissingElementsError) Error() string {
	return fmt.Sprintf("input ended with elements undelivered: %s", strings.Join(r.Remaining, " "))
}

func (r ElementNotFinishedError) Error() string {
	return fmt.Sprintf(`element "%s" still has %d records to deliver`, r.Element, r.Remaining)
}
