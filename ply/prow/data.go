// Package prow decodes and encodes the records of one element. The
// format is resolved once at construction time into per-property
// read/write closures, so the decode path never tests the format per
// property. The encoder checks a precomputed ASCII flag to place token
// separators and record terminators.
package prow

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	// TrailingGarbageError reports extra tokens on an ASCII record line.
	TrailingGarbageError struct {
		Element     string
		RecordIndex uint64
	}

	// ShortRecordError reports a record with fewer tokens (ASCII) or
	// bytes (binary) than the element's properties require.
	ShortRecordError struct {
		Element     string
		RecordIndex uint64
	}

	// OverflowASCIIError reports an ASCII token outside the declared
	// scalar's range.
	OverflowASCIIError struct {
		Element     string
		Property    string
		RecordIndex uint64
		Token       string
	}

	// ListTooLargeError reports a list length beyond the safety cap,
	// or beyond what the declared count kind can encode on write.
	ListTooLargeError struct {
		Element     string
		Property    string
		RecordIndex uint64
		Length      uint64
	}
)

func (r TrailingGarbageError) Error() string {
	return fmt.Sprintf(`trailing garbage on record %d of element "%s"`, r.RecordIndex, r.Element)
}

func (r ShortRecordError) Error() string {
	return fmt.Sprintf(`record %d of element "%s" has too few tokens`, r.RecordIndex, r.Element)
}

func (r OverflowASCIIError) Error() string {
	return fmt.Sprintf(
		`token "%s" overflows property "%s" on record %d of element "%s"`,
		r.Token, r.Property, r.RecordIndex, r.Element,
	)
}

func (r ListTooLargeError) Error() string {
	return fmt.Sprintf(
		`list of %d items in property "%s" on record %d of element "%s" exceeds the cap`,
		r.Length, r.Property, r.RecordIndex, r.Element,
	)
}

// errShortData marks a read that ran past the available bytes or
// tokens. Callers translate it into the record-level error.
var errShortData = errors.New("record data too short")
