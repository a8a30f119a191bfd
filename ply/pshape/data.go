// Package pshape binds a caller-declared record shape to an element's
// property layout and carries the visitor interfaces the decoder and
// encoder drive.
package pshape

import (
	"github.com/iancoleman/orderedmap"
	"github.com/samber/lo"

	"plystream/ply/pheader"
	"plystream/ply/pvalue"
)

type (
	// Field is one expected target of a record shape.
	Field struct {
		Name       string
		Aliases    []string
		Optional   bool
		HasDefault bool
		Default    any
		Skip       bool
		IsList     bool
	}

	// Shape is the ordered target field set a caller binds to one
	// element. Build one per element per decode or encode call.
	Shape struct {
		Fields []Field
	}

	// Visitor receives one record's values in element property order.
	// Absent optional targets and defaulted targets are signaled
	// exactly once per record before EndRecord.
	Visitor interface {
		BeginRecord()
		VisitScalar(name string, v pvalue.Value) error
		VisitList(name string, kind pvalue.Kind, items []pvalue.Value) error
		VisitAbsent(name string) error
		VisitDefault(name string, value any) error
		EndRecord() error
	}

	// Emitter is the reciprocal write-side interface: the encoder asks
	// for each property's value in element property order.
	Emitter interface {
		EmitScalar(name string, kind pvalue.Kind) (pvalue.Value, error)
		EmitList(name string, kind pvalue.Kind) ([]pvalue.Value, error)
	}
)

// matches reports whether the field's primary name or any alias equals
// the property name.
func (f Field) matches(propertyName string) bool {
	return f.Name == propertyName || lo.Contains(f.Aliases, propertyName)
}

// FromElement builds the identity shape: every property delivered
// under its own name.
func FromElement(element pheader.Element) *Shape {
	fields := lo.Map(
		element.Properties,
		func(property pheader.Property, _ int) Field {
			return Field{Name: property.Name, IsList: property.IsList}
		},
	)
	return &Shape{Fields: fields}
}

// RowVisitor collects a record into an insertion-ordered map, so the
// row marshals to JSON with its fields in property order.
type RowVisitor struct {
	row *orderedmap.OrderedMap
}

func NewRowVisitor() *RowVisitor {
	return &RowVisitor{}
}

func (r *RowVisitor) BeginRecord() {
	r.row = orderedmap.New()
}

func (r *RowVisitor) VisitScalar(name string, v pvalue.Value) error {
	r.row.Set(name, v.Native())
	return nil
}

func (r *RowVisitor) VisitList(name string, kind pvalue.Kind, items []pvalue.Value) error {
	switch {
	case kind.IsSigned():
		r.row.Set(name, lo.Map(items, func(v pvalue.Value, _ int) int64 { return v.Int }))
	case kind.IsUnsigned():
		r.row.Set(name, lo.Map(items, func(v pvalue.Value, _ int) uint64 { return v.Uint }))
	default:
		r.row.Set(name, lo.Map(items, func(v pvalue.Value, _ int) float64 { return v.Float }))
	}
	return nil
}

func (r *RowVisitor) VisitAbsent(name string) error {
	r.row.Set(name, nil)
	return nil
}

func (r *RowVisitor) VisitDefault(name string, value any) error {
	r.row.Set(name, value)
	return nil
}

func (r *RowVisitor) EndRecord() error {
	return nil
}

// Row returns the record collected since the last BeginRecord.
func (r *RowVisitor) Row() *orderedmap.OrderedMap {
	return r.row
}
