package pshape

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"plystream/ply/pheader"
)

type (
	// PlanEntry is the action for one property position: deliver the
	// value to the visitor under Target, or skip past its bytes.
	PlanEntry struct {
		Deliver  bool
		Target   string
		Property pheader.Property
	}

	// Plan is the immutable per-element mapping from property
	// positions to visitor actions, plus the shape targets that
	// matched no property and are signaled as absent or defaulted.
	Plan struct {
		Element pheader.Element
		Entries []PlanEntry
		Absent  []Field
	}

	// FieldMismatchError reports a failed binding between a shape and
	// an element.
	FieldMismatchError struct {
		Element string
		Kind    string
		Missing []string
		Present []string
	}
)

const (
	MismatchListVsScalar    = "list-vs-scalar"
	MismatchRequiredMissing = "required-missing"
)

func (r FieldMismatchError) Error() string {
	return fmt.Sprintf(
		`field mismatch (%s) binding element "%s": missing [%s], present [%s]`,
		r.Kind, r.Element, strings.Join(r.Missing, " "), strings.Join(r.Present, " "),
	)
}

// Build matches a shape against an element's properties in property
// order and produces the plan reused for every record of the element.
// Building is the only validation point; per-record decoding trusts
// the plan.
func Build(element pheader.Element, shape *Shape) (*Plan, error) {
	plan := Plan{
		Element: element,
		Entries: make([]PlanEntry, 0, len(element.Properties)),
	}
	matched := make([]bool, len(shape.Fields))

	for _, property := range element.Properties {
		index := -1
		for i, field := range shape.Fields {
			if field.matches(property.Name) {
				index = i
				break
			}
		}
		if index < 0 || shape.Fields[index].Skip {
			if index >= 0 {
				matched[index] = true
			}
			plan.Entries = append(plan.Entries, PlanEntry{Property: property})
			continue
		}
		field := shape.Fields[index]
		if field.IsList != property.IsList {
			return nil, FieldMismatchError{
				Element: element.Name,
				Kind:    MismatchListVsScalar,
				Missing: []string{field.Name},
				Present: []string{property.Name},
			}
		}
		matched[index] = true
		plan.Entries = append(plan.Entries, PlanEntry{
			Deliver:  true,
			Target:   field.Name,
			Property: property,
		})
	}

	missing := []string{}
	for i, field := range shape.Fields {
		if matched[i] || field.Skip {
			continue
		}
		if field.HasDefault || field.Optional {
			plan.Absent = append(plan.Absent, field)
			continue
		}
		missing = append(missing, field.Name)
	}
	if len(missing) > 0 {
		present := lo.Map(
			element.Properties,
			func(property pheader.Property, _ int) string { return property.Name },
		)
		return nil, FieldMismatchError{
			Element: element.Name,
			Kind:    MismatchRequiredMissing,
			Missing: missing,
			Present: present,
		}
	}

	return &plan, nil
}
