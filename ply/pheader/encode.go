package pheader

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Encode emits the header's wire form: `ply`, the format line, the
// comment and obj_info lines, each element block in order, and the
// `end_header` terminator. Lines end with a bare newline.
func Encode(header Header) ([]byte, error) {
	if err := validate(header); err != nil {
		return nil, errors.Wrap(err, "pheader.Encode error")
	}

	version := header.Version
	if version == "" {
		version = "1.0"
	}

	bs := make([]byte, 0, 128)
	bs = appendLine(bs, "ply")
	bs = appendLine(bs, "format "+header.Format.String()+" "+version)
	for _, comment := range header.Comments {
		bs = appendLine(bs, "comment "+comment)
	}
	for _, objInfo := range header.ObjInfo {
		bs = appendLine(bs, "obj_info "+objInfo)
	}
	for _, element := range header.Elements {
		bs = appendLine(bs, "element "+element.Name+" "+strconv.FormatUint(element.Count, 10))
		for _, property := range element.Properties {
			if property.IsList {
				bs = appendLine(bs, "property list "+property.CountKind.String()+" "+property.Kind.String()+" "+property.Name)
			} else {
				bs = appendLine(bs, "property "+property.Kind.String()+" "+property.Name)
			}
		}
	}
	bs = appendLine(bs, "end_header")
	return bs, nil
}

func validate(header Header) error {
	if _, ok := formatNames[header.Format]; !ok {
		return fmt.Errorf("unknown format %d", header.Format)
	}
	for _, element := range header.Elements {
		seen := map[string]struct{}{}
		for _, property := range element.Properties {
			if _, ok := seen[property.Name]; ok {
				return fmt.Errorf(`duplicate property "%s" in element "%s"`, property.Name, element.Name)
			}
			seen[property.Name] = struct{}{}
			if property.IsList && !property.CountKind.IsUnsigned() {
				return fmt.Errorf(
					`list property "%s" in element "%s" has a signed count type "%s"`,
					property.Name, element.Name, property.CountKind,
				)
			}
		}
	}
	return nil
}

func appendLine(bs []byte, line string) []byte {
	bs = append(bs, line...)
	return append(bs, '\n')
}
