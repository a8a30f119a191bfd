package pheader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"plystream/ply/pvalue"
)

type (
	// MalformedHeaderError reports a header grammar violation with the
	// one-based line it occurred on.
	MalformedHeaderError struct {
		Line   int
		Reason string
	}
)

func (r MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header at line %d: %s", r.Line, r.Reason)
}

var magicBytes = []byte("ply")

// IsValidMagic reports whether bs opens with the PLY magic line.
func IsValidMagic(bs []byte) bool {
	return bytes.HasPrefix(bs, []byte("ply\n")) || bytes.HasPrefix(bs, []byte("ply\r\n"))
}

// TryParse parses a complete header from the front of bs. It returns
// the header and the number of bytes consumed, through the end_header
// terminator. When bs does not yet hold the terminator, it returns
// (nil, 0, nil) so a chunked caller can feed more bytes. Grammar
// violations on lines already present fail immediately.
func TryParse(bs []byte) (*Header, int, error) {
	header := Header{Version: ""}
	sawFormat := false
	currentElement := -1
	lineNumber := 0
	offset := 0

	for {
		terminator := bytes.IndexByte(bs[offset:], '\n')
		if terminator < 0 {
			// The terminator line has not arrived yet.
			return nil, 0, nil
		}
		line := string(bs[offset : offset+terminator])
		line = strings.TrimSuffix(line, "\r")
		offset += terminator + 1
		lineNumber++

		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "leading whitespace"}
		}

		if lineNumber == 1 {
			if line != string(magicBytes) {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: `first line must be "ply"`}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "blank line"}
		}
		keyword := fields[0]

		if lineNumber == 2 && keyword != "format" {
			return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: `second line must be "format"`}
		}

		switch keyword {
		case "format":
			if sawFormat {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "duplicate format line"}
			}
			if len(fields) != 3 {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "format line needs a format keyword and a version"}
			}
			format, err := ParseFormat(fields[1])
			if err != nil {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: err.Error()}
			}
			header.Format = format
			header.Version = fields[2]
			sawFormat = true

		case "comment":
			header.Comments = append(header.Comments, freeForm(line, keyword))

		case "obj_info":
			header.ObjInfo = append(header.ObjInfo, freeForm(line, keyword))

		case "element":
			if !sawFormat {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "element before format"}
			}
			if len(fields) != 3 {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "element line needs a name and a count"}
			}
			count, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return nil, 0, MalformedHeaderError{
					Line:   lineNumber,
					Reason: fmt.Sprintf(`invalid element count "%s"`, fields[2]),
				}
			}
			header.Elements = append(header.Elements, Element{Name: fields[1], Count: count})
			currentElement = len(header.Elements) - 1

		case "property":
			if !sawFormat {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "property before format"}
			}
			if currentElement < 0 {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "property without an enclosing element"}
			}
			property, err := parseProperty(fields)
			if err != nil {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: err.Error()}
			}
			element := &header.Elements[currentElement]
			for _, existing := range element.Properties {
				if existing.Name == property.Name {
					return nil, 0, MalformedHeaderError{
						Line:   lineNumber,
						Reason: fmt.Sprintf(`duplicate property "%s" in element "%s"`, property.Name, element.Name),
					}
				}
			}
			element.Properties = append(element.Properties, property)

		case "end_header":
			if !sawFormat {
				return nil, 0, MalformedHeaderError{Line: lineNumber, Reason: "end_header before format"}
			}
			return &header, offset, nil

		default:
			return nil, 0, MalformedHeaderError{
				Line:   lineNumber,
				Reason: fmt.Sprintf(`unknown keyword "%s"`, keyword),
			}
		}
	}
}

func parseProperty(fields []string) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return Property{}, fmt.Errorf("list property line needs a count type, an item type and a name")
		}
		countKind, err := pvalue.ParseKind(fields[2])
		if err != nil {
			return Property{}, err
		}
		if !countKind.IsUnsigned() {
			return Property{}, fmt.Errorf(`list count type must be unsigned, got "%s"`, countKind)
		}
		itemKind, err := pvalue.ParseKind(fields[3])
		if err != nil {
			return Property{}, err
		}
		return Property{Name: fields[4], Kind: itemKind, IsList: true, CountKind: countKind}, nil
	}
	if len(fields) != 3 {
		return Property{}, fmt.Errorf("property line needs a type and a name")
	}
	kind, err := pvalue.ParseKind(fields[1])
	if err != nil {
		return Property{}, err
	}
	return Property{Name: fields[2], Kind: kind}, nil
}

func freeForm(line string, keyword string) string {
	if len(line) <= len(keyword)+1 {
		return ""
	}
	return line[len(keyword)+1:]
}
