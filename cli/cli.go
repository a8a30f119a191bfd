package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"plystream/ds"
	"plystream/ply"
	"plystream/ply/pchunk"
	"plystream/ply/pheader"
	"plystream/ui"
)

type (
	Args struct {
		Interactive *InteractiveCmd `arg:"subcommand:interactive"`
		Convert     *ConvertCmd     `arg:"subcommand:convert"`
		Inspect     *InspectCmd     `arg:"subcommand:inspect"`
	}
	InteractiveCmd struct{}
	ConvertCmd     struct {
		From   string `arg:"required" help:"path to source file" placeholder:"bunny.ply"`
		To     string `arg:"required" help:"path to destination file" placeholder:"bunny.json"`
		Force  bool   `help:"overwrite the destination file"`
		Format string `help:"target body format when writing PLY" placeholder:"ascii"`
	}
	InspectCmd struct {
		From string `arg:"required" help:"path to PLY file" placeholder:"bunny.ply"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"A CLI utility to convert PLY (the Polygon File Format) to and from",
			"editable JSON, and to transcode between the ASCII and binary body formats.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

func StartConverting(from string, to string, force bool, format string) {
	if !CheckExistence(from) {
		println("Source file does not exist!")
		return
	}
	if CheckExistence(to) && !force {
		println("Destination file existed. Please type the command again with --force to allow overwriting!")
		return
	}
	fileBytes, err := os.ReadFile(from)
	if err != nil {
		println("Error happened reading file at: " + from)
		return
	}

	resultBytes, err := Convert(fileBytes, format)
	if err != nil {
		println("Error happened converting: " + err.Error())
		return
	}
	if err := os.WriteFile(to, resultBytes, 0644); err != nil {
		println("Error happened writing to file at: " + to)
		return
	}
	println("Done converting. Please check your result file at: " + to)
}

// Convert picks the direction by the magic line: PLY in becomes JSON
// out (or PLY again when a target format asks for a transcode), JSON
// in becomes PLY out.
func Convert(fileBytes []byte, format string) ([]byte, error) {
	if ply.IsPLYFile(fileBytes) {
		file, err := ply.DecodePLY(fileBytes)
		if err != nil {
			return nil, err
		}
		if format == "" {
			return json.MarshalIndent(file, "", "  ")
		}
		targetFormat, err := pheader.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		file.Header.Format = targetFormat
		return ply.EncodePLY(file)
	}

	file := ply.File{}
	if err := json.Unmarshal(fileBytes, &file); err != nil {
		return nil, errors.Wrap(err, "Convert error: parse JSON")
	}
	if format != "" {
		targetFormat, err := pheader.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		file.Header.Format = targetFormat
	}
	return ply.EncodePLY(&file)
}

func StartInspecting(from string) {
	fileBytes, err := os.ReadFile(from)
	if err != nil {
		println("Error happened reading file at: " + from)
		return
	}
	summary, err := Summarize(fileBytes)
	if err != nil {
		println("Error happened reading header: " + err.Error())
		return
	}
	print(summary)
}

// Summarize renders the header of a PLY file without touching the
// body.
func Summarize(fileBytes []byte) (string, error) {
	reader := pchunk.NewReader()
	if err := reader.Feed(fileBytes); err != nil {
		return "", err
	}
	header := reader.Header()
	if header == nil {
		return "", pchunk.TruncatedHeaderError{}
	}

	rule := strings.Join(ds.Repeat(24, "-"), "")
	lines := []string{
		"format:  " + header.Format.String(),
		"version: " + header.Version,
	}
	for _, comment := range header.Comments {
		lines = append(lines, "comment: "+comment)
	}
	for _, objInfo := range header.ObjInfo {
		lines = append(lines, "obj_info: "+objInfo)
	}
	lines = append(lines, rule)
	for _, element := range header.Elements {
		lines = append(lines, fmt.Sprintf("element %s (%d records)", element.Name, element.Count))
		for _, property := range element.Properties {
			if property.IsList {
				lines = append(lines, "  list "+property.CountKind.String()+" "+property.Kind.String()+" "+property.Name)
			} else {
				lines = append(lines, "  "+property.Kind.String()+" "+property.Name)
			}
		}
	}
	lines = append(lines, rule)
	lines = append(lines, strconv.Itoa(len(header.Elements))+" elements")
	return strings.Join(lines, "\n") + "\n", nil
}

func Start() {
	args := Args{}
	arg.MustParse(&args)

	switch {
	case args.Convert != nil:
		StartConverting(
			args.Convert.From,
			args.Convert.To,
			args.Convert.Force,
			args.Convert.Format,
		)
	case args.Inspect != nil:
		StartInspecting(args.Inspect.From)
	default:
		if path := ui.Start(); path != "" {
			StartInspecting(path)
		}
	}
}
