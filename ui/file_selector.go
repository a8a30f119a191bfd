package ui

import (
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type FileSelector struct {
	cwd       string
	fileNames []string
	cursor    int
	selected  string
}

func CreateFileSelector() FileSelector {
	cwd, err := os.Getwd()
	if err != nil {
		err := errors.Wrap(err, "CreateFileSelector get current working directory error")
		log.Panic(err)
	}
	return FileSelector{
		cwd:       cwd,
		fileNames: ReadPLYFileNames(cwd),
	}
}

// ReadPLYFileNames lists the .ply files directly under path.
func ReadPLYFileNames(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Fatal(err)
	}
	fileNames := lo.FilterMap(
		entries,
		func(entry os.DirEntry, _ int) (string, bool) {
			name := entry.Name()
			return name, !entry.IsDir() && strings.HasSuffix(name, ".ply")
		},
	)
	return fileNames
}

// Selected returns the chosen file path once the program finishes.
func (s *FileSelector) Selected() string {
	return s.selected
}

func (s *FileSelector) View() string {
	output := "PLYSTREAM\n\n"
	output += "Current directory: " + s.cwd + "\n"
	if len(s.fileNames) == 0 {
		output += "No .ply files here. Press q to quit.\n"
		return output
	}
	output += "Choose a file to inspect (enter to select, q to quit):\n"
	for i, fileName := range s.fileNames {
		marker := "  "
		if i == s.cursor {
			marker = "> "
		}
		output += marker + fileName + "\n"
	}
	return output
}

func (s *FileSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.fileNames)-1 {
			s.cursor++
		}
	case "enter":
		if len(s.fileNames) > 0 {
			s.selected = s.cwd + string(os.PathSeparator) + s.fileNames[s.cursor]
			return s, tea.Quit
		}
	case "q", "ctrl+c", "esc":
		return s, tea.Quit
	}
	return s, nil
}

func (s *FileSelector) Init() tea.Cmd {
	return nil
}
