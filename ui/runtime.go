package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the interactive file selector and returns the chosen PLY
// file's path, or an empty string when the user backed out.
func Start() string {
	fileSelector := CreateFileSelector()
	if err := tea.NewProgram(&fileSelector).Start(); err != nil {
		panic(err)
	}
	return fileSelector.Selected()
}
