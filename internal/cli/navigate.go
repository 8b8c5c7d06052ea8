package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one. The
// replaced view is closed.
type replaceViewMsg struct {
	view View
}

// cmdOutputMsg carries text to display transiently over the current view.
type cmdOutputMsg struct {
	output string
}

// cmdLoadingMsg shows a dim loading line until the next output arrives.
type cmdLoadingMsg struct {
	message string
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// quitMsg closes every view and exits the program.
type quitMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

func output(text string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: text} }
}

func loading(message string) tea.Cmd {
	return func() tea.Msg { return cmdLoadingMsg{message: message} }
}

func quit() tea.Msg { return quitMsg{} }

// wizardCompleteOutput pops the wizard and shows text.
func wizardCompleteOutput(text string) tea.Msg {
	return wizardCompleteMsg{nextCmd: output(text)}
}
