package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
)

// AppModel represents the UI state. Session data arrives as Snapshots from
// core; everything else here is local to the terminal.
type AppModel struct {
	Snapshot    Snapshot        // Latest state pushed by core
	Notice      *Notice         // Current transient notice, nil when none
	LastError   string          // Last error reported alongside a snapshot
	Input       textinput.Model // Chat composer
	KeyInput    textinput.Model // Masked key dialog field
	ModelFilter textinput.Model // Model popover filter
	ModelCursor int             // Highlighted row of the filtered model list
	Spinner     spinner.Model   // Thinking indicator
	Width       int             // Terminal width
	Height      int             // Terminal height
}

// Busy reports whether core is waiting on the network.
func (m *AppModel) Busy() bool {
	return m.Snapshot.IsAwaitingCompletion || m.Snapshot.IsValidatingKey
}
