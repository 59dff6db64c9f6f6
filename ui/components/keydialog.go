package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/ui/styles"
)

// RenderKeyDialog draws the API key prompt. The submit label switches to
// the in-progress text while a validation runs.
func RenderKeyDialog(cat locale.Catalog, keyInput textinput.Model, validating bool, width int) string {
	var b strings.Builder

	b.WriteString(styles.DialogTitleStyle().Render(cat.KeyDialogTitle) + "\n\n")
	b.WriteString(cat.KeyDialogHelp + "\n\n")
	b.WriteString(keyInput.View() + "\n\n")

	label := "[enter] " + cat.KeySubmit
	if validating {
		label = cat.KeySubmitting
	}
	b.WriteString(styles.HelpStyle().Render(label))

	return styles.DialogStyle(width/2).Render(b.String())
}
