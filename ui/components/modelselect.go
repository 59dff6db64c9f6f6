package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/ui/styles"
)

// RenderModelSelect draws the model popover: the filter line and the
// matching models, with the cursor row highlighted and the active model
// marked.
func RenderModelSelect(filter textinput.Model, matches []models.ModelInfo, cursor int, selected models.ModelID, noResults string, width int) string {
	var b strings.Builder
	b.WriteString(filter.View() + "\n\n")

	if len(matches) == 0 {
		b.WriteString(styles.HelpStyle().Render(noResults))
	}
	for i, m := range matches {
		line := m.Name
		if m.ID == selected {
			line += " ✓"
		}
		if i == cursor {
			b.WriteString(styles.SelectedStyle().Render(line))
		} else {
			b.WriteString(styles.ItemStyle().Render(line))
		}
		if i < len(matches)-1 {
			b.WriteString("\n")
		}
	}

	return styles.DialogStyle(width/3).Render(b.String())
}
