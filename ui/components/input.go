package components

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Rorical/RoriChat/ui/styles"
)

func RenderInput(input textinput.Model, width int) string {
	inputStyle := styles.InputStyle(width)
	return inputStyle.Render(input.View())
}
