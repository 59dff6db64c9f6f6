package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/ui/styles"
)

// RenderMessages draws the conversation. Assistant replies go through the
// markdown renderer when one is given; thinking is the indicator line shown
// while a reply is pending, empty otherwise.
func RenderMessages(messages []models.Message, renderer *glamour.TermRenderer, thinking string) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()

	for _, msg := range messages {
		switch msg.Sender {
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Text) + "\n\n")
		case models.Assistant:
			b.WriteString(assistantStyle.Render(renderMarkdown(renderer, msg.Text)) + "\n\n")
		}
	}

	if thinking != "" {
		b.WriteString(styles.ThinkingStyle().Render(thinking) + "\n\n")
	}

	return b.String()
}

func renderMarkdown(renderer *glamour.TermRenderer, text string) string {
	if renderer == nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
