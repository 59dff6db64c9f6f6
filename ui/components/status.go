package components

import (
	"strings"

	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/ui/styles"
)

// RenderStatus draws the bottom bar: selected model, session status, then
// the current notice or error if any.
func RenderStatus(snap models.Snapshot, notice *models.Notice, lastError string, width int) string {
	statusStyle := styles.StatusStyle(width)

	name := string(snap.SelectedModel)
	if info, ok := models.LookupModel(snap.SelectedModel); ok {
		name = info.Name
	}
	parts := []string{name, snap.Status.String()}

	switch {
	case notice != nil:
		parts = append(parts, styles.NoticeStyle(notice.Kind).Render(notice.Text))
	case lastError != "":
		parts = append(parts, styles.ErrorStyle().Render("Error: "+lastError))
	}

	return statusStyle.Render(strings.Join(parts, " · "))
}
