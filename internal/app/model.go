package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriChat/internal/dispatcher"
	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/internal/models"
	"github.com/Rorical/RoriChat/internal/update"
	"github.com/Rorical/RoriChat/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	catalog    locale.Catalog
	dispatcher *dispatcher.EventDispatcher
	renderer   *glamour.TermRenderer
}

func newAppModel(state models.AppModel, cat locale.Catalog, disp *dispatcher.EventDispatcher) *AppModel {
	return &AppModel{
		appModel:   state,
		catalog:    cat,
		dispatcher: disp,
		renderer:   newRenderer(80),
	}
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		// messages fall back to plain text
		return nil
	}
	return r
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	if size, ok := msg.(tea.WindowSizeMsg); ok && size.Width != m.appModel.Width {
		m.renderer = newRenderer(size.Width)
	}

	cmd := update.HandleUpdateWithEventBus(&m.appModel, msg, m.dispatcher.GetEventBus())
	return m, cmd
}

func (m *AppModel) View() string {
	state := &m.appModel
	width := state.Width
	if width == 0 {
		width = 80
	}

	var thinking string
	if state.Snapshot.IsAwaitingCompletion {
		thinking = state.Spinner.View() + " " + m.catalog.Thinking
	}

	var body string
	switch {
	case state.Snapshot.KeyDialogVisible:
		body = components.RenderKeyDialog(m.catalog, state.KeyInput, state.Snapshot.IsValidatingKey, width)
	case state.Snapshot.ModelSelectOpen:
		matches := update.FilterModels(state.ModelFilter.Value())
		body = components.RenderModelSelect(state.ModelFilter, matches, state.ModelCursor,
			state.Snapshot.SelectedModel, m.catalog.ModelNoResults, width)
	}

	var b strings.Builder
	b.WriteString(components.RenderMessages(state.Snapshot.Messages, m.renderer, thinking))
	if body != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
		b.WriteString("\n")
	}
	b.WriteString(components.RenderInput(state.Input, width))
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(state.Snapshot, state.Notice, state.LastError, width))

	return b.String()
}
