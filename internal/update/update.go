package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/Rorical/RoriChat/internal/eventbus"
	"github.com/Rorical/RoriChat/internal/locale"
	"github.com/Rorical/RoriChat/internal/models"
)

// noticeTTL is how long success and error notices stay on screen.
const noticeTTL = 4 * time.Second

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// NoticeExpiredMsg clears Notice if it is still the one on screen.
type NoticeExpiredMsg struct {
	Notice models.Notice
}

// NewAppModel builds the initial UI state. Messages stay empty until core
// pushes its first snapshot.
func NewAppModel(cat locale.Catalog) models.AppModel {
	input := textinput.New()
	input.Placeholder = cat.InputPlaceholder
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	key := textinput.New()
	key.Placeholder = cat.KeyPlaceholder
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.Prompt = ""

	filter := textinput.New()
	filter.Placeholder = cat.ModelPlaceholder
	filter.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return models.AppModel{
		Input:       input,
		KeyInput:    key,
		ModelFilter: filter,
		Spinner:     sp,
	}
}

// HandleKeyMsgWithEventBus handles keyboard input using event bus
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch {
	case appModel.Snapshot.KeyDialogVisible:
		return handleKeyDialogKey(appModel, keyMsg, eb)
	case appModel.Snapshot.ModelSelectOpen:
		return handleModelSelectKey(appModel, keyMsg, eb)
	}

	switch keyMsg.Type {
	case tea.KeyCtrlK:
		send(appModel, eb, eventbus.OpenKeyDialogEvent{})
		return nil
	case tea.KeyCtrlO:
		appModel.ModelFilter.Reset()
		appModel.ModelCursor = 0
		send(appModel, eb, eventbus.OpenModelSelectEvent{})
		return nil
	case tea.KeyEnter:
		text := appModel.Input.Value()
		if strings.TrimSpace(text) == "" || appModel.Snapshot.IsAwaitingCompletion {
			return nil
		}
		if send(appModel, eb, eventbus.SubmitMessageEvent{Text: text}) {
			appModel.LastError = ""
			appModel.Input.Reset()
		}
		return nil
	}

	before := appModel.Input.Value()
	var cmd tea.Cmd
	appModel.Input, cmd = appModel.Input.Update(keyMsg)
	if after := appModel.Input.Value(); after != before {
		send(appModel, eb, eventbus.InputChangedEvent{Text: after})
	}
	return cmd
}

func handleKeyDialogKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch keyMsg.Type {
	case tea.KeyEsc:
		send(appModel, eb, eventbus.CloseKeyDialogEvent{})
		return nil
	case tea.KeyEnter:
		key := appModel.KeyInput.Value()
		if strings.TrimSpace(key) == "" || appModel.Snapshot.IsValidatingKey {
			return nil
		}
		send(appModel, eb, eventbus.ValidateKeyEvent{Key: key})
		return nil
	}

	if appModel.Snapshot.IsValidatingKey {
		return nil
	}
	var cmd tea.Cmd
	appModel.KeyInput, cmd = appModel.KeyInput.Update(keyMsg)
	return cmd
}

func handleModelSelectKey(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	matches := FilterModels(appModel.ModelFilter.Value())

	switch keyMsg.Type {
	case tea.KeyEsc:
		send(appModel, eb, eventbus.CloseModelSelectEvent{})
		return nil
	case tea.KeyUp:
		if appModel.ModelCursor > 0 {
			appModel.ModelCursor--
		}
		return nil
	case tea.KeyDown:
		if appModel.ModelCursor < len(matches)-1 {
			appModel.ModelCursor++
		}
		return nil
	case tea.KeyEnter:
		if appModel.ModelCursor >= len(matches) {
			return nil
		}
		send(appModel, eb, eventbus.SelectModelEvent{ID: matches[appModel.ModelCursor].ID})
		return nil
	}

	var cmd tea.Cmd
	appModel.ModelFilter, cmd = appModel.ModelFilter.Update(keyMsg)
	appModel.ModelCursor = 0
	return cmd
}

// FilterModels fuzzy-matches query against the registry names, best match
// first. An empty query returns the whole registry.
func FilterModels(query string) []models.ModelInfo {
	if strings.TrimSpace(query) == "" {
		out := make([]models.ModelInfo, len(models.Registry))
		copy(out, models.Registry)
		return out
	}

	matches := fuzzy.Find(query, models.ModelNames())
	out := make([]models.ModelInfo, 0, len(matches))
	for _, m := range matches {
		out = append(out, models.Registry[m.Index])
	}
	return out
}

func send(appModel *models.AppModel, eb *eventbus.EventBus, event eventbus.UIEvent) bool {
	if err := eb.SendToCore(event); err != nil {
		appModel.LastError = "Error sending event: " + err.Error()
		return false
	}
	return true
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		wasBusy := appModel.Busy()
		prev := appModel.Snapshot
		appModel.Snapshot = event.Snapshot

		if event.Error != nil {
			appModel.LastError = event.Error.Error()
		}
		if prev.KeyDialogVisible && !event.Snapshot.KeyDialogVisible {
			appModel.KeyInput.Reset()
		}
		syncFocus(appModel)

		if !wasBusy && appModel.Busy() {
			return appModel.Spinner.Tick
		}
	case eventbus.NotificationEvent:
		notice := event.Notice
		appModel.Notice = &notice
		if notice.Kind == models.NoticeLoading {
			return nil
		}
		return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
			return NoticeExpiredMsg{Notice: notice}
		})
	}

	return nil
}

// syncFocus gives keyboard focus to whichever layer is on top.
func syncFocus(appModel *models.AppModel) {
	appModel.Input.Blur()
	appModel.KeyInput.Blur()
	appModel.ModelFilter.Blur()

	switch {
	case appModel.Snapshot.KeyDialogVisible:
		appModel.KeyInput.Focus()
	case appModel.Snapshot.ModelSelectOpen:
		appModel.ModelFilter.Focus()
	default:
		appModel.Input.Focus()
	}
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
	appModel.Input.Width = max(sizeMsg.Width-8, 10)
	appModel.KeyInput.Width = max(sizeMsg.Width/2, 20)
	appModel.ModelFilter.Width = max(sizeMsg.Width/3, 20)
}

// HandleSpinnerTick animates the thinking indicator while core is busy and
// lets the tick chain die out otherwise.
func HandleSpinnerTick(appModel *models.AppModel, tick spinner.TickMsg) tea.Cmd {
	if !appModel.Busy() {
		return nil
	}
	var cmd tea.Cmd
	appModel.Spinner, cmd = appModel.Spinner.Update(tick)
	return cmd
}

func HandleNoticeExpired(appModel *models.AppModel, msg NoticeExpiredMsg) {
	if appModel.Notice != nil && *appModel.Notice == msg.Notice {
		appModel.Notice = nil
	}
}
