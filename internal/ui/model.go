package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/ilkoid/poncho-travel/pkg/events"
	"github.com/ilkoid/poncho-travel/pkg/prompt"
	"github.com/ilkoid/poncho-travel/pkg/utils"
)

// streamStartedMsg - агент принял запрос, события пойдут из ch.
type streamStartedMsg struct {
	ch <-chan events.Event
}

// eventMsg - очередное событие агента.
type eventMsg events.Event

// streamClosedMsg - агент закончил (канал закрыт).
type streamClosedMsg struct{}

// startErrMsg - запрос не удалось даже начать.
type startErrMsg struct {
	err error
}

// MainModel - Bubble Tea модель планировщика.
//
// Один запрос за раз: пока агент работает, Enter игнорируется.
type MainModel struct {
	ctx     context.Context
	planner Planner

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	log         []string
	stream      <-chan events.Event
	busy        bool
	ready       bool
	width       int
	withExample bool
}

// InitialModel создаёт начальное состояние UI.
//
// withExample запускает сценарий Toronto → Chicago сразу после старта.
func InitialModel(ctx context.Context, planner Planner, withExample bool) MainModel {
	ti := textinput.New()
	ti.Placeholder = "Paris and Rome next week, what should I pack?"
	ti.Prompt = "You: "
	ti.CharLimit = 1000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := MainModel{
		ctx:         ctx,
		planner:     planner,
		viewport:    viewport.New(0, 0),
		input:       ti,
		spinner:     sp,
		withExample: withExample,
	}
	m.appendLog(systemMsgStyle(prompt.Banner))
	m.appendLog(systemMsgStyle("Type 'quit' to exit"))
	return m
}

// Init запускает мигание курсора и, при необходимости, пример.
func (m MainModel) Init() tea.Cmd {
	if !m.withExample {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.startExample())
}

// Update обрабатывает клавиши, размеры окна и события агента.
func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case streamStartedMsg:
		m.stream = msg.ch
		return m, waitEvent(m.stream)

	case startErrMsg:
		m.busy = false
		m.appendLog(errorMsgStyle("Error: ") + msg.err.Error())
		return m, nil

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitEvent(m.stream)

	case streamClosedMsg:
		m.busy = false
		m.stream = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit обрабатывает Enter в поле ввода.
func (m MainModel) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return m, nil
	}
	if IsQuit(text) {
		m.appendLog(systemMsgStyle(prompt.Farewell))
		return m, tea.Quit
	}

	m.appendLog(userMsgStyle("You: ") + text)
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.startTurn(text))
}

// handleEvent добавляет в лог то, что стоит показать пользователю.
func (m *MainModel) handleEvent(ev events.Event) {
	switch data := ev.Data.(type) {
	case events.ToolCallData:
		m.appendLog(toolMsgStyle(fmt.Sprintf("→ %s %s", data.ToolName, utils.OneLine(data.Args))))
	case events.ToolResultData:
		m.appendLog(toolMsgStyle(fmt.Sprintf("← %s (%s) %s",
			data.ToolName,
			data.Duration.Round(time.Millisecond),
			utils.Truncate(utils.OneLine(data.Result), 120))))
	case events.MessageData:
		if ev.Type == events.EventMessage && data.Content != "" {
			m.appendLog(m.renderMarkdown(data.Content))
		}
	case events.ErrorData:
		m.appendLog(errorMsgStyle("Error: ") + data.Err.Error())
	}
}

// renderMarkdown рендерит ответ модели; при ошибке glamour возвращает текст как есть.
func (m *MainModel) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		utils.Debug("markdown render failed", "error", err)
		return content
	}
	return strings.TrimRight(out, "\n")
}

func (m *MainModel) resize(msg tea.WindowSizeMsg) {
	headerHeight := 1
	footerHeight := 2

	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - len(m.input.Prompt) - 1

	if msg.Width != m.width {
		m.width = msg.Width
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(msg.Width-4),
		)
		if err == nil {
			m.renderer = r
		}
	}
	m.ready = true
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

// appendLog добавляет строку в лог и прокручивает вниз.
func (m *MainModel) appendLog(line string) {
	m.log = append(m.log, line)
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

func (m MainModel) startExample() tea.Cmd {
	planner, ctx := m.planner, m.ctx
	return func() tea.Msg {
		ch, err := planner.Example(ctx)
		if err != nil {
			return startErrMsg{err: err}
		}
		return streamStartedMsg{ch: ch}
	}
}

func (m MainModel) startTurn(text string) tea.Cmd {
	planner, ctx := m.planner, m.ctx
	return func() tea.Msg {
		ch, err := planner.Turn(ctx, text)
		if err != nil {
			return startErrMsg{err: err}
		}
		return streamStartedMsg{ch: ch}
	}
}

// waitEvent читает одно событие из потока агента.
func waitEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}
