package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/npow/galactic-uprising/internal/ai"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/parser"
	"github.com/npow/galactic-uprising/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	factionStyles = map[content.Faction]lipgloss.Style{
		content.Dominion:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E05252")),
		content.Liberation: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#52A8E0")),
	}
)

const welcome = "Welcome to Galactic Uprising!\nType 'help' for commands, 'exit' to quit."

// showTopics complete the argument of "show".
var showTopics = []string{"status", "systems", "units", "leaders", "missions", "objectives", "cards", "combat", "log"}

// grammarWords complete the connecting keywords of the command grammar.
var grammarWords = []string{"to", "at", "from", "with", "all", "for"}

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

// aiReadyMsg tells the model the pacer allows the next computer action.
type aiReadyMsg struct{}

type aiErrMsg struct{ err error }

type replModel struct {
	app         *session.Session
	pacer       ai.Pacer
	ctx         context.Context
	cancel      context.CancelFunc
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
	thinking    bool
}

func newREPLModel(app *session.Session, pacer ai.Pacer) replModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., show status)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	ctx, cancel := context.WithCancel(context.Background())
	return replModel{
		app:         app,
		pacer:       pacer,
		ctx:         ctx,
		cancel:      cancel,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForAI())
}

// waitForAI schedules the next computer action once the pacer allows it.
func (m *replModel) waitForAI() tea.Cmd {
	if !m.app.AIActive() {
		m.thinking = false
		return nil
	}
	m.thinking = true
	pacer, ctx := m.pacer, m.ctx
	return func() tea.Msg {
		if err := pacer.Wait(ctx); err != nil {
			return aiErrMsg{err: err}
		}
		return aiReadyMsg{}
	}
}

// vocabulary lists the ids the player may want to type.
func (m *replModel) vocabulary() []string {
	e := m.app.Engine()
	w := e.World()
	words := append([]string(nil), w.Order...)
	words = append(words, showTopics...)
	words = append(words, grammarWords...)
	for _, f := range content.Factions {
		words = append(words, string(f))
		for _, l := range w.Leaders[f] {
			words = append(words, l.ID)
		}
		if f == m.app.Opponent() {
			continue
		}
		for _, mission := range e.Hand(f) {
			words = append(words, mission.ID)
		}
		for _, c := range w.Cards[f] {
			words = append(words, c.ID)
		}
	}
	for _, id := range w.Order {
		for _, f := range content.Factions {
			for _, u := range e.UnitsOf(id, f) {
				if f != m.app.Opponent() {
					words = append(words, u.ID)
				}
			}
		}
	}
	sort.Strings(words)
	return words
}

func (m *replModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := min(len(items), 10)
			if h < 4 {
				h = 4
			}
			m.suggestions.SetHeight(h)
			m.suggestions.ResetSelected()
		}
	}()

	if strings.TrimSpace(val) == "" {
		return
	}

	lower := strings.ToLower(val)
	if !strings.Contains(lower, " ") {
		for _, c := range parser.Commands {
			if strings.HasPrefix(c, lower) && len(lower) < len(c) {
				items = append(items, suggestion(c+" "))
			}
		}
		return
	}

	cut := strings.LastIndex(val, " ") + 1
	prefix := strings.ToLower(val[cut:])
	if prefix == "" {
		return
	}
	seen := make(map[string]bool)
	for _, word := range m.vocabulary() {
		if seen[word] || !strings.HasPrefix(word, prefix) || word == prefix {
			continue
		}
		seen[word] = true
		items = append(items, suggestion(val[:cut]+word+" "))
	}
}

func (m *replModel) appendLog(format string, args ...any) {
	m.logContent += fmt.Sprintf(format, args...)
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
		aiCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case aiReadyMsg:
		reply, err := m.app.AIStep(m.ctx)
		switch {
		case err == nil:
			m.appendLog("\n%s", reply.Text)
		case !errors.Is(err, ai.ErrNotActive):
			m.appendLog("\nError: %v", err)
		}
		if err != nil || !reply.Result.OK {
			m.thinking = false
			break
		}
		aiCmd = m.waitForAI()

	case aiErrMsg:
		m.thinking = false
		if m.ctx.Err() == nil {
			m.appendLog("\nError: %v", msg.err)
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "" {
				break
			}
			if len(m.history) == 0 || m.history[len(m.history)-1] != val {
				m.history = append(m.history, val)
			}
			m.historyIdx = -1
			m.textInput.SetValue("")
			m.updateSuggestions()

			m.appendLog("\n\n> %s\n", val)
			reply, err := m.app.Execute(val)
			if err != nil {
				m.appendLog("Error: %v", err)
				break
			}
			m.appendLog("%s", reply.Text)
			if reply.Quit {
				m.cancel()
				return m, tea.Quit
			}
			if !m.thinking {
				aiCmd = m.waitForAI()
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	inputH := 1
	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	overhead := titleH + stateH + inputH + listAreaHeight + infoH + 6

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd, aiCmd)
}

func (m *replModel) renderState() string {
	e := m.app.Engine()
	snap := e.Snapshot()

	var b strings.Builder
	active := factionStyles[snap.ActivePlayer].Render(snap.ActivePlayer.Title())
	fmt.Fprintf(&b, "Turn %d  %s  %s to act\n", snap.Turn, snap.Phase, active)
	fmt.Fprintf(&b, "Reputation %d  Time %d  Units %s %d / %s %d\n",
		snap.ReputationMarker, snap.TimeMarker,
		factionStyles[content.Dominion].Render("D"), snap.DominionUnits,
		factionStyles[content.Liberation].Render("L"), snap.LiberationUnits)
	fmt.Fprintf(&b, "Objectives: %s", strings.Join(snap.Objectives, ", "))
	if snap.Combat != "" {
		fmt.Fprintf(&b, "\nCombat at %s", snap.Combat)
	}
	switch {
	case snap.GameOver:
		fmt.Fprintf(&b, "\nGAME OVER: %s wins", factionStyles[snap.Winner].Render(snap.Winner.Title()))
	case m.thinking:
		fmt.Fprintf(&b, "\n%s is thinking...", m.app.Opponent().Title())
	}
	return stateBoxStyle.Width(m.width - 4).Render(b.String())
}

func (m *replModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	side := "hotseat"
	if h := m.app.Human(); h != "" {
		side = "you play " + h.Title()
	}
	title := titleStyle.Render(fmt.Sprintf(" Galactic Uprising | seed %d | %s ", m.app.Seed(), side))
	stateBox := m.renderState()
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		stateBox,
		logBox,
		"",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunTUI plays app in the terminal, pacing computer actions with pacer.
func RunTUI(app *session.Session, pacer ai.Pacer) error {
	m := newREPLModel(app, pacer)
	defer m.cancel()
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
