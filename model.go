package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/garbagemule/RecountChatFilter/internal/report"
)

const engineTickInterval = 250 * time.Millisecond

type tickMsg time.Time

type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	openLast   key.Binding
	closeView  key.Binding
	yank       key.Binding
	send       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		openLast: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open last report"),
		),
		closeView: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy report"),
		),
		send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
	}
}

// chatEntry is one visible line of the stream. Suppressed report data lines
// never become entries; a headline entry carries the link payload that
// reopens its report.
type chatEntry struct {
	channel report.Channel
	sender  string
	text    string
	payload string
	note    bool
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap

	cfg     *appConfig
	cfgPath string

	engine    *report.Engine
	roster    *rosterStore
	telemetry *telemetryLogger

	chatView   viewport.Model
	entries    []chatEntry
	suppressed int

	input      textinput.Model
	outChannel report.Channel

	stream <-chan streamMsg

	showPopup    bool
	popupRows    []report.Row
	lastPayload  string
	showHelp     bool
	helpRendered string

	toastMessage string
	toastExpires time.Time

	lastTick time.Time
}

func initialModel(cfg *appConfig, cfgPath string, stream <-chan streamMsg) *model {
	m := &model{
		styles:  newStyles(),
		keys:    newKeyMap(),
		cfg:     cfg,
		cfgPath: cfgPath,
		stream:  stream,
	}

	if roster, err := openRosterStore(); err == nil {
		m.roster = roster
	}
	m.engine = report.NewEngine(cfg.engineOptions(m.rosterLookup()))
	m.telemetry = newTelemetryLogger(filepath.Join(resolveConfigDir(), "events.ndjson"))

	m.outChannel = report.Channel(cfg.Channel)
	if !knownChannel(m.outChannel) {
		m.outChannel = report.ChannelParty
	}

	m.chatView = viewport.New(0, 0)
	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 256
	m.input.Placeholder = "type a line, or /help"
	m.input.Focus()

	m.lastTick = time.Now()
	m.pushNote("Watching for Recount and Skada reports. F1 for help.")
	return m
}

func (m *model) rosterLookup() report.CategoryFunc {
	return func(actor string) (string, bool) {
		return m.roster.ClassOf(actor)
	}
}

func knownChannel(ch report.Channel) bool {
	for _, known := range report.DefaultChannels() {
		if ch == known {
			return true
		}
	}
	return false
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd()}
	if m.stream != nil {
		cmds = append(cmds, waitForStreamMsg(m.stream))
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(engineTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.applyLayout()
		return m, nil

	case tickMsg:
		now := time.Time(message)
		delta := now.Sub(m.lastTick)
		if delta < 0 {
			delta = 0
		}
		m.lastTick = now
		for _, tr := range m.engine.Tick(delta) {
			m.telemetry.Emit(telemetryEvent{
				Event:    "report_finalized",
				Sender:   tr.Sender,
				Producer: string(tr.Producer),
				ReportID: tr.ID,
			})
		}
		if m.toastMessage != "" && time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		}
		return m, tickCmd()

	case streamLineMsg:
		m.dispatchLine(message.Channel, message.Sender, message.Text)
		return m, waitForStreamMsg(m.stream)

	case streamNoteMsg:
		m.pushNote(message.Text)
		return m, waitForStreamMsg(m.stream)

	case streamClosedMsg:
		if message.Err != nil {
			m.pushNote(fmt.Sprintf("stream ended: %v", message.Err))
		} else {
			m.pushNote("stream ended")
		}
		return m, nil

	case tea.MouseMsg:
		if message.Type == tea.MouseLeft {
			m.handleClick(message.X, message.Y)
		}
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if handled, cmd := m.handleKey(message); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.closeStores()
		return true, tea.Quit
	}

	if m.showPopup {
		switch {
		case key.Matches(msg, m.keys.yank):
			m.yankPopup()
		case key.Matches(msg, m.keys.closeView):
			m.showPopup = false
		}
		return true, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.closeView) || key.Matches(msg, m.keys.toggleHelp) {
			m.showHelp = false
		}
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.toggleHelp):
		if m.helpRendered == "" {
			m.helpRendered = renderHelp()
		}
		m.showHelp = true
		return true, nil
	case key.Matches(msg, m.keys.openLast):
		if m.lastPayload == "" {
			m.setToast("No report links yet", 3*time.Second)
		} else {
			m.activatePayload(m.lastPayload)
		}
		return true, nil
	case key.Matches(msg, m.keys.send):
		m.submitInput()
		return true, nil
	}
	return false, nil
}

func (m *model) closeStores() {
	_ = m.roster.Close()
}

// dispatchLine pushes one incoming chat line through the filter engine and
// into the visible log, honoring the engine's suppress/rewrite verdict.
func (m *model) dispatchLine(ch report.Channel, sender, text string) {
	res := m.engine.FilterLine(ch, sender, text)
	if res.Suppress {
		m.suppressed++
		return
	}
	entry := chatEntry{channel: ch, sender: sender, text: text}
	if res.Link != nil {
		entry.text = res.Link.Display
		entry.payload = res.Link.Payload
		m.lastPayload = res.Link.Payload
		m.telemetry.Emit(telemetryEvent{
			Event:   "report_started",
			Channel: string(ch),
			Sender:  sender,
		})
	}
	m.entries = append(m.entries, entry)
	m.refreshChat()
}

func (m *model) pushNote(text string) {
	m.entries = append(m.entries, chatEntry{text: text, note: true})
	m.refreshChat()
}

func (m *model) submitInput() {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if text == "" {
		return
	}
	if strings.HasPrefix(text, "/") {
		m.runCommand(text)
		return
	}
	m.dispatchLine(m.outChannel, m.cfg.Handle, text)
}

func (m *model) runCommand(text string) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/help":
		if m.helpRendered == "" {
			m.helpRendered = renderHelp()
		}
		m.showHelp = true

	case "/who":
		switch len(fields) {
		case 1:
			roster, err := m.roster.All()
			if err != nil {
				m.setToast("Roster unavailable", 4*time.Second)
				return
			}
			m.pushNote(fmt.Sprintf("%d actors on the roster", len(roster)))
		case 3:
			if err := m.roster.Record(fields[1], fields[2]); err != nil {
				m.setToast("Roster update failed", 4*time.Second)
				return
			}
			m.setToast(fmt.Sprintf("%s recorded as %s", fields[1], strings.ToLower(fields[2])), 3*time.Second)
		default:
			m.setToast("Usage: /who <name> <class>", 4*time.Second)
		}

	case "/channel":
		if len(fields) != 2 {
			m.setToast("Usage: /channel <tag>", 4*time.Second)
			return
		}
		ch := report.Channel(strings.ToLower(fields[1]))
		if !knownChannel(ch) {
			m.setToast(fmt.Sprintf("Unknown channel %q", fields[1]), 4*time.Second)
			return
		}
		m.outChannel = ch
		m.cfg.Channel = string(ch)
		_ = saveConfig(m.cfg, m.cfgPath)
		m.setToast("Talking on "+string(ch), 3*time.Second)

	case "/policy":
		if len(fields) != 2 {
			m.setToast("Usage: /policy class|alternate", 4*time.Second)
			return
		}
		policy := report.ColorPolicy(strings.ToLower(fields[1]))
		if policy != report.PolicyClass && policy != report.PolicyAlternate {
			m.setToast("Usage: /policy class|alternate", 4*time.Second)
			return
		}
		m.engine.SetPolicy(policy)
		m.cfg.ColorPolicy = string(policy)
		_ = saveConfig(m.cfg, m.cfgPath)
		m.setToast("Color policy: "+string(policy), 3*time.Second)

	default:
		m.setToast(fmt.Sprintf("Unknown command %s", fields[0]), 4*time.Second)
	}
}

// handleClick maps a mouse position to a chat entry and activates its link
// if it has one.
func (m *model) handleClick(x, y int) {
	if m.showPopup || m.showHelp {
		return
	}
	row := y - topBarHeight + m.chatView.YOffset
	if row < 0 || row >= len(m.entries) {
		return
	}
	entry := m.entries[row]
	if entry.payload == "" {
		return
	}
	m.activatePayload(entry.payload)
}

func (m *model) activatePayload(payload string) {
	rows, handled := m.engine.ActivateLink(payload, func(p string) {
		m.setToast("No handler for link "+p, 4*time.Second)
	})
	if !handled {
		return
	}
	m.popupRows = rows
	m.showPopup = true
	m.telemetry.Emit(telemetryEvent{Event: "report_opened"})
	if len(rows) == 0 {
		m.setToast("Report is no longer available", 4*time.Second)
	}
}

func (m *model) yankPopup() {
	var b strings.Builder
	for _, row := range m.popupRows {
		switch {
		case row.Spacer:
			b.WriteString("\n")
		case row.Right == "":
			b.WriteString(row.Left + "\n")
		default:
			b.WriteString(row.Left + "  " + row.Right + "\n")
		}
	}
	if err := clipboard.WriteAll(b.String()); err != nil {
		m.setToast("Clipboard unavailable", 4*time.Second)
		return
	}
	m.setToast("Report copied to clipboard", 3*time.Second)
}

func (m *model) setToast(message string, ttl time.Duration) {
	m.toastMessage = message
	m.toastExpires = time.Now().Add(ttl)
}

const topBarHeight = 1

func (m *model) applyLayout() {
	chatHeight := m.height - topBarHeight - 2 - 1
	if chatHeight < 1 {
		chatHeight = 1
	}
	m.chatView.Width = m.width
	m.chatView.Height = chatHeight
	m.input.Width = m.width - 4
	m.refreshChat()
}

func (m *model) refreshChat() {
	atBottom := m.chatView.AtBottom()
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	m.chatView.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.chatView.GotoBottom()
	}
}

func (m *model) renderEntry(entry chatEntry) string {
	if entry.note {
		return m.styles.statusHint.Render("-- " + entry.text)
	}
	tag := m.styles.chanTag.Copy().
		Foreground(channelColor(string(entry.channel))).
		Render("[" + string(entry.channel) + "]")
	sender := m.styles.sender.Render(entry.sender + ":")
	text := entry.text
	if entry.payload != "" {
		text = m.styles.reference.Render("[" + text + "]")
	} else {
		text = m.styles.line.Render(text)
	}
	return tag + " " + sender + " " + text
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTopBar() + "\n")

	switch {
	case m.showHelp:
		b.WriteString(m.renderOverlay(m.helpRendered))
	case m.showPopup:
		b.WriteString(m.renderOverlay(m.renderPopup()))
	default:
		b.WriteString(m.chatView.View())
	}
	b.WriteString("\n")

	b.WriteString(m.styles.inputBar.Width(m.width).Render(
		m.styles.inputPrompt.Render("["+string(m.outChannel)+"] ") + m.input.View(),
	))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return m.styles.app.Render(b.String())
}

func (m *model) renderTopBar() string {
	title := m.styles.topTitle.Render("RecountChatFilter")
	status := m.styles.topStatus.Render(fmt.Sprintf("%d lines filtered", m.suppressed))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.topBar.Render(title + strings.Repeat(" ", gap) + status)
}

func (m *model) renderPopup() string {
	if len(m.popupRows) == 0 {
		return m.styles.popup.Render(
			m.styles.popupTitle.Render("Report") + "\n\n" +
				m.styles.popupHint.Render("Nothing to show; the report is gone."),
		)
	}

	leftWidth := 0
	for _, row := range m.popupRows {
		if !row.Headline && !row.Spacer && len(row.Left) > leftWidth {
			leftWidth = len(row.Left)
		}
	}

	var lines []string
	for _, row := range m.popupRows {
		switch {
		case row.Headline:
			lines = append(lines, m.styles.popupTitle.Render(row.Left))
		case row.Spacer:
			lines = append(lines, "")
		default:
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color))
			left := style.Copy().Width(leftWidth + 2).Render(row.Left)
			lines = append(lines, left+style.Render(row.Right))
		}
	}
	lines = append(lines, "", m.styles.popupHint.Render("y copy · esc close"))
	return m.styles.popup.Render(strings.Join(lines, "\n"))
}

func (m *model) renderOverlay(content string) string {
	return lipgloss.Place(
		m.width, m.chatView.Height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (m *model) renderStatusBar() string {
	reg := m.engine.Registry()
	segments := []string{
		m.styles.statusSeg.Render(fmt.Sprintf("active %d", reg.ActiveCount())),
		m.styles.statusSeg.Render(fmt.Sprintf("stored %d", reg.FinalizedCount())),
		m.styles.statusSeg.Render(fmt.Sprintf("up %s", m.engine.Elapsed().Round(time.Second))),
	}
	if m.toastMessage != "" {
		segments = append(segments, m.styles.toast.Render(m.toastMessage))
	} else {
		segments = append(segments, m.styles.statusHint.Render("F1 help · ctrl+o last report · ctrl+c quit"))
	}
	return m.styles.statusBar.Render(strings.Join(segments, ""))
}
