// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ics-connect/connect/lib/app"
	"github.com/ics-connect/connect/lib/clock"
	"github.com/ics-connect/connect/lib/dom"
)

// domChangedMsg signals that the document mutated and the view
// should repaint.
type domChangedMsg struct{}

// flowDoneMsg signals that a dispatched interaction settled.
type flowDoneMsg struct{}

// initDoneMsg carries the controller's Init result.
type initDoneMsg struct{ err error }

// inputField maps a document input to its on-screen label. Only
// fields present in the document and not hidden are focusable.
var inputFields = []struct{ id, label string }{
	{"q", "search"},
	{"start", "from"},
	{"to", "until"},
	{"limit", "limit"},
	{"club-filter", "club"},
	{"date-filter", "when"},
	{"login_display_name", "name"},
	{"login_email", "email"},
	{"display_name", "rsvp name"},
	{"email", "rsvp email"},
	{"join_code", "join code"},
}

// Model hosts the controller's document in a bubbletea program. The
// document is the single source of truth: key input becomes document
// events, and every frame renders straight from the tree.
type Model struct {
	ctx   context.Context
	doc   *dom.Document
	ctrl  *app.App
	theme Theme
	keys  KeyMap
	clk   clock.Clock

	program *atomic.Pointer[tea.Program]

	width  int
	height int

	// focusID is the id of the focused input, or "" when the results
	// list has focus.
	focusID  string
	selected int

	filtering bool
	filter    string

	status      string
	statusLevel slog.Level
	statusSeq   uint64

	initialized bool
}

// NewModel creates the terminal model for an already-constructed
// controller and its document. The controller's Init runs as the
// program's first command.
func NewModel(ctx context.Context, doc *dom.Document, ctrl *app.App) *Model {
	m := &Model{
		ctx:     ctx,
		doc:     doc,
		ctrl:    ctrl,
		theme:   DefaultTheme,
		keys:    DefaultKeyMap,
		clk:     clock.Real(),
		program: &atomic.Pointer[tea.Program]{},
		focusID: "q",
		width:   100,
		height:  30,
	}
	doc.Observe(func() {
		if p := m.program.Load(); p != nil {
			p.Send(domChangedMsg{})
		}
	})
	return m
}

// SetProgram wires the running program so document mutations and log
// records trigger repaints. Call after tea.NewProgram, before Run
// returns.
func (m *Model) SetProgram(program *tea.Program) {
	m.program.Store(program)
}

// SetClock replaces the status-bar fade clock. Tests pin it.
func (m *Model) SetClock(clk clock.Clock) { m.clk = clk }

// Init implements tea.Model: it starts the controller.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.ctrl.Init(m.ctx)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case initDoneMsg:
		m.initialized = true
		if msg.err != nil {
			// The controller already surfaced the banner; the status
			// bar carries the detail.
			return m, m.showStatus(fmt.Sprintf("init: %v", msg.err), slog.LevelError)
		}
	case domChangedMsg, flowDoneMsg:
		// Repaint only.
	case logRecordMsg:
		return m, m.showStatus(msg.Summary, msg.Level)
	case logFadeMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) showStatus(text string, level slog.Level) tea.Cmd {
	m.status = text
	m.statusLevel = level
	m.statusSeq++
	seq := m.statusSeq
	after := m.clk.After(logFadeDelay)
	return func() tea.Msg {
		<-after
		return logFadeMsg{seq: seq}
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.updateFilterKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.focusID = ""
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.NextResult):
		m.focusID = ""
		if n := len(m.visibleResults()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevResult):
		m.focusID = ""
		if n := len(m.visibleResults()); n > 0 {
			m.selected = (m.selected + n - 1) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.clickCmd(m.doc.ElementByID("load-more"))
	case key.Matches(msg, m.keys.CancelResv):
		return m, m.clickCmd(m.doc.ElementByID("cancel-reservation"))
	case key.Matches(msg, m.keys.Logout):
		return m, m.clickCmd(m.doc.ElementByID("logout"))
	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.OpenResult):
		return m, m.submitCmd()
	case key.Matches(msg, m.keys.ClearInput):
		if n := m.focusedInput(); n != nil {
			n.SetValue("")
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if n := m.focusedInput(); n != nil {
			v := n.Value()
			if v != "" {
				runes := []rune(v)
				n.SetValue(string(runes[:len(runes)-1]))
			}
		}
	case tea.KeyRunes, tea.KeySpace:
		if n := m.focusedInput(); n != nil {
			if msg.Type == tea.KeySpace {
				n.SetValue(n.Value() + " ")
			} else {
				n.SetValue(n.Value() + string(msg.Runes))
			}
		}
	}
	return m, nil
}

func (m *Model) updateFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if m.filter != "" {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
	case tea.KeySpace:
		m.filter += " "
	default:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}
	m.selected = 0
	return m, nil
}

// clickCmd dispatches a click on the node from a command goroutine;
// controller flows block on the network and must not stall the
// update loop.
func (m *Model) clickCmd(target *dom.Node) tea.Cmd {
	if target == nil {
		return nil
	}
	doc := m.doc
	return func() tea.Msg {
		doc.Click(target)
		return flowDoneMsg{}
	}
}

// submitCmd dispatches the interaction Enter means right now: open
// the selected result when the list has focus, otherwise submit the
// form containing the focused input.
func (m *Model) submitCmd() tea.Cmd {
	if m.focusID == "" {
		cards := m.visibleResults()
		if len(cards) == 0 || m.selected >= len(cards) {
			return nil
		}
		return m.clickCmd(cards[m.selected].Query("a[href]"))
	}
	input := m.focusedInput()
	if input == nil {
		return nil
	}
	form := input.Closest("form")
	if form == nil {
		return nil
	}
	doc := m.doc
	return func() tea.Msg {
		doc.Dispatch(&dom.Event{Type: dom.Submit, Target: form})
		return flowDoneMsg{}
	}
}

func (m *Model) focusedInput() *dom.Node {
	if m.focusID == "" {
		return nil
	}
	return m.doc.ElementByID(m.focusID)
}

// focusable lists the ids of inputs currently present and visible,
// in field order.
func (m *Model) focusable() []string {
	var out []string
	for _, field := range inputFields {
		n := m.doc.ElementByID(field.id)
		if n != nil && visible(n) {
			out = append(out, field.id)
		}
	}
	return out
}

func (m *Model) cycleFocus(delta int) {
	ids := m.focusable()
	if len(ids) == 0 {
		m.focusID = ""
		return
	}
	current := -1
	for i, id := range ids {
		if id == m.focusID {
			current = i
			break
		}
	}
	if current == -1 {
		m.focusID = ids[0]
		return
	}
	m.focusID = ids[(current+delta+len(ids))%len(ids)]
}

// visible reports whether the node and all its ancestors lack the
// hidden class.
func visible(n *dom.Node) bool {
	for p := n; p != nil; p = p.Parent() {
		if p.HasClass("hidden") {
			return false
		}
	}
	return true
}

// resultCards returns the cards under #results in document order.
func (m *Model) resultCards() []*dom.Node {
	results := m.doc.ElementByID("results")
	if results == nil {
		return nil
	}
	return results.Children()
}

// visibleResults applies the fuzzy filter to the result cards.
func (m *Model) visibleResults() []*dom.Node {
	cards := m.resultCards()
	if strings.TrimSpace(m.filter) == "" {
		return cards
	}
	rows := make([]string, len(cards))
	for i, card := range cards {
		rows[i] = cardText(card)
	}
	indices := filterIndices(rows, m.filter)
	out := make([]*dom.Node, len(indices))
	for i, idx := range indices {
		out[i] = cards[idx]
	}
	return out
}

// highlightMatches renders line with the fuzzy-matched runes on the
// match background. Positions come from re-matching the rendered
// line, so truncation cannot desynchronize them.
func (m *Model) highlightMatches(line string, base lipgloss.Style) string {
	result := FuzzyMatch(line, []rune(m.filter), nil)
	if len(result.Positions) == 0 {
		return base.Render(line)
	}
	matched := make(map[int]struct{}, len(result.Positions))
	for _, position := range result.Positions {
		matched[position] = struct{}{}
	}
	matchStyle := base.Background(m.theme.MatchBackground)
	var b strings.Builder
	for i, r := range []rune(line) {
		if _, ok := matched[i]; ok {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// cardText flattens a card's title and meta line for filtering.
func cardText(card *dom.Node) string {
	var parts []string
	if link := card.Query("a[href]"); link != nil {
		parts = append(parts, link.Text())
	}
	if meta := card.Query(".card__meta"); meta != nil {
		parts = append(parts, meta.Text())
	}
	return strings.Join(parts, " ")
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	header := m.style().Foreground(m.theme.HeaderForeground).Bold(true).Render("ICS Connect")
	if chip := m.doc.ElementByID("auth-chip"); chip != nil && visible(chip) {
		if name := m.doc.ElementByID("auth-name"); name != nil && name.Text() != "" {
			header += m.style().Foreground(m.theme.FaintText).Render("  signed in: " + name.Text())
		}
	}
	b.WriteString(header + "\n")
	b.WriteString(m.style().Foreground(m.theme.BorderColor).Render(strings.Repeat("─", max(10, m.width))) + "\n")

	if banner := m.doc.ElementByID("error-banner"); banner != nil && visible(banner) && banner.Text() != "" {
		style := m.style().
			Foreground(m.theme.BannerForeground).
			Background(m.theme.BannerBackground).
			Padding(0, 1)
		b.WriteString(style.Render(banner.Text()) + "\n")
	}

	b.WriteString(m.viewInputs() + "\n")
	b.WriteString(m.viewResults())
	b.WriteString(m.viewDetails())
	b.WriteString(m.viewReservations())
	b.WriteString(m.viewStatusBar())
	return b.String()
}

func (m *Model) style() lipgloss.Style {
	return lipgloss.NewStyle()
}

func (m *Model) viewInputs() string {
	var parts []string
	for _, field := range inputFields {
		n := m.doc.ElementByID(field.id)
		if n == nil || !visible(n) {
			continue
		}
		label := m.style().Foreground(m.theme.FaintText).Render(field.label + ":")
		value := n.Value()
		if value == "" {
			value = " "
		}
		valueStyle := m.style().Foreground(m.theme.NormalText)
		if field.id == m.focusID {
			valueStyle = valueStyle.
				Foreground(m.theme.FocusBorder).
				Underline(true)
		}
		parts = append(parts, label+valueStyle.Render(value))
	}
	line := strings.Join(parts, "  ")
	return ansi.Truncate(line, max(10, m.width), "…")
}

func (m *Model) viewResults() string {
	cards := m.visibleResults()
	var b strings.Builder
	title := "Results"
	if m.filtering || m.filter != "" {
		title += "  /" + m.filter
	}
	b.WriteString(m.style().Foreground(m.theme.HeaderForeground).Render(title) + "\n")
	if len(cards) == 0 {
		b.WriteString(m.style().Foreground(m.theme.FaintText).Render("  no events") + "\n")
		return b.String()
	}
	if m.selected >= len(cards) {
		m.selected = len(cards) - 1
	}
	for i, card := range cards {
		line := ansi.Truncate(cardText(card), max(10, m.width-2), "…")
		style := m.style().Foreground(m.theme.NormalText)
		prefix := "  "
		if m.focusID == "" && i == m.selected {
			style = m.style().
				Foreground(m.theme.SelectedForeground).
				Background(m.theme.SelectedBackground)
			prefix = "> "
		}
		if m.filter != "" {
			b.WriteString(prefix + m.highlightMatches(line, style) + "\n")
		} else {
			b.WriteString(prefix + style.Render(line) + "\n")
		}
	}
	if loadMore := m.doc.ElementByID("load-more"); loadMore != nil && !loadMore.Disabled() {
		b.WriteString(m.style().Foreground(m.theme.FaintText).Render("  more available (ctrl+l)") + "\n")
	}
	return b.String()
}

func (m *Model) viewDetails() string {
	title := m.doc.ElementByID("event-title")
	if title == nil || title.Text() == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + m.style().Foreground(m.theme.HeaderForeground).Bold(true).Render(title.Text()) + "\n")
	for _, id := range []string{"event-datetime", "event-location", "event-stats"} {
		if n := m.doc.ElementByID(id); n != nil && n.Text() != "" {
			b.WriteString(m.style().Foreground(m.theme.FaintText).Render(n.Text()) + "\n")
		}
	}
	if joinRow := m.doc.ElementByID("join-code-row"); joinRow != nil && visible(joinRow) {
		b.WriteString(m.style().Foreground(m.theme.StatusWaitlisted).Render("join code required") + "\n")
	}
	if desc := m.doc.ElementByID("event-desc"); desc != nil && desc.Text() != "" {
		b.WriteString(renderMarkdown(desc.Text(), m.theme, max(20, m.width-2)) + "\n")
	}
	if result := m.doc.ElementByID("rsvp-result"); result != nil && result.Text() != "" {
		b.WriteString(m.style().Foreground(m.theme.StatusConfirmed).Render(result.Text()) + "\n")
	}
	return b.String()
}

func (m *Model) viewReservations() string {
	my := m.doc.ElementByID("my-reservation")
	if my == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + m.style().Foreground(m.theme.HeaderForeground).Render("My reservations") + "\n")
	rows := my.QueryAll("li")
	if len(rows) == 0 {
		text := my.Text()
		if text == "" {
			text = "No reservation yet."
		}
		b.WriteString(m.style().Foreground(m.theme.FaintText).Render("  "+text) + "\n")
	} else {
		for _, row := range rows {
			if span := row.Query("span"); span != nil {
				b.WriteString(m.style().Foreground(m.theme.NormalText).Render("  "+span.Text()) + "\n")
			}
		}
	}
	if cancel := m.doc.ElementByID("cancel-reservation"); cancel != nil && visible(cancel) {
		label := cancel.Text()
		if label == "" {
			label = "Cancel reservation"
		}
		b.WriteString(m.style().Foreground(m.theme.FaintText).Render("  "+label+" (ctrl+x)") + "\n")
	}
	return b.String()
}

func (m *Model) viewStatusBar() string {
	if m.status != "" {
		color := m.theme.StatusWaitlisted
		if m.statusLevel >= slog.LevelError {
			color = m.theme.BannerBackground
		}
		return "\n" + m.style().Foreground(color).Render(m.status)
	}
	if !m.initialized {
		return "\n" + m.style().Foreground(m.theme.HelpText).Render("loading…")
	}
	help := []string{
		m.keys.NextField.Help().Key + " " + m.keys.NextField.Help().Desc,
		m.keys.Submit.Help().Key + " " + m.keys.Submit.Help().Desc,
		m.keys.Filter.Help().Key + " " + m.keys.Filter.Help().Desc,
		m.keys.LoadMore.Help().Key + " " + m.keys.LoadMore.Help().Desc,
		m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
	}
	return "\n" + m.style().Foreground(m.theme.HelpText).Render(strings.Join(help, " • "))
}
