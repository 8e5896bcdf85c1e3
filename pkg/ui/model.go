package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/gridview/pkg/debug"
	"github.com/vanderheijden86/gridview/pkg/grid"
	"github.com/vanderheijden86/gridview/pkg/loader"
	"github.com/vanderheijden86/gridview/pkg/model"
	"github.com/vanderheijden86/gridview/pkg/view"
	"github.com/vanderheijden86/gridview/pkg/watcher"
)

// chromeLines is the fixed vertical overhead around the row area:
// title, column header, stats line, status bar, filter line.
const chromeLines = 5

// skeletonRowLimit caps how many placeholder rows are drawn below the
// loaded prefix while a chunk is in flight.
const skeletonRowLimit = 3

// Options configure the parts of the TUI that live outside the grid
// controller.
type Options struct {
	Title          string
	FilterDebounce time.Duration
	ShowStats      bool
	// FixedViewportHeight pins the row area to a line count instead of
	// following the terminal size. 0 follows the terminal.
	FixedViewportHeight int
	// Watcher, when set, triggers a live reload whenever the backing
	// file changes on disk.
	Watcher *watcher.Watcher
	// Reload rebuilds the loader from the data source. Required when
	// Watcher is set.
	Reload func(ctx context.Context) (*loader.PrefixLoader, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// chunkLoadedMsg carries the result of an in-flight chunk fetch.
type chunkLoadedMsg struct {
	records []model.Record
	err     error
}

// filterDebounceTickMsg fires after the debounce delay; stale ticks are
// recognized by generation and dropped.
type filterDebounceTickMsg struct {
	gen int
}

// FileChangedMsg is sent when the backing data file changes on disk.
type FileChangedMsg struct{}

// dataReloadedMsg carries a freshly built loader after a live reload.
type dataReloadedMsg struct {
	loader *loader.PrefixLoader
	err    error
}

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes
// ready even if the terminal doesn't send WindowSizeMsg promptly.
type ReadyTimeoutMsg struct{}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after
// 100ms. Some terminals (tmux, SSH) are slow to report their size.
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

// WatchFileCmd returns a command that waits for a file change and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func filterDebounceCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return filterDebounceTickMsg{gen: gen}
	})
}

func fetchChunkCmd(fetch func(context.Context) ([]model.Record, error)) tea.Cmd {
	return func() tea.Msg {
		records, err := fetch(context.Background())
		return chunkLoadedMsg{records: records, err: err}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MODEL
// ══════════════════════════════════════════════════════════════════════════════

// Model is the Bubble Tea model for the record grid.
type Model struct {
	ctrl *grid.Controller
	opts Options

	filterInput textinput.Model
	spin        spinner.Model

	width  int
	height int
	ready  bool

	// cursor is the selected row's index within the view sequence.
	cursor int

	filterFocused bool
	filterGen     int

	showHelp  bool
	showStats bool

	flash     string
	reloading bool
	quitting  bool
}

// New builds the TUI model around an initialized controller.
func New(ctrl *grid.Controller, opts Options) Model {
	if opts.FilterDebounce <= 0 {
		opts.FilterDebounce = watcher.DefaultDebounceDuration
	}
	if opts.Title == "" {
		opts.Title = "gv"
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter id, name, status"
	ti.Prompt = "/"
	ti.PromptStyle = FilterPromptStyle
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = SpinnerStyle

	return Model{
		ctrl:        ctrl,
		opts:        opts,
		filterInput: ti,
		spin:        sp,
		showStats:   opts.ShowStats,
	}
}

// Init starts the ready timeout and, when configured, the file watcher
// wait loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ReadyTimeoutCmd()}
	if m.opts.Watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
	}
	return tea.Batch(cmds...)
}

// bodyHeight is the number of terminal lines available for rows.
func (m Model) bodyHeight() int {
	if m.opts.FixedViewportHeight > 0 {
		return m.opts.FixedViewportHeight
	}
	h := m.height - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ctrl.SetViewportHeight(m.bodyHeight())
		m.clampCursor()
		return m, m.maybeLoadCmd()

	case ReadyTimeoutMsg:
		if !m.ready {
			// Fall back to a conservative size until the terminal
			// reports a real one.
			m.width = 80
			m.height = 24
			m.ready = true
			m.ctrl.SetViewportHeight(m.bodyHeight())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Frame().IsLoading && !m.reloading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case chunkLoadedMsg:
		return m.handleChunkLoaded(msg)

	case filterDebounceTickMsg:
		if msg.gen != m.filterGen {
			return m, nil
		}
		m.ctrl.OnFilterChange(m.filterInput.Value())
		m.cursor = 0
		return m, m.maybeLoadCmd()

	case FileChangedMsg:
		return m.handleFileChanged()

	case dataReloadedMsg:
		return m.handleDataReloaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleChunkLoaded(msg chunkLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		debug.Log("chunk load failed: %v", msg.err)
		m.ctrl.FailLoad(msg.err)
		return m, nil
	}
	if err := m.ctrl.CommitLoad(msg.records); err != nil {
		debug.Log("chunk commit rejected: %v", err)
		return m, nil
	}
	// Growing the prefix can re-arm the trigger immediately when the
	// user is parked at the bottom.
	return m, m.maybeLoadCmd()
}

func (m Model) handleFileChanged() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}
	if m.opts.Watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
	}
	if m.opts.Reload == nil || m.reloading {
		return m, tea.Batch(cmds...)
	}
	debug.Log("data file changed, reloading")
	m.reloading = true
	m.flash = "data file changed, reloading"
	reload := m.opts.Reload
	cmds = append(cmds,
		m.spin.Tick,
		func() tea.Msg {
			l, err := reload(context.Background())
			return dataReloadedMsg{loader: l, err: err}
		},
	)
	return m, tea.Batch(cmds...)
}

func (m Model) handleDataReloaded(msg dataReloadedMsg) (tea.Model, tea.Cmd) {
	m.reloading = false
	if msg.err != nil {
		debug.Log("reload failed: %v", msg.err)
		m.flash = fmt.Sprintf("reload failed: %v", msg.err)
		return m, nil
	}
	m.ctrl.SwapLoader(msg.loader)
	m.cursor = 0
	m.flash = "reloaded"
	return m, m.maybeLoadCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keypress consumes the transient flash message.
	m.flash = ""

	if m.showHelp {
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			m.showHelp = false
			return m, nil
		}
	}

	if m.filterFocused {
		return m.handleFilterKey(msg)
	}

	vp := m.bodyHeight()

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.filterFocused = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "j", "down":
		return m.moveCursor(1)
	case "k", "up":
		return m.moveCursor(-1)
	case "ctrl+d":
		return m.moveCursor(vp / 2)
	case "ctrl+u":
		return m.moveCursor(-(vp / 2))
	case "pgdown":
		return m.moveCursor(vp)
	case "pgup":
		return m.moveCursor(-vp)
	case "g", "home":
		return m.setCursor(0)
	case "G", "end":
		return m.setCursor(m.ctrl.Frame().Matched - 1)

	case "1":
		return m.applySort(view.SortKeyID)
	case "2":
		return m.applySort(view.SortKeyName)
	case "3":
		return m.applySort(view.SortKeyValue)
	case "s":
		next := (m.ctrl.SortKey() + 1) % view.NumSortKeys
		return m.applySort(next)

	case "t":
		m.showStats = !m.showStats
		return m, nil

	case "y":
		return m.yankSelected()

	case "r":
		if fetch, ok := m.ctrl.RetryLoad(); ok {
			m.flash = "retrying"
			return m, tea.Batch(m.spin.Tick, fetchChunkCmd(fetch))
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc", "enter":
		m.filterFocused = false
		m.filterInput.Blur()
		return m, nil
	case "ctrl+u":
		m.filterInput.SetValue("")
		m.filterGen++
		return m, filterDebounceCmd(m.opts.FilterDebounce, m.filterGen)
	}

	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() == before {
		return m, cmd
	}
	// Each keystroke restarts the debounce window; only the newest
	// generation survives to trigger a re-derive.
	m.filterGen++
	return m, tea.Batch(cmd, filterDebounceCmd(m.opts.FilterDebounce, m.filterGen))
}

func (m Model) applySort(key view.SortKey) (tea.Model, tea.Cmd) {
	m.ctrl.OnSortChange(key)
	m.cursor = 0
	return m, m.maybeLoadCmd()
}

func (m Model) yankSelected() (tea.Model, tea.Cmd) {
	f := m.ctrl.Frame()
	idx := m.cursor - f.StartIndex
	if idx < 0 || idx >= len(f.Visible) {
		return m, nil
	}
	r := f.Visible[idx]
	line := fmt.Sprintf("%d\t%s\t%d\t%s", r.ID, r.Name, r.Value, r.Status)
	if err := clipboard.WriteAll(line); err != nil {
		m.flash = fmt.Sprintf("clipboard: %v", err)
		return m, nil
	}
	m.flash = fmt.Sprintf("copied row %d", r.ID)
	return m, nil
}

// moveCursor shifts the selection and scrolls just enough to keep it
// on screen.
func (m Model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	return m.setCursor(m.cursor + delta)
}

func (m Model) setCursor(idx int) (tea.Model, tea.Cmd) {
	matched := m.ctrl.Frame().Matched
	if idx < 0 {
		idx = 0
	}
	if idx > matched-1 {
		idx = matched - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.cursor = idx

	vp := m.bodyHeight()
	rh := m.ctrl.RowHeight()
	scroll := m.ctrl.ScrollOffset()
	top := scroll / rh
	if m.cursor < top {
		m.ctrl.OnScroll(m.cursor * rh)
	} else if m.cursor >= top+vp {
		m.ctrl.OnScroll((m.cursor - vp + 1) * rh)
	}
	return m, m.maybeLoadCmd()
}

func (m *Model) clampCursor() {
	matched := m.ctrl.Frame().Matched
	if m.cursor > matched-1 {
		m.cursor = matched - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// maybeLoadCmd starts a chunk fetch when the scroll position crosses
// the near-bottom trigger and no load is already in flight.
func (m Model) maybeLoadCmd() tea.Cmd {
	if !m.ctrl.ShouldLoad() {
		return nil
	}
	fetch, ok := m.ctrl.RequestLoad()
	if !ok {
		return nil
	}
	debug.Log("chunk fetch requested at scroll=%d", m.ctrl.ScrollOffset())
	return tea.Batch(m.spin.Tick, fetchChunkCmd(fetch))
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return renderHelp(m.width)
	}

	f := m.ctrl.Frame()
	var b strings.Builder

	b.WriteString(m.renderTitle(f))
	b.WriteByte('\n')
	b.WriteString(m.renderColumnHeader(f))
	b.WriteByte('\n')
	b.WriteString(m.renderBody(f))
	b.WriteString(m.renderStatsLine(f))
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar(f))
	b.WriteByte('\n')
	b.WriteString(m.renderFilterLine(f))

	return b.String()
}

func (m Model) renderTitle(f grid.Frame) string {
	title := fmt.Sprintf("%s · %s records", m.opts.Title, formatCount(f.TotalAvailable))
	return TitleStyle.Render(truncate(title, m.width))
}

// Column layout: cursor(2) id(7) gap name(flex) gap value(8) gap status(9) scrollbar(1)
func (m Model) nameWidth() int {
	w := m.width - 2 - 7 - 1 - 1 - 8 - 1 - 9 - 1
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) renderColumnHeader(f grid.Frame) string {
	label := func(key view.SortKey, text string, width int, alignLeft bool) string {
		if f.SortKey == key {
			text += f.SortDirection.Indicator()
			if alignLeft {
				return ActiveSortStyle.Render(padRight(text, width))
			}
			return ActiveSortStyle.Render(padLeft(text, width))
		}
		if alignLeft {
			return ColumnHeaderStyle.Render(padRight(text, width))
		}
		return ColumnHeaderStyle.Render(padLeft(text, width))
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(label(view.SortKeyID, "ID", 7, false))
	b.WriteByte(' ')
	b.WriteString(label(view.SortKeyName, "NAME", m.nameWidth(), true))
	b.WriteByte(' ')
	b.WriteString(label(view.SortKeyValue, "VALUE", 8, false))
	b.WriteByte(' ')
	b.WriteString(ColumnHeaderStyle.Render(padRight("STATUS", 9)))
	return b.String()
}

func (m Model) renderBody(f grid.Frame) string {
	vp := m.bodyHeight()
	rh := m.ctrl.RowHeight()
	top := m.ctrl.ScrollOffset() / rh
	bar := renderScrollbar(f, vp, m.ctrl.ScrollOffset())

	rowWidth := m.width - 1

	var b strings.Builder
	skeletons := 0
	for line := 0; line < vp; line++ {
		seqIdx := top + line
		winIdx := seqIdx - f.StartIndex

		var content string
		switch {
		case winIdx >= 0 && winIdx < len(f.Visible):
			content = m.renderRow(f.Visible[winIdx], seqIdx == m.cursor)
		case seqIdx >= f.Matched && f.IsLoading && f.Query == "" && skeletons < skeletonRowLimit:
			content = m.renderSkeletonRow()
			skeletons++
		case line == 0 && f.Matched == 0:
			content = m.renderEmptyNotice(f)
		}
		// Pad to the scrollbar column; lipgloss.Width ignores the
		// styling escapes runewidth would miscount.
		if gap := rowWidth - lipgloss.Width(content); gap > 0 {
			content += strings.Repeat(" ", gap)
		}
		b.WriteString(content)
		b.WriteString(bar[line])
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderRow(r model.Record, selected bool) string {
	var b strings.Builder
	if selected {
		b.WriteString(SelectedRowStyle.Render("▌ "))
	} else {
		b.WriteString("  ")
	}

	style := RowStyle
	if selected {
		style = SelectedRowStyle
	}
	b.WriteString(style.Render(padLeft(itoa(r.ID), 7)))
	b.WriteByte(' ')
	b.WriteString(style.Render(padRight(r.Name, m.nameWidth())))
	b.WriteByte(' ')
	b.WriteString(style.Render(padLeft(itoa(r.Value), 8)))
	b.WriteByte(' ')
	b.WriteString(RenderStatusBadge(r.Status))
	return b.String()
}

func (m Model) renderSkeletonRow() string {
	width := 2 + 7 + 1 + m.nameWidth() + 1 + 8 + 1 + 9
	return SkeletonStyle.Render(strings.Repeat("░", width))
}

func (m Model) renderEmptyNotice(f grid.Frame) string {
	if f.Query != "" {
		return EmptyStyle.Render(fmt.Sprintf("  no rows match %q", f.Query))
	}
	return EmptyStyle.Render("  no rows")
}

func (m Model) renderStatsLine(f grid.Frame) string {
	if !m.showStats {
		return ""
	}
	return Summarize(f.Visible).Render()
}

func (m Model) renderStatusBar(f grid.Frame) string {
	var parts []string

	if f.Err != nil {
		parts = append(parts, StatusBarErrStyle.Render(fmt.Sprintf("load failed: %v (r to retry)", f.Err)))
	} else if f.IsLoading || m.reloading {
		parts = append(parts, m.spin.View()+" loading")
	}

	pos := ""
	if f.Matched > 0 {
		pos = fmt.Sprintf("%s/%s", formatCount(m.cursor+1), formatCount(f.Matched))
	}
	loaded := fmt.Sprintf("loaded %s of %s", formatCount(f.TotalLoaded), formatCount(f.TotalAvailable))
	if !f.HasMore && f.Err == nil {
		loaded += " (all)"
	}
	if pos != "" {
		parts = append(parts, StatusBarStyle.Render(pos))
	}
	parts = append(parts, StatusBarStyle.Render(loaded))
	if f.Query != "" {
		parts = append(parts, StatusBarStyle.Render(fmt.Sprintf("%s matched", formatCount(f.Matched))))
	}
	if m.flash != "" {
		parts = append(parts, FlashStyle.Render(m.flash))
	}

	return truncate(strings.Join(parts, StatusBarStyle.Render(" · ")), m.width)
}

func (m Model) renderFilterLine(f grid.Frame) string {
	if m.filterFocused {
		return m.filterInput.View()
	}
	if f.Query != "" {
		return StatusBarStyle.Render(fmt.Sprintf("/%s", f.Query)) +
			StatusBarStyle.Render("  (/ to edit)")
	}
	return StatusBarStyle.Render("/ filter · 1-3 sort · ? help")
}

// renderScrollbar maps the window geometry onto a one-cell-wide track.
// One string per body line.
func renderScrollbar(f grid.Frame, lines, scroll int) []string {
	out := make([]string, lines)
	if f.TotalHeight <= 0 || lines <= 0 {
		for i := range out {
			out[i] = " "
		}
		return out
	}

	vpHeight := lines
	if f.TotalHeight <= vpHeight {
		for i := range out {
			out[i] = " "
		}
		return out
	}

	thumbLen := vpHeight * vpHeight / f.TotalHeight
	if thumbLen < 1 {
		thumbLen = 1
	}
	maxScroll := f.TotalHeight - vpHeight
	thumbStart := 0
	if maxScroll > 0 {
		thumbStart = scroll * (vpHeight - thumbLen) / maxScroll
	}
	for i := range out {
		if i >= thumbStart && i < thumbStart+thumbLen {
			out[i] = ScrollbarThumbStyle.Render("┃")
		} else {
			out[i] = ScrollbarTrackStyle.Render("│")
		}
	}
	return out
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
