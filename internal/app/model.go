package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/butterflies"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/summary"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/ui"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

// bridgeTimeout bounds each call that may reach the shell bridge.
const bridgeTimeout = 5 * time.Second

// PanelFocus tracks which panel has keyboard focus.
type PanelFocus int

const (
	FocusGarden PanelFocus = iota
	FocusSteps
)

// Garden is the habit service the TUI drives.
type Garden interface {
	Habits() ([]garden.Habit, error)
	Add(name string, icon garden.Icon) (garden.Habit, error)
	Complete(ctx context.Context, id string) (garden.Completion, error)
	Delete(ctx context.Context, id string) error
	SetReminder(ctx context.Context, id string, enabled bool, hhmm string) (garden.Habit, error)
	RolloverIfNeeded(ctx context.Context) (garden.RolloverResult, error)
}

// Background toggles background step tracking.
type Background interface {
	Toggle(ctx context.Context) error
	State() steps.State
}

// ButterflyCounter lists the collected butterflies.
type ButterflyCounter interface {
	All() ([]butterflies.Butterfly, error)
}

// Deps are the collaborators the TUI reads from and acts on. Garden and
// Steps are required; the rest may be nil.
type Deps struct {
	Garden      Garden
	Steps       summary.DayReader
	Summary     *summary.Sources
	Butterflies ButterflyCounter
	Background  Background
	Mode        func() steps.Mode
	Name        string
	StepGoal    int
	Logger      *zap.Logger
	Now         func() time.Time
}

// Model is the root bubbletea model for the bloom TUI.
type Model struct {
	deps Deps

	// Garden
	habits        []garden.Habit
	selectedHabit int
	adding        bool
	input         textinput.Model
	newIcon       garden.Icon

	// Steps
	day        steps.DayRecord
	mode       steps.Mode
	background steps.State
	goalBar    progress.Model

	// Header
	stats       *summary.Stats
	butterflies int

	// UI state
	focusedPanel PanelFocus
	width        int
	height       int
	loaded       bool

	// Errors
	errorMessage   string
	errorTransient bool

	// Status
	statusText string
}

// New creates a Model wired to deps.
func New(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.StepGoal <= 0 {
		deps.StepGoal = 10000
	}

	input := textinput.New()
	input.Placeholder = "New habit name"
	input.CharLimit = 60
	input.Width = 30

	return Model{
		deps:         deps,
		input:        input,
		goalBar:      progress.New(progress.WithGradient(ui.GoalBarStart, ui.GoalBarFinish), progress.WithoutPercentage()),
		focusedPanel: FocusGarden,
		statusText:   "Loading garden...",
	}
}

// Init checks for a day rollover, then loads the panels and starts the tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(rolloverCmd(m.deps.Garden), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// loadCmd reads every panel's data in one pass.
func loadCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		var msg DataLoadedMsg
		var errs []error

		habits, err := deps.Garden.Habits()
		errs = append(errs, err)
		msg.Habits = habits

		day, err := deps.Steps.Today()
		errs = append(errs, err)
		msg.Day = day

		if deps.Summary != nil {
			st, err := deps.Summary.Collect()
			errs = append(errs, err)
			if err == nil {
				msg.Stats = &st
			}
		}
		if deps.Butterflies != nil {
			all, err := deps.Butterflies.All()
			errs = append(errs, err)
			msg.Butterflies = len(all)
		}
		if deps.Mode != nil {
			msg.Mode = deps.Mode()
		}
		if deps.Background != nil {
			msg.Background = deps.Background.State()
		}

		msg.Err = errors.Join(errs...)
		return msg
	}
}

func rolloverCmd(g Garden) tea.Cmd {
	return func() tea.Msg {
		res, err := g.RolloverIfNeeded(context.Background())
		return RolloverMsg{Result: res, Err: err}
	}
}

func addHabitCmd(g Garden, name string, icon garden.Icon) tea.Cmd {
	return func() tea.Msg {
		h, err := g.Add(name, icon)
		return HabitAddedMsg{Habit: h, Err: err}
	}
}

func completeHabitCmd(g Garden, h garden.Habit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeTimeout)
		defer cancel()
		c, err := g.Complete(ctx, h.ID)
		return HabitCompletedMsg{Name: h.Name, Completion: c, Err: err}
	}
}

func deleteHabitCmd(g Garden, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeTimeout)
		defer cancel()
		return HabitDeletedMsg{ID: id, Err: g.Delete(ctx, id)}
	}
}

func reminderCmd(g Garden, h garden.Habit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeTimeout)
		defer cancel()
		at := h.ReminderTime
		if at == "" {
			at = DefaultRemindAt
		}
		updated, err := g.SetReminder(ctx, h.ID, !h.ReminderEnabled, at)
		return ReminderSetMsg{Habit: updated, Err: err}
	}
}

func toggleBackgroundCmd(b Background) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bridgeTimeout)
		defer cancel()
		err := b.Toggle(ctx)
		return BackgroundToggledMsg{State: b.State(), Err: err}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.goalBar.Width = max(10, m.stepsPanelWidth()-6)
		return m, nil

	case TickMsg:
		return m, tea.Batch(rolloverCmd(m.deps.Garden), tickCmd())

	case RolloverMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("Day rollover failed", zap.Error(msg.Err))
			return m, tea.Batch(m.showError(msg.Err), loadCmd(m.deps))
		}
		if msg.Result.Ran {
			m.statusText = fmt.Sprintf("A new day: %d habit(s) start over", msg.Result.Reset)
		}
		return m, loadCmd(m.deps)

	case DataLoadedMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("Failed to refresh panels", zap.Error(msg.Err))
		}
		if msg.Habits != nil || msg.Err == nil {
			m.habits = msg.Habits
		}
		m.day = msg.Day
		m.stats = msg.Stats
		m.butterflies = msg.Butterflies
		m.mode = msg.Mode
		m.background = msg.Background
		if m.selectedHabit >= len(m.habits) {
			m.selectedHabit = max(0, len(m.habits)-1)
		}
		if !m.loaded {
			m.loaded = true
			m.statusText = "Ready"
		}
		return m, nil

	case HabitAddedMsg:
		if msg.Err != nil {
			return m, m.showError(msg.Err)
		}
		m.statusText = "Planted " + msg.Habit.Name
		m.selectedHabit = len(m.habits)
		return m, loadCmd(m.deps)

	case HabitCompletedMsg:
		if msg.Err != nil {
			return m, m.showError(msg.Err)
		}
		switch c := msg.Completion; {
		case !c.Applied:
			m.statusText = msg.Name + " is already done today"
		case c.Matured:
			m.statusText = fmt.Sprintf("%s %s has matured! +3 🦋", c.Stage.Glyph(), msg.Name)
		default:
			m.statusText = fmt.Sprintf("%s done, %d day streak +1 🦋", msg.Name, c.Streak)
		}
		return m, loadCmd(m.deps)

	case HabitDeletedMsg:
		if msg.Err != nil {
			return m, m.showError(msg.Err)
		}
		m.statusText = "Habit removed"
		return m, loadCmd(m.deps)

	case ReminderSetMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, garden.ErrPermissionDenied) {
				return m, m.showError(errors.New("notifications are not allowed on this device"))
			}
			return m, m.showError(msg.Err)
		}
		if msg.Habit.ReminderEnabled {
			m.statusText = fmt.Sprintf("Reminder for %s every day at %s", msg.Habit.Name, msg.Habit.ReminderTime)
		} else {
			m.statusText = "Reminder for " + msg.Habit.Name + " turned off"
		}
		return m, loadCmd(m.deps)

	case BackgroundToggledMsg:
		m.background = msg.State
		if msg.Err != nil {
			return m, m.showError(msg.Err)
		}
		m.statusText = "Background tracking " + msg.State.String()
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// showError puts err in the error bar until the transient timeout.
func (m *Model) showError(err error) tea.Cmd {
	m.errorMessage = err.Error()
	m.errorTransient = true
	return clearTransientErrorCmd()
}

// handleInputKey handles keys while the add-habit input is open.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC:
		return m, tea.Quit

	case KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil

	case KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		if name == "" {
			return m, nil
		}
		return m, addHabitCmd(m.deps.Garden, name, m.newIcon)

	case KeyCycleIcon:
		icons := garden.Icons()
		m.newIcon = icons[(int(m.newIcon)+1)%len(icons)]
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyTab:
		if m.focusedPanel == FocusGarden {
			m.focusedPanel = FocusSteps
		} else {
			m.focusedPanel = FocusGarden
		}
		return m, nil

	case KeyJ, KeyDown:
		if m.focusedPanel == FocusGarden && m.selectedHabit < len(m.habits)-1 {
			m.selectedHabit++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.focusedPanel == FocusGarden && m.selectedHabit > 0 {
			m.selectedHabit--
		}
		return m, nil

	case KeySpace, KeyEnter:
		if h, ok := m.currentHabit(); ok {
			return m, completeHabitCmd(m.deps.Garden, h)
		}
		return m, nil

	case KeyAdd:
		if m.focusedPanel != FocusGarden {
			return m, nil
		}
		m.adding = true
		m.newIcon = garden.IconLeaf
		return m, m.input.Focus()

	case KeyDelete:
		if h, ok := m.currentHabit(); ok {
			return m, deleteHabitCmd(m.deps.Garden, h.ID)
		}
		return m, nil

	case KeyReminder:
		if h, ok := m.currentHabit(); ok {
			return m, reminderCmd(m.deps.Garden, h)
		}
		return m, nil

	case KeyBackground:
		if m.deps.Background == nil {
			return m, nil
		}
		return m, toggleBackgroundCmd(m.deps.Background)
	}

	return m, nil
}

func (m Model) currentHabit() (garden.Habit, bool) {
	if m.focusedPanel != FocusGarden || m.selectedHabit >= len(m.habits) {
		return garden.Habit{}, false
	}
	return m.habits[m.selectedHabit], true
}

func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + dividers(2) + error(1) + footer(1) + padding
	reserved := 7
	return max(8, m.height-reserved)
}

func (m Model) gardenPanelWidth() int {
	if m.width == 0 {
		return 50
	}
	return max(30, m.width*55/100)
}

func (m Model) stepsPanelWidth() int {
	if m.width == 0 {
		return 40
	}
	return max(24, m.width-m.gardenPanelWidth()-3)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderMainContent())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("BLOOM")

	var greeting string
	if m.deps.Name != "" {
		greeting = ui.GreetingStyle.Render(" · Hi " + m.deps.Name)
	}

	flutter := ui.DimStyle.Render(fmt.Sprintf("  🦋 %s", humanize.Comma(int64(m.butterflies))))
	return title + greeting + flutter
}

func (m Model) renderStatusBar() string {
	status := ui.StatusStyle.Render(m.statusText)
	if m.stats == nil {
		return status
	}
	s := m.stats
	figures := fmt.Sprintf("  Habits %d/%d · Journal %d · Activity %d min",
		s.HabitsCompleted, s.TotalHabits, s.JournalEntries, s.ActivityMinutes)
	return status + ui.DimStyle.Render(figures)
}

func (m Model) renderMainContent() string {
	gardenW := m.gardenPanelWidth()
	stepsW := m.stepsPanelWidth()
	contentH := m.contentHeight()

	gardenLines := strings.Split(m.renderGardenPanel(gardenW, contentH), "\n")
	stepsLines := strings.Split(m.renderStepsPanel(stepsW, contentH), "\n")

	divider := ui.DividerStyle.Render("│")

	var rows []string
	for i := 0; i < contentH; i++ {
		left := strings.Repeat(" ", gardenW)
		if i < len(gardenLines) {
			left = padRight(gardenLines[i], gardenW)
		}
		right := ""
		if i < len(stepsLines) {
			right = stepsLines[i]
		}
		rows = append(rows, left+divider+" "+right)
	}
	return strings.Join(rows, "\n")
}

func (m Model) panelTitle(title string, panel PanelFocus) string {
	if m.focusedPanel == panel {
		return ui.PanelTitleActiveStyle.Render(title)
	}
	return ui.PanelTitleStyle.Render(title)
}

func (m Model) renderGardenPanel(width, height int) string {
	lines := []string{m.panelTitle(fmt.Sprintf("GARDEN (%d)", len(m.habits)), FocusGarden)}

	if m.adding {
		lines = append(lines, "  "+m.newIcon.Glyph()+" "+m.input.View())
		lines = append(lines, ui.DimStyle.Render("  Enter plant · Ctrl+N icon · Esc cancel"))
	}

	if len(m.habits) == 0 && !m.adding {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Your garden is empty."))
		lines = append(lines, ui.DimStyle.Render("  Press a to plant a habit"))
	}

	now := m.deps.Now()
	for i, h := range m.habits {
		check := "○"
		if h.CompletedToday {
			check = ui.DoneStyle.Render("●")
		}
		bell := ""
		if h.ReminderEnabled {
			bell = " ⏰" + h.ReminderTime
		}
		text := fmt.Sprintf("%s %s %s  %s %d d%s", check, h.GrowthStage.Glyph(), h.Icon.Glyph(), h.Name, h.Streak, bell)

		var line string
		if i == m.selectedHabit && m.focusedPanel == FocusGarden {
			line = ui.SelectedStyle.Render("> ") + text
		} else {
			line = "  " + text
		}
		lines = append(lines, truncateToWidth(line, width))

		if i == m.selectedHabit && m.focusedPanel == FocusGarden {
			detail := h.GrowthStage.String()
			if h.RegressionDisabled {
				detail += ", fully grown"
			}
			if h.LastCompletedAt != nil {
				detail += ", last done " + humanize.RelTime(*h.LastCompletedAt, now, "ago", "from now")
			}
			lines = append(lines, ui.DimStyle.Render("    "+detail))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStepsPanel(width, height int) string {
	lines := []string{m.panelTitle("STEPS", FocusSteps)}

	acc := m.day.StepData
	lines = append(lines, "")
	lines = append(lines, ui.StepCountStyle.Render(humanize.Comma(int64(acc.Steps)))+ui.DimStyle.Render(" steps today"))
	lines = append(lines, fmt.Sprintf("%.2f km · %d kcal", acc.Distance, acc.Calories))

	pct := min(1, float64(acc.Steps)/float64(m.deps.StepGoal))
	lines = append(lines, m.goalBar.ViewAs(pct))
	lines = append(lines, ui.DimStyle.Render(fmt.Sprintf("goal %s (%.0f%%)", humanize.Comma(int64(m.deps.StepGoal)), pct*100)))

	lines = append(lines, "")
	switch {
	case m.day.Simulated || m.mode == steps.ModeSimulated:
		lines = append(lines, ui.SimulatedBadgeStyle.Render("◆ SIMULATION MODE"))
		lines = append(lines, ui.DimStyle.Render("  steps are estimated, not measured"))
	case m.mode == steps.ModeSensor:
		lines = append(lines, ui.SensorBadgeStyle.Render("● SENSOR"))
	default:
		lines = append(lines, ui.DimStyle.Render("○ not tracking"))
	}
	if m.deps.Background != nil {
		lines = append(lines, ui.DimStyle.Render("background: "+m.background.String()))
	}

	lines = append(lines, "")
	for _, wl := range wrapText(summary.Quote(m.deps.Now()), max(10, width-2)) {
		lines = append(lines, ui.QuoteStyle.Render(wl))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	if m.focusedPanel == FocusGarden {
		parts = append(parts,
			key("Space", "Done"),
			key("a", "Add"),
			key("d", "Delete"),
			key("r", "Reminder"),
			key("j/k", "Nav"),
		)
	}
	if m.deps.Background != nil {
		parts = append(parts, key("b", "Background"))
	}
	parts = append(parts, key("Tab", "Focus"), key("q", "Quit"))

	return strings.Join(parts, "  ")
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
