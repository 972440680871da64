package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/summary"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (Model, *garden.Service) {
	t.Helper()
	store, err := db.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := garden.NewService(store, shell.Offline{}, nil, zap.NewNop())
	m := New(Deps{
		Garden: svc,
		Steps:  steps.NewTracker(store, zap.NewNop()),
		Name:   "Imane",
	})
	m.width = 100
	m.height = 30
	return m, svc
}

// applyUpdate runs msg through Update and returns the concrete model.
func applyUpdate(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// runCmd executes cmd and feeds its message back, one level deep.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = applyUpdate(m, cmd())
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case KeyTab:
		return tea.KeyMsg{Type: tea.KeyTab}
	case KeyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case KeyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case KeySpace:
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case KeyCycleIcon:
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	return runCmd(t, m, loadCmd(m.deps))
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t)
	if m.focusedPanel != FocusGarden {
		t.Error("new model should focus the garden")
	}
	if m.adding {
		t.Error("new model should not be adding")
	}
	if m.deps.StepGoal != 10000 {
		t.Errorf("StepGoal = %d, want default 10000", m.deps.StepGoal)
	}
}

func TestRolloverThenLoad(t *testing.T) {
	m, svc := newTestModel(t)
	if _, err := svc.Add("Reading", garden.IconBook); err != nil {
		t.Fatalf("add: %v", err)
	}

	m, cmd := applyUpdate(m, rolloverCmd(svc)())
	m = runCmd(t, m, cmd)

	if len(m.habits) != 1 {
		t.Fatalf("habits = %d, want 1", len(m.habits))
	}
	if !m.loaded || m.statusText != "Ready" {
		t.Errorf("status = %q, loaded = %v", m.statusText, m.loaded)
	}
}

func TestCompleteSelectedHabit(t *testing.T) {
	m, svc := newTestModel(t)
	svc.Add("Reading", garden.IconBook)
	m = load(t, m)

	m, cmd := applyUpdate(m, key(KeySpace))
	m, cmd = applyUpdate(m, cmd())
	if !strings.Contains(m.statusText, "Reading done") {
		t.Errorf("status = %q", m.statusText)
	}
	m = runCmd(t, m, cmd)
	if !m.habits[0].CompletedToday || m.habits[0].Streak != 1 {
		t.Errorf("habit = %+v, want completed with streak 1", m.habits[0])
	}

	// A second completion the same day is a no-op.
	m, cmd = applyUpdate(m, key(KeySpace))
	m, _ = applyUpdate(m, cmd())
	if !strings.Contains(m.statusText, "already done") {
		t.Errorf("status = %q", m.statusText)
	}
}

func TestAddHabitFlow(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = applyUpdate(m, key(KeyAdd))
	if !m.adding {
		t.Fatal("a should open the input")
	}
	m, _ = applyUpdate(m, key("Yoga"))
	m, _ = applyUpdate(m, key(KeyCycleIcon))
	if m.newIcon != garden.IconBook {
		t.Errorf("icon = %v, want book", m.newIcon)
	}

	m, cmd := applyUpdate(m, key(KeyEnter))
	if m.adding {
		t.Error("enter should close the input")
	}
	m, cmd = applyUpdate(m, cmd())
	if m.statusText != "Planted Yoga" {
		t.Errorf("status = %q", m.statusText)
	}
	m = runCmd(t, m, cmd)
	if len(m.habits) != 1 || m.habits[0].Icon != garden.IconBook {
		t.Fatalf("habits = %+v", m.habits)
	}
}

func TestAddHabitEscCancels(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = applyUpdate(m, key(KeyAdd))
	m, _ = applyUpdate(m, key("x"))
	m, cmd := applyUpdate(m, key(KeyEsc))
	if m.adding || cmd != nil {
		t.Error("esc should close the input without a command")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}
}

func TestQuitKeyIgnoredWhileTyping(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = applyUpdate(m, key(KeyAdd))
	m, _ = applyUpdate(m, key(KeyQuit))
	if !m.adding {
		t.Fatal("q while typing should not leave the input")
	}
	if m.input.Value() != "q" {
		t.Errorf("input = %q, want q", m.input.Value())
	}
}

func TestDeleteHabit(t *testing.T) {
	m, svc := newTestModel(t)
	svc.Add("Reading", garden.IconBook)
	svc.Add("Water", garden.IconWater)
	m = load(t, m)
	m, _ = applyUpdate(m, key(KeyJ))

	m, cmd := applyUpdate(m, key(KeyDelete))
	m, cmd = applyUpdate(m, cmd())
	m = runCmd(t, m, cmd)

	if len(m.habits) != 1 || m.habits[0].Name != "Reading" {
		t.Fatalf("habits = %+v", m.habits)
	}
	if m.selectedHabit != 0 {
		t.Errorf("selectedHabit = %d, want clamped to 0", m.selectedHabit)
	}
}

func TestReminderOfflineShowsTransientError(t *testing.T) {
	m, svc := newTestModel(t)
	svc.Add("Reading", garden.IconBook)
	m = load(t, m)

	m, cmd := applyUpdate(m, key(KeyReminder))
	m, cmd = applyUpdate(m, cmd())
	if m.errorMessage == "" || !m.errorTransient {
		t.Fatalf("expected transient error, got %q", m.errorMessage)
	}
	if cmd == nil {
		t.Error("transient error should return a clear command")
	}
	if !strings.Contains(m.View(), "Error: ") {
		t.Error("view should show the error bar")
	}

	m, _ = applyUpdate(m, ClearTransientErrorMsg{})
	if m.errorMessage != "" {
		t.Errorf("errorMessage = %q after clear", m.errorMessage)
	}
}

func TestReminderPermissionDeniedMessage(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = applyUpdate(m, ReminderSetMsg{Err: garden.ErrPermissionDenied})
	if !strings.Contains(m.errorMessage, "not allowed") {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
}

func TestHabitNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m.habits = []garden.Habit{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	m, _ = applyUpdate(m, key(KeyJ))
	m, _ = applyUpdate(m, key(KeyJ))
	m, _ = applyUpdate(m, key(KeyJ))
	if m.selectedHabit != 2 {
		t.Errorf("after jjj, selectedHabit = %d, want 2", m.selectedHabit)
	}

	m, _ = applyUpdate(m, key(KeyK))
	if m.selectedHabit != 1 {
		t.Errorf("after k, selectedHabit = %d, want 1", m.selectedHabit)
	}

	m, _ = applyUpdate(m, key(KeyTab))
	m, _ = applyUpdate(m, key(KeyK))
	if m.selectedHabit != 1 {
		t.Error("k should not move the selection when steps has focus")
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = applyUpdate(m, key(KeyTab))
	if m.focusedPanel != FocusSteps {
		t.Error("tab should switch to steps")
	}
	m, _ = applyUpdate(m, key(KeyTab))
	if m.focusedPanel != FocusGarden {
		t.Error("tab again should switch back to garden")
	}
}

func TestStepsPanelShowsSimulationMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = applyUpdate(m, DataLoadedMsg{
		Day: steps.DayRecord{
			StepData:  steps.Totals(4321, steps.DefaultBody),
			Simulated: true,
		},
		Mode: steps.ModeSimulated,
	})

	view := m.View()
	for _, want := range []string{"4,321", "3.02 km", "SIMULATION MODE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStepsPanelShowsSensorMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = applyUpdate(m, DataLoadedMsg{Mode: steps.ModeSensor})

	view := m.View()
	if !strings.Contains(view, "SENSOR") || strings.Contains(view, "SIMULATION") {
		t.Error("sensor mode should show the sensor badge only")
	}
}

func TestSummaryLine(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = applyUpdate(m, DataLoadedMsg{
		Stats:       &summary.Stats{HabitsCompleted: 1, TotalHabits: 3, JournalEntries: 2, ActivityMinutes: 45},
		Butterflies: 1200,
	})

	view := m.View()
	if !strings.Contains(view, "Habits 1/3") || !strings.Contains(view, "Activity 45 min") {
		t.Error("status bar should show the summary figures")
	}
	if !strings.Contains(view, "1,200") {
		t.Error("header should show the butterfly count")
	}
}

func TestBackgroundToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = applyUpdate(m, BackgroundToggledMsg{State: steps.Active})
	if m.background != steps.Active || m.statusText != "Background tracking active" {
		t.Errorf("background = %v, status = %q", m.background, m.statusText)
	}

	m, _ = applyUpdate(m, BackgroundToggledMsg{State: steps.Active, Err: errors.New("runner busy")})
	if m.errorMessage != "runner busy" {
		t.Errorf("errorMessage = %q", m.errorMessage)
	}
}

func TestTickSchedulesRollover(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := applyUpdate(m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule work")
	}
}

func TestViewRendersWithSize(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	if view == "" || view == "Initializing..." {
		t.Errorf("view = %q", view)
	}
	if !strings.Contains(view, "Your garden is empty") {
		t.Error("empty garden hint missing")
	}
	if !strings.Contains(view, "Hi Imane") {
		t.Error("greeting missing")
	}
}

func TestViewWithoutSize(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 0
	if view := m.View(); view != "Initializing..." {
		t.Errorf("view without size = %q, want 'Initializing...'", view)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("every small habit counts", 11)
	want := []string{"every small", "habit", "counts"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
}
