package garden

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	permitted   bool
	permErr     error
	scheduleErr error
	cancelErr   error
	scheduled   []shell.Notification
	cancelled   []int
}

func (f *fakeNotifier) NotificationsPermitted(context.Context) (bool, error) {
	return f.permitted, f.permErr
}

func (f *fakeNotifier) Schedule(_ context.Context, n shell.Notification) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, n)
	return nil
}

func (f *fakeNotifier) Cancel(_ context.Context, id int) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeRewarder struct{ rewards []int }

func (f *fakeRewarder) Reward(n int) error {
	f.rewards = append(f.rewards, n)
	return nil
}

type harness struct {
	svc      *Service
	store    *db.Store
	notifier *fakeNotifier
	rewarder *fakeRewarder
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := db.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &harness{
		store:    store,
		notifier: &fakeNotifier{permitted: true},
		rewarder: &fakeRewarder{},
		now:      time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local),
	}
	h.svc = NewService(store, h.notifier, h.rewarder, zap.NewNop())
	h.svc.now = func() time.Time { return h.now }
	return h
}

func TestServiceAddValidatesName(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Add("   ", IconLeaf)
	assert.ErrorIs(t, err, ErrInvalidName)

	habit, err := h.svc.Add("  Reading ", IconBook)
	require.NoError(t, err)
	assert.Equal(t, "Reading", habit.Name)
	assert.Equal(t, StageSeed, habit.GrowthStage)
	assert.False(t, habit.RegressionDisabled)
	assert.Nil(t, habit.ReminderHandle)

	habits, err := h.svc.Habits()
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, habit.ID, habits[0].ID)
}

func TestServiceCompleteRewardsAndIsIdempotent(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Reading", IconBook)

	c, err := h.svc.Complete(context.Background(), habit.ID)
	require.NoError(t, err)
	assert.True(t, c.Applied)

	c, err = h.svc.Complete(context.Background(), habit.ID)
	require.NoError(t, err)
	assert.False(t, c.Applied)

	got, _ := h.svc.Get(habit.ID)
	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, []int{1}, h.rewarder.rewards)
}

func TestServiceCompleteUnknownHabit(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Complete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceMaturityNotifiesAndRewardsThree(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Running", IconRun)
	ctx := context.Background()

	for d := 0; d < 30; d++ {
		h.now = time.Date(2026, 10, 19+d, 8, 0, 0, 0, time.Local)
		_, err := h.svc.RolloverIfNeeded(ctx)
		require.NoError(t, err)
		_, err = h.svc.Complete(ctx, habit.ID)
		require.NoError(t, err)
	}

	got, _ := h.svc.Get(habit.ID)
	assert.Equal(t, 30, got.Streak)
	assert.Equal(t, StageMature, got.GrowthStage)
	assert.True(t, got.RegressionDisabled)
	require.Len(t, h.notifier.scheduled, 1)
	assert.Contains(t, h.notifier.scheduled[0].Body, "Running")
	assert.Equal(t, 3, h.rewarder.rewards[len(h.rewarder.rewards)-1])

	// Skip a day: the garden keeps its mature plant.
	h.now = h.now.AddDate(0, 0, 2)
	res, err := h.svc.RolloverIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, res.Ran)
	got, _ = h.svc.Get(habit.ID)
	assert.Equal(t, StageMature, got.GrowthStage)
}

func TestServiceMaturityNotificationFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.notifier.scheduleErr = shell.ErrUnavailable
	habit, _ := h.svc.Add("Running", IconRun)

	habits, _ := h.svc.Habits()
	habits[0].Streak = 29
	habits[0].GrowthStage = StageFor(29)
	require.NoError(t, h.store.SaveJSON(db.KeyHabits, habits))

	c, err := h.svc.Complete(context.Background(), habit.ID)
	require.NoError(t, err)
	assert.True(t, c.Matured)
}

func TestServiceRolloverFirstRunOnlyRecordsDate(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Reading", IconBook)

	habits, _ := h.svc.Habits()
	habits[0].Streak = 5
	require.NoError(t, h.store.SaveJSON(db.KeyHabits, habits))

	res, err := h.svc.RolloverIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Initial)
	assert.False(t, res.Ran)

	got, _ := h.svc.Get(habit.ID)
	assert.Equal(t, 5, got.Streak)

	var date string
	found, _ := h.store.LoadJSON(db.KeyLastRolloverDate, &date)
	assert.True(t, found)
	assert.Equal(t, "2026-10-19", date)
}

func TestServiceRolloverSameDayIsNoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.svc.RolloverIfNeeded(ctx)

	h.now = h.now.Add(10 * time.Hour)
	res, err := h.svc.RolloverIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, res.Ran)
}

func TestServiceRolloverNextDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	done, _ := h.svc.Add("Done", IconLeaf)
	missed, _ := h.svc.Add("Missed", IconLeaf)
	h.svc.RolloverIfNeeded(ctx)

	habits, _ := h.svc.Habits()
	habits[1].Streak = 4
	habits[1].GrowthStage = StageFor(4)
	require.NoError(t, h.store.SaveJSON(db.KeyHabits, habits))
	h.svc.Complete(ctx, done.ID)

	h.now = h.now.AddDate(0, 0, 1)
	res, err := h.svc.RolloverIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, res.Ran)
	assert.Equal(t, 1, res.Days)
	assert.Equal(t, 1, res.Reset)

	gotDone, _ := h.svc.Get(done.ID)
	assert.Equal(t, 1, gotDone.Streak)
	assert.False(t, gotDone.CompletedToday)

	gotMissed, _ := h.svc.Get(missed.ID)
	assert.Equal(t, 0, gotMissed.Streak)
	assert.Equal(t, StageSeed, gotMissed.GrowthStage)
}

func TestServiceRolloverAfterGapResetsCompletedHabit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	habit, _ := h.svc.Add("Reading", IconBook)
	h.svc.RolloverIfNeeded(ctx)
	h.svc.Complete(ctx, habit.ID)

	h.now = h.now.AddDate(0, 0, 3)
	res, err := h.svc.RolloverIfNeeded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Days)

	got, _ := h.svc.Get(habit.ID)
	assert.Equal(t, 0, got.Streak)
}

func TestServiceSetReminderSchedulesDaily(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Reading", IconBook)

	got, err := h.svc.SetReminder(context.Background(), habit.ID, true, "07:30")
	require.NoError(t, err)
	assert.True(t, got.ReminderEnabled)
	assert.Equal(t, "07:30", got.ReminderTime)
	require.NotNil(t, got.ReminderHandle)

	require.Len(t, h.notifier.scheduled, 1)
	n := h.notifier.scheduled[0]
	assert.True(t, n.RepeatDaily)
	assert.Equal(t, *got.ReminderHandle, n.ID)
	// 07:30 has passed at 08:00, so the first reminder is tomorrow.
	assert.Equal(t, time.Date(2026, 10, 20, 7, 30, 0, 0, time.Local), n.At)
}

func TestServiceSetReminderRejectsBadTime(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Reading", IconBook)

	_, err := h.svc.SetReminder(context.Background(), habit.ID, true, "25:99")
	assert.ErrorIs(t, err, ErrInvalidReminderTime)
	assert.Empty(t, h.notifier.scheduled)
}

func TestServiceSetReminderPermissionDenied(t *testing.T) {
	h := newHarness(t)
	h.notifier.permitted = false
	habit, _ := h.svc.Add("Reading", IconBook)

	_, err := h.svc.SetReminder(context.Background(), habit.ID, true, "09:00")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestServiceSetReminderFailureLeavesHabitUnchanged(t *testing.T) {
	h := newHarness(t)
	h.notifier.scheduleErr = errors.New("plugin crashed")
	habit, _ := h.svc.Add("Reading", IconBook)

	_, err := h.svc.SetReminder(context.Background(), habit.ID, true, "09:00")
	require.Error(t, err)

	got, _ := h.svc.Get(habit.ID)
	assert.False(t, got.ReminderEnabled)
	assert.Nil(t, got.ReminderHandle)
}

func TestServiceDisableReminderCancels(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	habit, _ := h.svc.Add("Reading", IconBook)
	on, _ := h.svc.SetReminder(ctx, habit.ID, true, "09:00")

	off, err := h.svc.SetReminder(ctx, habit.ID, false, "")
	require.NoError(t, err)
	assert.False(t, off.ReminderEnabled)
	assert.Nil(t, off.ReminderHandle)
	assert.Equal(t, "09:00", off.ReminderTime)
	assert.Equal(t, []int{*on.ReminderHandle}, h.notifier.cancelled)
}

func TestServiceDeleteCancelsReminderBestEffort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	habit, _ := h.svc.Add("Reading", IconBook)
	h.svc.SetReminder(ctx, habit.ID, true, "09:00")

	h.notifier.cancelErr = shell.ErrUnavailable
	require.NoError(t, h.svc.Delete(ctx, habit.ID))

	habits, _ := h.svc.Habits()
	assert.Empty(t, habits)
	assert.ErrorIs(t, h.svc.Delete(ctx, habit.ID), ErrNotFound)
}

func TestServiceDeleteWithoutReminderSkipsCancel(t *testing.T) {
	h := newHarness(t)
	habit, _ := h.svc.Add("Reading", IconBook)

	require.NoError(t, h.svc.Delete(context.Background(), habit.ID))
	assert.Empty(t, h.notifier.cancelled)
}

func TestNextReminder(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), NextReminder(now, 9, 0))
	assert.Equal(t, time.Date(2026, 10, 20, 7, 0, 0, 0, time.UTC), NextReminder(now, 7, 0))
	assert.Equal(t, now, NextReminder(now, 8, 0))
}

func TestReminderIDStableForUUID(t *testing.T) {
	id := "0a1b2c3d-0000-4000-8000-000000000000"
	assert.Equal(t, reminderID(id), reminderID(id))
	assert.Equal(t, 0x0a1b2c3d, reminderID(id))
}

func TestDaysBetween(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween("2026-10-18", now))
	assert.Equal(t, 4, daysBetween("2026-10-15", now))
	assert.Equal(t, 1, daysBetween("garbage", now))
	assert.Equal(t, 1, daysBetween("2026-10-25", now))
}

func TestServiceMistypedHabitsRecordStartsEmpty(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Put(db.KeyHabits, `[{"id":"a","name":"ghost","streak":"bad"}]`))

	habits, err := h.svc.Habits()
	require.NoError(t, err)
	assert.Empty(t, habits)

	_, err = h.svc.Add("Reading", IconBook)
	require.NoError(t, err)
	habits, _ = h.svc.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, "Reading", habits[0].Name)
}

func TestServiceDisableReminderWithoutPermission(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	habit, _ := h.svc.Add("Reading", IconBook)
	_, err := h.svc.SetReminder(ctx, habit.ID, true, "09:00")
	require.NoError(t, err)

	h.notifier.permitted = false
	off, err := h.svc.SetReminder(ctx, habit.ID, false, "")
	require.NoError(t, err)
	assert.False(t, off.ReminderEnabled)
	assert.Nil(t, off.ReminderHandle)
	assert.Len(t, h.notifier.cancelled, 1)
}

func TestServiceDisableReminderCancelIsBestEffort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	habit, _ := h.svc.Add("Reading", IconBook)
	_, err := h.svc.SetReminder(ctx, habit.ID, true, "09:00")
	require.NoError(t, err)

	h.notifier.permErr = shell.ErrUnavailable
	h.notifier.cancelErr = shell.ErrUnavailable
	off, err := h.svc.SetReminder(ctx, habit.ID, false, "")
	require.NoError(t, err)
	assert.False(t, off.ReminderEnabled)

	stored, err := h.svc.Get(habit.ID)
	require.NoError(t, err)
	assert.False(t, stored.ReminderEnabled)
	assert.Nil(t, stored.ReminderHandle)
}
