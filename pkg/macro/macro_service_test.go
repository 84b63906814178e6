package macro

import (
	"SimpleMacro-Backend/domain"
	"SimpleMacro-Backend/entities"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uint]*entities.User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uint) (*entities.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpsertUser(_ context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ObserveUserByID(context.Context, uint) <-chan *entities.User {
	ch := make(chan *entities.User)
	close(ch)
	return ch
}

type fakeMirror struct{}

func (fakeMirror) SaveUser(context.Context, string, *entities.User) error        { return nil }
func (fakeMirror) SaveEntry(context.Context, string, *entities.MacroEntry) error { return nil }
func (fakeMirror) DeleteEntry(context.Context, string, uint) error               { return nil }
func (fakeMirror) DeleteUser(context.Context, string) error                      { return nil }

type fakeMacroRepo struct {
	entries   map[uint]*entities.MacroEntry
	nextID    uint
	nextLog   int64
	dailyCh   chan *entities.DailyMacros
	entriesCh chan []*entities.MacroEntry
	rangeCh   chan []entities.DailyMacros
	recentCh  chan []*entities.MacroEntry
	purged    []uint
}

func newFakeMacroRepo() *fakeMacroRepo {
	return &fakeMacroRepo{entries: map[uint]*entities.MacroEntry{}}
}

func (f *fakeMacroRepo) AddEntry(_ context.Context, entry *entities.MacroEntry) error {
	f.nextID++
	f.nextLog++
	entry.ID = f.nextID
	entry.LoggedAt = f.nextLog
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeMacroRepo) GetEntryByID(_ context.Context, id uint) (*entities.MacroEntry, error) {
	if e, ok := f.entries[id]; ok {
		found := *e
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMacroRepo) UpdateEntry(_ context.Context, entry *entities.MacroEntry) error {
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeMacroRepo) DeleteEntry(_ context.Context, entry *entities.MacroEntry) error {
	delete(f.entries, entry.ID)
	return nil
}

func (f *fakeMacroRepo) DeleteAllEntriesForUser(_ context.Context, userID uint) error {
	f.purged = append(f.purged, userID)
	for id, e := range f.entries {
		if e.UserID == userID {
			delete(f.entries, id)
		}
	}
	return nil
}

func (f *fakeMacroRepo) EntriesForDate(_ context.Context, userID uint, date string) ([]*entities.MacroEntry, error) {
	var out []*entities.MacroEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeMacroRepo) DailyMacros(ctx context.Context, userID uint, date string) (*entities.DailyMacros, error) {
	entries, _ := f.EntriesForDate(ctx, userID, date)
	return DailyTotals(entries), nil
}

func (f *fakeMacroRepo) MacrosForDateRange(_ context.Context, userID uint, startDate, endDate string) ([]entities.DailyMacros, error) {
	var inRange []*entities.MacroEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Date >= startDate && e.Date <= endDate {
			inRange = append(inRange, e)
		}
	}
	return RangeTotals(inRange), nil
}

func (f *fakeMacroRepo) RecentEntries(_ context.Context, userID uint, limit int) ([]*entities.MacroEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var out []*entities.MacroEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt > out[j].LoggedAt })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMacroRepo) ObserveEntriesForDate(context.Context, uint, string) <-chan []*entities.MacroEntry {
	if f.entriesCh != nil {
		return f.entriesCh
	}
	ch := make(chan []*entities.MacroEntry)
	close(ch)
	return ch
}

func (f *fakeMacroRepo) ObserveDailyMacros(context.Context, uint, string) <-chan *entities.DailyMacros {
	if f.dailyCh != nil {
		return f.dailyCh
	}
	ch := make(chan *entities.DailyMacros)
	close(ch)
	return ch
}

func (f *fakeMacroRepo) ObserveMacrosForDateRange(context.Context, uint, string, string) <-chan []entities.DailyMacros {
	if f.rangeCh != nil {
		return f.rangeCh
	}
	ch := make(chan []entities.DailyMacros)
	close(ch)
	return ch
}

func (f *fakeMacroRepo) ObserveRecentEntries(context.Context, uint, int) <-chan []*entities.MacroEntry {
	if f.recentCh != nil {
		return f.recentCh
	}
	ch := make(chan []*entities.MacroEntry)
	close(ch)
	return ch
}

func newTestMacroService(goals *entities.User) (MacroService, *fakeMacroRepo) {
	repo := newFakeMacroRepo()
	owner := goals
	if owner == nil {
		owner = &entities.User{
			Email:       "owner@example.com",
			CalorieGoal: 2000,
			CarbGoal:    250,
			ProteinGoal: 150,
			FatGoal:     65,
		}
	}
	owner.ID = 1
	users := &fakeUserRepo{users: map[uint]*entities.User{1: owner}}
	return NewMacroService(repo, users, fakeMirror{}), repo
}

func TestAddEntryDerivesCalories(t *testing.T) {
	service, repo := newTestMacroService(nil)

	resp, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{
		Date:    "2025-01-15",
		Name:    "Lunch",
		Carbs:   10,
		Protein: 20,
		Fat:     5,
	})

	require.NoError(t, err)
	assert.Equal(t, 165, resp.Calories)
	assert.Equal(t, "2025-01-15", resp.Date)
	assert.Equal(t, 165, repo.entries[resp.ID].Calories)
}

func TestAddEntryRejectsMalformedDates(t *testing.T) {
	service, _ := newTestMacroService(nil)

	for _, date := range []string{"", "2025-1-15", "20250115", "2025-13-40", "15-01-2025"} {
		_, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{Date: date})
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "date %q", date)
	}
}

func TestAddEntryUnknownUser(t *testing.T) {
	service, _ := newTestMacroService(nil)

	_, err := service.AddEntry(context.Background(), 42, domain.AddEntryRequest{Date: "2025-01-15"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateEntryRecomputesCalories(t *testing.T) {
	service, _ := newTestMacroService(nil)

	added, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{
		Date: "2025-01-15", Carbs: 10, Protein: 10, Fat: 10,
	})
	require.NoError(t, err)

	updated, err := service.UpdateEntry(context.Background(), 1, added.ID, domain.UpdateEntryRequest{
		Date: "2025-01-16", Name: "Dinner", Carbs: 50, Protein: 30, Fat: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 455, updated.Calories)
	assert.Equal(t, "2025-01-16", updated.Date)
}

func TestUpdateEntryReplacesWholesale(t *testing.T) {
	service, _ := newTestMacroService(nil)

	added, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{
		Date: "2025-01-15", Name: "Lunch", Carbs: 10, Protein: 20, Fat: 5,
	})
	require.NoError(t, err)

	// Omitted fields overwrite too: name clears, macros reset to zero.
	updated, err := service.UpdateEntry(context.Background(), 1, added.ID, domain.UpdateEntryRequest{
		Date: "2025-01-15", Carbs: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Name)
	assert.Equal(t, 30, updated.Carbs)
	assert.Equal(t, 0, updated.Protein)
	assert.Equal(t, 0, updated.Fat)
	assert.Equal(t, 120, updated.Calories)

	_, err = service.UpdateEntry(context.Background(), 1, added.ID, domain.UpdateEntryRequest{Carbs: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidDate, "date is required on update")
}

func TestUpdateEntryOwnership(t *testing.T) {
	service, _ := newTestMacroService(nil)

	added, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{Date: "2025-01-15"})
	require.NoError(t, err)

	_, err = service.UpdateEntry(context.Background(), 2, added.ID, domain.UpdateEntryRequest{})
	assert.ErrorIs(t, err, domain.ErrEntryNotOwned)

	_, err = service.UpdateEntry(context.Background(), 1, 999, domain.UpdateEntryRequest{})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestDeleteEntryOwnership(t *testing.T) {
	service, repo := newTestMacroService(nil)

	added, err := service.AddEntry(context.Background(), 1, domain.AddEntryRequest{Date: "2025-01-15"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteEntry(context.Background(), 2, added.ID), domain.ErrEntryNotOwned)
	assert.ErrorIs(t, service.DeleteEntry(context.Background(), 1, 999), domain.ErrEntryNotFound)

	require.NoError(t, service.DeleteEntry(context.Background(), 1, added.ID))
	assert.Empty(t, repo.entries)
}

func TestGetDailySummaryProgress(t *testing.T) {
	owner := &entities.User{
		Email:       "owner@example.com",
		CalorieGoal: 500,
		CarbGoal:    30,
		ProteinGoal: 25,
		FatGoal:     0,
	}
	service, _ := newTestMacroService(owner)

	ctx := context.Background()
	_, err := service.AddEntry(ctx, 1, domain.AddEntryRequest{Date: "2025-01-15", Carbs: 10, Protein: 20, Fat: 5})
	require.NoError(t, err)
	_, err = service.AddEntry(ctx, 1, domain.AddEntryRequest{Date: "2025-01-15", Carbs: 5, Protein: 5, Fat: 5})
	require.NoError(t, err)

	summary, err := service.GetDailySummary(ctx, 1, "2025-01-15")
	require.NoError(t, err)

	assert.Equal(t, 250, summary.TotalCalories)
	assert.Equal(t, 15, summary.TotalCarbs)
	assert.Equal(t, 25, summary.TotalProtein)
	assert.Equal(t, 10, summary.TotalFat)

	assert.Equal(t, 0.5, summary.CalorieProgress)
	assert.Equal(t, 0.5, summary.CarbProgress)
	assert.Equal(t, 1.0, summary.ProteinProgress)
	assert.Equal(t, 0.0, summary.FatProgress, "zero goal reports zero progress")
}

func TestGetDailySummaryEmptyDay(t *testing.T) {
	service, _ := newTestMacroService(nil)

	summary, err := service.GetDailySummary(context.Background(), 1, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalCalories)
	assert.Equal(t, 0.0, summary.CalorieProgress)
}

func TestGetRangeSummary(t *testing.T) {
	service, _ := newTestMacroService(nil)

	ctx := context.Background()
	for _, date := range []string{"2025-01-01", "2025-01-03", "2025-01-02"} {
		_, err := service.AddEntry(ctx, 1, domain.AddEntryRequest{Date: date, Carbs: 10})
		require.NoError(t, err)
	}

	resp, err := service.GetRangeSummary(ctx, 1, "2025-01-01", "2025-01-03")
	require.NoError(t, err)
	require.Len(t, resp.Days, 3)
	assert.Equal(t, "2025-01-03", resp.Days[0].Date)
	assert.Equal(t, "2025-01-02", resp.Days[1].Date)
	assert.Equal(t, "2025-01-01", resp.Days[2].Date)

	_, err = service.GetRangeSummary(ctx, 1, "2025-01-03", "2025-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestGetRecentEntriesNewestFirst(t *testing.T) {
	service, _ := newTestMacroService(nil)

	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		_, err := service.AddEntry(ctx, 1, domain.AddEntryRequest{Date: "2025-01-15", Name: name})
		require.NoError(t, err)
	}

	recent, err := service.GetRecentEntries(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "C", recent[0].Name)
	assert.Equal(t, "B", recent[1].Name)
}

func TestWatchDailySummary(t *testing.T) {
	service, repo := newTestMacroService(nil)
	repo.dailyCh = make(chan *entities.DailyMacros, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := service.WatchDailySummary(ctx, 1, "2025-01-15")
	require.NoError(t, err)

	repo.dailyCh <- &entities.DailyMacros{
		Date:          "2025-01-15",
		TotalCalories: 1000,
		TotalCarbs:    125,
	}

	select {
	case summary := <-out:
		assert.Equal(t, 1000, summary.TotalCalories)
		assert.Equal(t, 0.5, summary.CalorieProgress)
		assert.Equal(t, 0.5, summary.CarbProgress)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for summary")
	}

	close(repo.dailyCh)
	select {
	case _, ok := <-out:
		assert.False(t, ok, "stream should close when the source closes")
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed")
	}
}

func TestWatchDailySummaryInvalidDate(t *testing.T) {
	service, _ := newTestMacroService(nil)

	_, err := service.WatchDailySummary(context.Background(), 1, "not-a-date")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestWatchEntriesForDate(t *testing.T) {
	service, repo := newTestMacroService(nil)
	repo.entriesCh = make(chan []*entities.MacroEntry, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := service.WatchEntriesForDate(ctx, 1, "2025-01-15")
	require.NoError(t, err)

	repo.entriesCh <- []*entities.MacroEntry{
		{ID: 1, Date: "2025-01-15", Name: "Lunch", Carbs: 10, Protein: 20, Fat: 5, Calories: 165},
	}

	select {
	case batch := <-out:
		require.Len(t, batch, 1)
		assert.Equal(t, "Lunch", batch[0].Name)
		assert.Equal(t, 165, batch[0].Calories)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for entries")
	}

	_, err = service.WatchEntriesForDate(ctx, 1, "bad-date")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestWatchRangeSummary(t *testing.T) {
	service, repo := newTestMacroService(nil)
	repo.rangeCh = make(chan []entities.DailyMacros, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := service.WatchRangeSummary(ctx, 1, "2025-01-01", "2025-01-03")
	require.NoError(t, err)

	repo.rangeCh <- []entities.DailyMacros{
		{Date: "2025-01-02", TotalCalories: 1000, TotalCarbs: 125},
		{Date: "2025-01-01", TotalCalories: 500},
	}

	select {
	case summary := <-out:
		assert.Equal(t, "2025-01-01", summary.StartDate)
		assert.Equal(t, "2025-01-03", summary.EndDate)
		require.Len(t, summary.Days, 2)
		assert.Equal(t, "2025-01-02", summary.Days[0].Date)
		assert.Equal(t, 0.5, summary.Days[0].CalorieProgress)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for range summary")
	}

	_, err = service.WatchRangeSummary(ctx, 1, "2025-01-03", "2025-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestWatchRecentEntries(t *testing.T) {
	service, repo := newTestMacroService(nil)
	repo.recentCh = make(chan []*entities.MacroEntry, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := service.WatchRecentEntries(ctx, 1, 2)
	require.NoError(t, err)

	repo.recentCh <- []*entities.MacroEntry{
		{ID: 3, Name: "C", LoggedAt: 3},
		{ID: 2, Name: "B", LoggedAt: 2},
	}

	select {
	case batch := <-out:
		require.Len(t, batch, 2)
		assert.Equal(t, "C", batch[0].Name)
		assert.Equal(t, "B", batch[1].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for recent entries")
	}

	close(repo.recentCh)
	select {
	case _, ok := <-out:
		assert.False(t, ok, "stream should close when the source closes")
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed")
	}
}
