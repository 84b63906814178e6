package macro

import (
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/internal/watch"
	"context"

	"gorm.io/gorm"
)

const entriesTable = "macro_entries"

const DefaultRecentLimit = 3

type (
	MacroRepository interface {
		AddEntry(ctx context.Context, entry *entities.MacroEntry) error
		GetEntryByID(ctx context.Context, id uint) (*entities.MacroEntry, error)
		// UpdateEntry replaces the row matching the entry's id. Matching
		// zero rows is not an error; callers must not rely on a failure to
		// detect a missing row.
		UpdateEntry(ctx context.Context, entry *entities.MacroEntry) error
		DeleteEntry(ctx context.Context, entry *entities.MacroEntry) error
		DeleteAllEntriesForUser(ctx context.Context, userID uint) error

		EntriesForDate(ctx context.Context, userID uint, date string) ([]*entities.MacroEntry, error)
		DailyMacros(ctx context.Context, userID uint, date string) (*entities.DailyMacros, error)
		MacrosForDateRange(ctx context.Context, userID uint, startDate, endDate string) ([]entities.DailyMacros, error)
		RecentEntries(ctx context.Context, userID uint, limit int) ([]*entities.MacroEntry, error)

		ObserveEntriesForDate(ctx context.Context, userID uint, date string) <-chan []*entities.MacroEntry
		ObserveDailyMacros(ctx context.Context, userID uint, date string) <-chan *entities.DailyMacros
		ObserveMacrosForDateRange(ctx context.Context, userID uint, startDate, endDate string) <-chan []entities.DailyMacros
		ObserveRecentEntries(ctx context.Context, userID uint, limit int) <-chan []*entities.MacroEntry
	}

	macroRepository struct {
		db  *gorm.DB
		hub *watch.Hub
	}
)

func NewMacroRepository(db *gorm.DB, hub *watch.Hub) MacroRepository {
	return &macroRepository{db: db, hub: hub}
}

func (r *macroRepository) AddEntry(ctx context.Context, entry *entities.MacroEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	r.hub.Notify(entriesTable, entry.UserID)
	return nil
}

func (r *macroRepository) GetEntryByID(ctx context.Context, id uint) (*entities.MacroEntry, error) {
	var entry entities.MacroEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *macroRepository) UpdateEntry(ctx context.Context, entry *entities.MacroEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return err
	}
	r.hub.Notify(entriesTable, entry.UserID)
	return nil
}

func (r *macroRepository) DeleteEntry(ctx context.Context, entry *entities.MacroEntry) error {
	if err := r.db.WithContext(ctx).Where("id = ?", entry.ID).Delete(&entities.MacroEntry{}).Error; err != nil {
		return err
	}
	r.hub.Notify(entriesTable, entry.UserID)
	return nil
}

func (r *macroRepository) DeleteAllEntriesForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.MacroEntry{}).Error; err != nil {
		return err
	}
	r.hub.Notify(entriesTable, userID)
	return nil
}

func (r *macroRepository) EntriesForDate(ctx context.Context, userID uint, date string) ([]*entities.MacroEntry, error) {
	var entries []*entities.MacroEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *macroRepository) DailyMacros(ctx context.Context, userID uint, date string) (*entities.DailyMacros, error) {
	var rows []entities.DailyMacros
	if err := r.db.WithContext(ctx).
		Model(&entities.MacroEntry{}).
		Select("date, SUM(calories) as total_calories, SUM(carbs) as total_carbs, SUM(protein) as total_protein, SUM(fat) as total_fat").
		Where("user_id = ? AND date = ?", userID, date).
		Group("date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *macroRepository) MacrosForDateRange(ctx context.Context, userID uint, startDate, endDate string) ([]entities.DailyMacros, error) {
	var rows []entities.DailyMacros
	if err := r.db.WithContext(ctx).
		Model(&entities.MacroEntry{}).
		Select("date, SUM(calories) as total_calories, SUM(carbs) as total_carbs, SUM(protein) as total_protein, SUM(fat) as total_fat").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Group("date").
		Order("date DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *macroRepository) RecentEntries(ctx context.Context, userID uint, limit int) ([]*entities.MacroEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var entries []*entities.MacroEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *macroRepository) entriesInRange(ctx context.Context, userID uint, startDate, endDate string) ([]*entities.MacroEntry, error) {
	var entries []*entities.MacroEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *macroRepository) ObserveEntriesForDate(ctx context.Context, userID uint, date string) <-chan []*entities.MacroEntry {
	return watch.Observe(ctx, r.hub, entriesTable, userID, func(ctx context.Context) ([]*entities.MacroEntry, error) {
		return r.EntriesForDate(ctx, userID, date)
	})
}

func (r *macroRepository) ObserveDailyMacros(ctx context.Context, userID uint, date string) <-chan *entities.DailyMacros {
	return watch.Observe(ctx, r.hub, entriesTable, userID, func(ctx context.Context) (*entities.DailyMacros, error) {
		entries, err := r.EntriesForDate(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		return DailyTotals(entries), nil
	})
}

func (r *macroRepository) ObserveMacrosForDateRange(ctx context.Context, userID uint, startDate, endDate string) <-chan []entities.DailyMacros {
	return watch.Observe(ctx, r.hub, entriesTable, userID, func(ctx context.Context) ([]entities.DailyMacros, error) {
		entries, err := r.entriesInRange(ctx, userID, startDate, endDate)
		if err != nil {
			return nil, err
		}
		return RangeTotals(entries), nil
	})
}

func (r *macroRepository) ObserveRecentEntries(ctx context.Context, userID uint, limit int) <-chan []*entities.MacroEntry {
	return watch.Observe(ctx, r.hub, entriesTable, userID, func(ctx context.Context) ([]*entities.MacroEntry, error) {
		return r.RecentEntries(ctx, userID, limit)
	})
}
