package macro

import (
	"SimpleMacro-Backend/domain"
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/pkg/mirror"
	"SimpleMacro-Backend/pkg/user"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type (
	MacroService interface {
		AddEntry(ctx context.Context, userID uint, req domain.AddEntryRequest) (domain.EntryResponse, error)
		UpdateEntry(ctx context.Context, userID uint, entryID uint, req domain.UpdateEntryRequest) (domain.EntryResponse, error)
		DeleteEntry(ctx context.Context, userID uint, entryID uint) error

		GetEntriesForDate(ctx context.Context, userID uint, date string) ([]domain.EntryResponse, error)
		GetDailySummary(ctx context.Context, userID uint, date string) (domain.DailySummaryResponse, error)
		GetRangeSummary(ctx context.Context, userID uint, startDate, endDate string) (domain.RangeSummaryResponse, error)
		GetRecentEntries(ctx context.Context, userID uint, limit int) ([]domain.EntryResponse, error)

		WatchDailySummary(ctx context.Context, userID uint, date string) (<-chan domain.DailySummaryResponse, error)
		WatchEntriesForDate(ctx context.Context, userID uint, date string) (<-chan []domain.EntryResponse, error)
		WatchRangeSummary(ctx context.Context, userID uint, startDate, endDate string) (<-chan domain.RangeSummaryResponse, error)
		WatchRecentEntries(ctx context.Context, userID uint, limit int) (<-chan []domain.EntryResponse, error)
	}

	macroService struct {
		macroRepository MacroRepository
		userRepository  user.UserRepository
		mirror          mirror.MirrorService
	}
)

func NewMacroService(macroRepository MacroRepository, userRepository user.UserRepository, mirrorService mirror.MirrorService) MacroService {
	return &macroService{
		macroRepository: macroRepository,
		userRepository:  userRepository,
		mirror:          mirrorService,
	}
}

// validateDate enforces the fixed-width zero-padded ISO form at the write
// path. Range queries compare dates lexicographically, so any other shape
// would silently break them.
func validateDate(date string) error {
	if len(date) != len("2006-01-02") {
		return domain.ErrInvalidDate
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.ErrInvalidDate
	}
	return nil
}

func (s *macroService) AddEntry(ctx context.Context, userID uint, req domain.AddEntryRequest) (domain.EntryResponse, error) {
	if err := validateDate(req.Date); err != nil {
		return domain.EntryResponse{}, err
	}
	if req.Carbs < 0 || req.Protein < 0 || req.Fat < 0 {
		return domain.EntryResponse{}, domain.ErrNegativeMacros
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EntryResponse{}, domain.ErrUserNotFound
		}
		return domain.EntryResponse{}, err
	}

	// Calories are always derived; client-supplied values are ignored.
	entry := &entities.MacroEntry{
		UserID:   userID,
		Date:     req.Date,
		Name:     req.Name,
		Calories: entities.CalculateCalories(req.Carbs, req.Protein, req.Fat),
		Carbs:    req.Carbs,
		Protein:  req.Protein,
		Fat:      req.Fat,
	}

	if err := s.macroRepository.AddEntry(ctx, entry); err != nil {
		return domain.EntryResponse{}, err
	}

	go func() {
		_ = s.mirror.SaveEntry(context.Background(), owner.Email, entry)
	}()

	return toEntryResponse(entry), nil
}

func (s *macroService) UpdateEntry(ctx context.Context, userID uint, entryID uint, req domain.UpdateEntryRequest) (domain.EntryResponse, error) {
	entry, err := s.macroRepository.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EntryResponse{}, domain.ErrEntryNotFound
		}
		return domain.EntryResponse{}, err
	}

	if entry.UserID != userID {
		return domain.EntryResponse{}, domain.ErrEntryNotOwned
	}

	// Replacement semantics: the request overwrites every field of the row.
	if err := validateDate(req.Date); err != nil {
		return domain.EntryResponse{}, err
	}
	if req.Carbs < 0 || req.Protein < 0 || req.Fat < 0 {
		return domain.EntryResponse{}, domain.ErrNegativeMacros
	}

	entry.Date = req.Date
	entry.Name = req.Name
	entry.Carbs = req.Carbs
	entry.Protein = req.Protein
	entry.Fat = req.Fat
	entry.Calories = entities.CalculateCalories(req.Carbs, req.Protein, req.Fat)

	if err := s.macroRepository.UpdateEntry(ctx, entry); err != nil {
		return domain.EntryResponse{}, err
	}

	if owner, err := s.userRepository.GetUserByID(ctx, userID); err == nil {
		go func() {
			_ = s.mirror.SaveEntry(context.Background(), owner.Email, entry)
		}()
	}

	return toEntryResponse(entry), nil
}

func (s *macroService) DeleteEntry(ctx context.Context, userID uint, entryID uint) error {
	entry, err := s.macroRepository.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEntryNotFound
		}
		return err
	}

	if entry.UserID != userID {
		return domain.ErrEntryNotOwned
	}

	if err := s.macroRepository.DeleteEntry(ctx, entry); err != nil {
		return err
	}

	if owner, err := s.userRepository.GetUserByID(ctx, userID); err == nil {
		go func() {
			_ = s.mirror.DeleteEntry(context.Background(), owner.Email, entryID)
		}()
	}

	return nil
}

func (s *macroService) GetEntriesForDate(ctx context.Context, userID uint, date string) ([]domain.EntryResponse, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entries, err := s.macroRepository.EntriesForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

func (s *macroService) GetDailySummary(ctx context.Context, userID uint, date string) (domain.DailySummaryResponse, error) {
	if err := validateDate(date); err != nil {
		return domain.DailySummaryResponse{}, err
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DailySummaryResponse{}, domain.ErrUserNotFound
		}
		return domain.DailySummaryResponse{}, err
	}

	totals, err := s.macroRepository.DailyMacros(ctx, userID, date)
	if err != nil {
		return domain.DailySummaryResponse{}, err
	}

	return toDailySummary(date, totals, owner), nil
}

func (s *macroService) GetRangeSummary(ctx context.Context, userID uint, startDate, endDate string) (domain.RangeSummaryResponse, error) {
	if err := validateDate(startDate); err != nil {
		return domain.RangeSummaryResponse{}, err
	}
	if err := validateDate(endDate); err != nil {
		return domain.RangeSummaryResponse{}, err
	}
	if startDate > endDate {
		return domain.RangeSummaryResponse{}, domain.ErrInvalidDateRange
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RangeSummaryResponse{}, domain.ErrUserNotFound
		}
		return domain.RangeSummaryResponse{}, err
	}

	days, err := s.macroRepository.MacrosForDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return domain.RangeSummaryResponse{}, err
	}

	response := domain.RangeSummaryResponse{
		StartDate: startDate,
		EndDate:   endDate,
		Days:      make([]domain.DailySummaryResponse, 0, len(days)),
	}
	for i := range days {
		response.Days = append(response.Days, toDailySummary(days[i].Date, &days[i], owner))
	}
	return response, nil
}

func (s *macroService) GetRecentEntries(ctx context.Context, userID uint, limit int) ([]domain.EntryResponse, error) {
	entries, err := s.macroRepository.RecentEntries(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// WatchDailySummary emits a fresh summary on every entry write for the
// account until ctx is cancelled.
func (s *macroService) WatchDailySummary(ctx context.Context, userID uint, date string) (<-chan domain.DailySummaryResponse, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	totals := s.macroRepository.ObserveDailyMacros(ctx, userID, date)
	out := make(chan domain.DailySummaryResponse, 1)

	go func() {
		defer close(out)
		for t := range totals {
			select {
			case out <- toDailySummary(date, t, owner):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *macroService) WatchEntriesForDate(ctx context.Context, userID uint, date string) (<-chan []domain.EntryResponse, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	entries := s.macroRepository.ObserveEntriesForDate(ctx, userID, date)
	out := make(chan []domain.EntryResponse, 1)

	go func() {
		defer close(out)
		for batch := range entries {
			select {
			case out <- toEntryResponses(batch):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *macroService) WatchRangeSummary(ctx context.Context, userID uint, startDate, endDate string) (<-chan domain.RangeSummaryResponse, error) {
	if err := validateDate(startDate); err != nil {
		return nil, err
	}
	if err := validateDate(endDate); err != nil {
		return nil, err
	}
	if startDate > endDate {
		return nil, domain.ErrInvalidDateRange
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	days := s.macroRepository.ObserveMacrosForDateRange(ctx, userID, startDate, endDate)
	out := make(chan domain.RangeSummaryResponse, 1)

	go func() {
		defer close(out)
		for batch := range days {
			response := domain.RangeSummaryResponse{
				StartDate: startDate,
				EndDate:   endDate,
				Days:      make([]domain.DailySummaryResponse, 0, len(batch)),
			}
			for i := range batch {
				response.Days = append(response.Days, toDailySummary(batch[i].Date, &batch[i], owner))
			}
			select {
			case out <- response:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *macroService) WatchRecentEntries(ctx context.Context, userID uint, limit int) (<-chan []domain.EntryResponse, error) {
	entries := s.macroRepository.ObserveRecentEntries(ctx, userID, limit)
	out := make(chan []domain.EntryResponse, 1)

	go func() {
		defer close(out)
		for batch := range entries {
			select {
			case out <- toEntryResponses(batch):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func toEntryResponse(entry *entities.MacroEntry) domain.EntryResponse {
	return domain.EntryResponse{
		ID:       entry.ID,
		Date:     entry.Date,
		Name:     entry.Name,
		Calories: entry.Calories,
		Carbs:    entry.Carbs,
		Protein:  entry.Protein,
		Fat:      entry.Fat,
		LoggedAt: entry.LoggedAt,
	}
}

func toEntryResponses(entries []*entities.MacroEntry) []domain.EntryResponse {
	responses := make([]domain.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}
	return responses
}

func toDailySummary(date string, totals *entities.DailyMacros, owner *entities.User) domain.DailySummaryResponse {
	summary := domain.DailySummaryResponse{Date: date}
	if totals != nil {
		summary.TotalCalories = totals.TotalCalories
		summary.TotalCarbs = totals.TotalCarbs
		summary.TotalProtein = totals.TotalProtein
		summary.TotalFat = totals.TotalFat
	}

	summary.CalorieProgress = GoalProgress(summary.TotalCalories, owner.CalorieGoal)
	summary.CarbProgress = GoalProgress(summary.TotalCarbs, owner.CarbGoal)
	summary.ProteinProgress = GoalProgress(summary.TotalProtein, owner.ProteinGoal)
	summary.FatProgress = GoalProgress(summary.TotalFat, owner.FatGoal)
	return summary
}
