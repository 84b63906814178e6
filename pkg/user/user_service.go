package user

import (
	"SimpleMacro-Backend/domain"
	"SimpleMacro-Backend/entities"
	"SimpleMacro-Backend/internal/utils"
	"SimpleMacro-Backend/internal/utils/mailing"
	"SimpleMacro-Backend/pkg/jwt"
	"SimpleMacro-Backend/pkg/mirror"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		LoginWithGoogle(ctx context.Context, req domain.GoogleLoginRequest) (domain.AuthResponse, error)
		LoginAsGuest(ctx context.Context) (domain.AuthResponse, error)

		Me(ctx context.Context, userID uint) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, userID uint, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		UpdateGoals(ctx context.Context, userID uint, req domain.UpdateGoalsRequest) (domain.UserResponse, error)
		UpdatePreferences(ctx context.Context, userID uint, req domain.UpdatePreferencesRequest) (domain.UserResponse, error)
		DeleteAccount(ctx context.Context, userID uint) error

		WatchProfile(ctx context.Context, userID uint) (<-chan domain.UserResponse, error)
	}

	// EntryPurger removes every entry owned by an account. Account deletion
	// purges entries first so no orphaned rows survive the account row.
	EntryPurger interface {
		DeleteAllEntriesForUser(ctx context.Context, userID uint) error
	}

	userService struct {
		userRepository UserRepository
		entryPurger    EntryPurger
		jwtService     jwt.JWTService
		authProvider   AuthProvider
		mirror         mirror.MirrorService
	}
)

func NewUserService(
	userRepository UserRepository,
	entryPurger EntryPurger,
	jwtService jwt.JWTService,
	authProvider AuthProvider,
	mirrorService mirror.MirrorService,
) UserService {
	return &userService{
		userRepository: userRepository,
		entryPurger:    entryPurger,
		jwtService:     jwtService,
		authProvider:   authProvider,
		mirror:         mirrorService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return domain.AuthResponse{}, domain.ErrCredentialsRequired
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.AuthResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	newUser := &entities.User{
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: string(hash),
		Age:          req.Age,
		Gender:       req.Gender,
		IsGuest:      false,
		IsDarkMode:   true,
		CalorieGoal:  2000,
		CarbGoal:     250,
		ProteinGoal:  150,
		FatGoal:      65,
	}
	applyBodyMetrics(newUser, req.WeightLbs, req.HeightFeet, req.HeightInches)

	if err := s.userRepository.UpsertUser(ctx, newUser); err != nil {
		return domain.AuthResponse{}, err
	}

	go func() {
		_ = mailing.SendWelcomeMail(newUser.Email, newUser.Username)
		_ = s.mirror.SaveUser(context.Background(), newUser.Email, newUser)
	}()

	return s.authResponse(newUser), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return domain.AuthResponse{}, domain.ErrCredentialsRequired
	}

	account, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}

	if account.IsGuest {
		return domain.AuthResponse{}, domain.ErrGuestCannotLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	return s.authResponse(account), nil
}

func (s *userService) LoginWithGoogle(ctx context.Context, req domain.GoogleLoginRequest) (domain.AuthResponse, error) {
	identity, err := s.authProvider.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	account, err := s.userRepository.GetUserByEmail(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, err
		}

		username := identity.Name
		if username == "" {
			username, _, _ = strings.Cut(identity.Email, "@")
		}
		account = &entities.User{
			Email:       identity.Email,
			Username:    username,
			Name:        identity.Name,
			IsGuest:     false,
			IsDarkMode:  true,
			CalorieGoal: 2000,
			CarbGoal:    250,
			ProteinGoal: 150,
			FatGoal:     65,
		}
		if err := s.userRepository.UpsertUser(ctx, account); err != nil {
			return domain.AuthResponse{}, err
		}

		saved := *account
		go func() {
			_ = s.mirror.SaveUser(context.Background(), saved.Email, &saved)
		}()
	}

	return s.authResponse(account), nil
}

func (s *userService) LoginAsGuest(ctx context.Context) (domain.AuthResponse, error) {
	guest := &entities.User{
		Email:       fmt.Sprintf("guest_%s@simplemacro.app", uuid.NewString()),
		Username:    "Guest",
		IsGuest:     true,
		IsDarkMode:  true,
		CalorieGoal: 2000,
		CarbGoal:    250,
		ProteinGoal: 150,
		FatGoal:     65,
	}

	if err := s.userRepository.UpsertUser(ctx, guest); err != nil {
		return domain.AuthResponse{}, err
	}

	return s.authResponse(guest), nil
}

func (s *userService) Me(ctx context.Context, userID uint) (domain.UserResponse, error) {
	account, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(account), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	account, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Age != nil {
		account.Age = req.Age
	}
	if req.Gender != nil {
		account.Gender = req.Gender
	}
	applyBodyMetrics(account, req.WeightLbs, req.HeightFeet, req.HeightInches)

	if err := s.userRepository.UpdateUser(ctx, account); err != nil {
		return domain.UserResponse{}, err
	}

	s.mirrorUser(account)
	return toUserResponse(account), nil
}

func (s *userService) UpdateGoals(ctx context.Context, userID uint, req domain.UpdateGoalsRequest) (domain.UserResponse, error) {
	for _, goal := range []*int{req.CalorieGoal, req.CarbGoal, req.ProteinGoal, req.FatGoal} {
		if goal != nil && *goal < 0 {
			return domain.UserResponse{}, domain.ErrInvalidGoal
		}
	}

	account, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	macrosChanged := false
	if req.CarbGoal != nil {
		account.CarbGoal = *req.CarbGoal
		macrosChanged = true
	}
	if req.ProteinGoal != nil {
		account.ProteinGoal = *req.ProteinGoal
		macrosChanged = true
	}
	if req.FatGoal != nil {
		account.FatGoal = *req.FatGoal
		macrosChanged = true
	}

	switch {
	case req.CalorieGoal != nil:
		account.CalorieGoal = *req.CalorieGoal
	case macrosChanged:
		// Same derivation as entries: target calories follow target macros.
		account.CalorieGoal = entities.CalculateCalories(
			account.CarbGoal,
			account.ProteinGoal,
			account.FatGoal,
		)
	}

	if err := s.userRepository.UpdateUser(ctx, account); err != nil {
		return domain.UserResponse{}, err
	}

	s.mirrorUser(account)
	return toUserResponse(account), nil
}

func (s *userService) UpdatePreferences(ctx context.Context, userID uint, req domain.UpdatePreferencesRequest) (domain.UserResponse, error) {
	account, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if req.IsDarkMode != nil {
		account.IsDarkMode = *req.IsDarkMode
	}

	if err := s.userRepository.UpdateUser(ctx, account); err != nil {
		return domain.UserResponse{}, err
	}

	s.mirrorUser(account)
	return toUserResponse(account), nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uint) error {
	account, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	// Entries first, then the account row. The two calls are not atomic,
	// but this order never leaves orphaned entries behind a deleted account.
	if err := s.entryPurger.DeleteAllEntriesForUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, userID); err != nil {
		return err
	}

	go func() {
		_ = s.mirror.DeleteUser(context.Background(), account.Email)
	}()

	return nil
}

// WatchProfile emits the account on every write to it. The stream ends when
// the account is deleted or ctx is cancelled.
func (s *userService) WatchProfile(ctx context.Context, userID uint) (<-chan domain.UserResponse, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	accounts := s.userRepository.ObserveUserByID(ctx, userID)
	out := make(chan domain.UserResponse, 1)

	go func() {
		defer close(out)
		for account := range accounts {
			if account == nil {
				return
			}
			select {
			case out <- toUserResponse(account):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *userService) getUser(ctx context.Context, userID uint) (*entities.User, error) {
	account, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *userService) authResponse(account *entities.User) domain.AuthResponse {
	return domain.AuthResponse{
		Token: s.jwtService.GenerateTokenUser(account.ID),
		User:  toUserResponse(account),
	}
}

func (s *userService) mirrorUser(account *entities.User) {
	saved := *account
	go func() {
		_ = s.mirror.SaveUser(context.Background(), saved.Email, &saved)
	}()
}

// applyBodyMetrics converts imperial input to the metric values the store
// keeps. Nil fields leave the stored values untouched.
func applyBodyMetrics(account *entities.User, weightLbs *float64, heightFeet, heightInches *int) {
	if weightLbs != nil {
		kg := utils.LbsToKg(*weightLbs)
		account.Weight = &kg
	}
	if heightFeet != nil {
		inches := 0
		if heightInches != nil {
			inches = *heightInches
		}
		cm := utils.FeetInchesToCm(*heightFeet, inches)
		account.Height = &cm
	}
}

func toUserResponse(account *entities.User) domain.UserResponse {
	response := domain.UserResponse{
		ID:          account.ID,
		Email:       account.Email,
		Username:    account.Username,
		Name:        account.Name,
		Age:         account.Age,
		WeightKg:    account.Weight,
		HeightCm:    account.Height,
		Gender:      account.Gender,
		IsGuest:     account.IsGuest,
		IsDarkMode:  account.IsDarkMode,
		CalorieGoal: account.CalorieGoal,
		CarbGoal:    account.CarbGoal,
		ProteinGoal: account.ProteinGoal,
		FatGoal:     account.FatGoal,
	}

	if account.Weight != nil {
		lbs := utils.RoundedLbs(*account.Weight)
		response.WeightLbs = &lbs
	}
	if account.Height != nil {
		feet, inches := utils.CmToFeetInches(*account.Height)
		response.HeightFeet = &feet
		response.HeightInches = &inches
	}
	return response
}
