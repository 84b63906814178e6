package domain

import "errors"

var (
	MessageSuccessRegister          = "user registered successfully"
	MessageSuccessLogin             = "login successful"
	MessageSuccessGuestLogin        = "guest session started"
	MessageSuccessGetProfile        = "profile retrieved successfully"
	MessageSuccessUpdateProfile     = "profile updated successfully"
	MessageSuccessUpdateGoals       = "goals updated successfully"
	MessageSuccessUpdatePreferences = "preferences updated successfully"
	MessageSuccessDeleteAccount     = "account deleted successfully"

	MessageFailedRegister          = "failed to register user"
	MessageFailedLogin             = "failed to login"
	MessageFailedGuestLogin        = "failed to start guest session"
	MessageFailedGetProfile        = "failed to retrieve profile"
	MessageFailedUpdateProfile     = "failed to update profile"
	MessageFailedUpdateGoals       = "failed to update goals"
	MessageFailedUpdatePreferences = "failed to update preferences"
	MessageFailedDeleteAccount     = "failed to delete account"

	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("user already exists, please login")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCredentialsRequired  = errors.New("email and password cannot be empty")
	ErrGuestCannotLogin     = errors.New("guest accounts cannot login with a password")
	ErrFederatedTokenDenied = errors.New("identity provider rejected the token")
	ErrInvalidGoal          = errors.New("goals must not be negative")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Username string `json:"username" validate:"required"`
		Name     string `json:"name" validate:"omitempty"`

		Age          *int     `json:"age" validate:"omitempty,min=1,max=150"`
		WeightLbs    *float64 `json:"weight_lbs" validate:"omitempty,gt=0"`
		HeightFeet   *int     `json:"height_feet" validate:"omitempty,min=0"`
		HeightInches *int     `json:"height_inches" validate:"omitempty,min=0,max=11"`
		Gender       *string  `json:"gender" validate:"omitempty,oneof=Male Female"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	GoogleLoginRequest struct {
		IDToken string `json:"id_token" validate:"required"`
	}

	AuthResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UserResponse struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Name     string `json:"name"`

		Age          *int     `json:"age,omitempty"`
		WeightKg     *float64 `json:"weight_kg,omitempty"`
		WeightLbs    *int     `json:"weight_lbs,omitempty"`
		HeightCm     *float64 `json:"height_cm,omitempty"`
		HeightFeet   *int     `json:"height_feet,omitempty"`
		HeightInches *int     `json:"height_inches,omitempty"`
		Gender       *string  `json:"gender,omitempty"`

		IsGuest    bool `json:"is_guest"`
		IsDarkMode bool `json:"is_dark_mode"`

		CalorieGoal int `json:"calorie_goal"`
		CarbGoal    int `json:"carb_goal"`
		ProteinGoal int `json:"protein_goal"`
		FatGoal     int `json:"fat_goal"`
	}

	UpdateProfileRequest struct {
		Name         string   `json:"name" validate:"omitempty"`
		Age          *int     `json:"age" validate:"omitempty,min=1,max=150"`
		WeightLbs    *float64 `json:"weight_lbs" validate:"omitempty,gt=0"`
		HeightFeet   *int     `json:"height_feet" validate:"omitempty,min=0"`
		HeightInches *int     `json:"height_inches" validate:"omitempty,min=0,max=11"`
		Gender       *string  `json:"gender" validate:"omitempty,oneof=Male Female"`
	}

	UpdateGoalsRequest struct {
		CarbGoal    *int `json:"carb_goal" validate:"omitempty,min=0"`
		ProteinGoal *int `json:"protein_goal" validate:"omitempty,min=0"`
		FatGoal     *int `json:"fat_goal" validate:"omitempty,min=0"`

		// When set, the calorie goal is taken as-is. When nil and any macro
		// goal changed, it is re-derived from the macro goals.
		CalorieGoal *int `json:"calorie_goal" validate:"omitempty,min=0"`
	}

	UpdatePreferencesRequest struct {
		IsDarkMode *bool `json:"is_dark_mode" validate:"required"`
	}
)
