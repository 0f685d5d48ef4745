package domain

import (
	"errors"
	"time"
)

// MinUsernameLength applies to the trimmed username.
const MinUsernameLength = 3

var (
	MessageSuccessRegister   = "account created successfully"
	MessageSuccessLogin      = "logged in successfully"
	MessageSuccessGetUser    = "success get user"
	MessageSuccessUpdateUser = "profile updated successfully"

	MessageFailedRegister   = "failed to create account"
	MessageFailedLogin      = "invalid credentials"
	MessageFailedGetUser    = "failed to get user"
	MessageFailedUpdateUser = "failed to update profile"

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Confirm  string `json:"confirm" validate:"required,eqfield=Password"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UpdateUserRequest struct {
		Username *string `json:"username" validate:"omitempty,min=3"`
		Email    *string `json:"email" validate:"omitempty,email"`
	}

	User struct {
		ID             string    `json:"id"`
		Username       string    `json:"username"`
		Email          string    `json:"email"`
		SavedRecipeIDs []string  `json:"saved_recipe_ids"`
		CreatedAt      time.Time `json:"created_at"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)
