package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"snapbook/internal/apperr"
	"snapbook/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(user *models.User) (interface{}, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, apperr.Validation("invalid user data: %v", err)
	}

	return us.userRepo.CreateUser(context.Background(), user)
}

func (us *UserService) AuthenticateUser(email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, apperr.Validation("invalid email format")
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, apperr.Validation("invalid password format")
	}

	return us.userRepo.AuthenticateUser(context.Background(), email, password)
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (us *UserService) GetUser(id uuid.UUID, accessToken string) (*models.User, error) {
	res, err := us.userRepo.GetUser(context.Background(), id, accessToken)
	if err != nil {
		return nil, err
	}
	return res, nil
}
