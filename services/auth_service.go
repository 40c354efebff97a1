package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"bookstore/models"
	"bookstore/utils"
)

type AuthService struct {
	users UserRepository
	carts *CartService
	jwt   *utils.JWTManager
}

func NewAuthService(users UserRepository, carts *CartService, jwt *utils.JWTManager) *AuthService {
	return &AuthService{users: users, carts: carts, jwt: jwt}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     models.RoleCustomer,
	}
	profile := &models.UserProfile{
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if err := s.users.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	return s.session(ctx, user, req.GuestID)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, models.ErrInvalidCredentials
	}

	return s.session(ctx, user, req.GuestID)
}

// session issues the token and folds the guest cart, if any, into the user's cart.
func (s *AuthService) session(ctx context.Context, user *models.User, guestID string) (*models.LoginResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetUserWithProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.LoginResponse{Token: token, User: *profile}
	if s.carts != nil {
		cart, err := s.carts.MergeGuestCart(ctx, user.ID, guestID)
		if err != nil {
			log.Printf("auth: guest cart merge failed for user %d: %v", user.ID, err)
		} else {
			resp.Cart = cart
		}
	}
	return resp, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.UserWithProfile, error) {
	return s.users.GetUserWithProfile(ctx, userID)
}

// UpdateProfile only overwrites the fields present in the request.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.UserWithProfile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.Line != "" {
		profile.Line = req.Line
	}
	if req.City != "" {
		profile.City = req.City
	}
	if req.PostalCode != "" {
		profile.PostalCode = req.PostalCode
	}
	if req.Country != "" {
		profile.Country = strings.ToUpper(req.Country)
	}

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.users.GetUserWithProfile(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(user.Password, req.OldPassword)
	if err != nil || !valid {
		return models.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hashedPassword)
}

func (s *AuthService) ChangeEmail(ctx context.Context, userID int, req models.ChangeEmailRequest) (*models.UserWithProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, models.ErrInvalidCredentials
	}

	if err := s.users.UpdateEmail(ctx, userID, strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		return nil, err
	}
	return s.users.GetUserWithProfile(ctx, userID)
}
