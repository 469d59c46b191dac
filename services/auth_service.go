//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/errors"
	"pairchat/repositories"
	"pairchat/storage"
)

type IAuthService interface {
	Register(fullName, email, password string) (domain.User, string, error)
	Login(email, password string) (domain.User, string, error)
	CheckAuth(id domain.Identity) (domain.User, error)
	UpdateProfilePic(id domain.Identity, image []byte) (domain.User, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	assets         storage.IAssetStore
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, assets storage.IAssetStore,
	tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, assets: assets, tokens: tokens}
}

// Register validates the request, hashes the password and persists the new
// account, then issues the initial session token. Validation comes first so
// no expensive cryptographic work happens on garbage input.
func (s *AuthService) Register(fullName, email, password string) (domain.User, string, error) {
	req := auth.SignupRequest{FullName: fullName, Email: email, Password: password}
	if err := auth.ValidateSignup(req); err != nil {
		return domain.User{}, "", err
	}

	// Hashing happens in the service layer to keep the repository unaware
	// of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(fullName, email, hashedPassword)
	if err != nil {
		return domain.User{}, "", err // propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := s.tokens.Generate(string(user.ID))
	if err != nil {
		return domain.User{}, "", errors.ErrTokenGeneration
	}
	return user, token, nil
}

// Login checks the credentials and issues a session token. Every failure
// collapses into the same generic error to prevent user enumeration.
func (s *AuthService) Login(email, password string) (domain.User, string, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(string(user.ID))
	if err != nil {
		return domain.User{}, "", errors.ErrTokenGeneration
	}
	return user, token, nil
}

func (s *AuthService) CheckAuth(id domain.Identity) (domain.User, error) {
	return s.userRepository.GetUserByID(id)
}

// UpdateProfilePic stores the uploaded avatar and swaps the account's
// reference to it.
func (s *AuthService) UpdateProfilePic(id domain.Identity, image []byte) (domain.User, error) {
	ref, err := s.assets.Store(image)
	if err != nil {
		return domain.User{}, err
	}
	return s.userRepository.UpdateProfilePic(id, ref)
}
