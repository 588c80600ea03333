package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hummylol/oneonone/config"
	"github.com/Hummylol/oneonone/internal/domain"
	"github.com/Hummylol/oneonone/internal/repository"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"-"`
}

type AccessClaims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	if err := validateSignup(in); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, &newUser); err != nil {
		return domain.User{}, err
	}
	return newUser, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthResponse{}, oneonone_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, oneonone_errors.ErrInvalidPassword
	}

	token, issued, err := s.issueAccessToken(u.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		Token:     token,
		UserID:    u.ID.String(),
		Username:  u.Username,
		ExpiresIn: int64(s.accessTTL.Seconds()),
		IssuedAt:  issued,
	}, nil
}

// ParseAccessToken validates the signature and expiry of an access token and
// returns its claims. Both the auth middleware and the websocket handshake
// derive the caller's identity from this, never from client-supplied fields.
func (s *AuthService) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oneonone_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, oneonone_errors.ErrUnauthorized
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, oneonone_errors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now, nil
}

func validateSignup(in SignupInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return oneonone_errors.ErrInvalidInput
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return oneonone_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return oneonone_errors.ErrInvalidInput
	}
	return nil
}
