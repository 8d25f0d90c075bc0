package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// AuthService registers and authenticates users and issues HS256 tokens.
type AuthService struct {
	Users     domain.UserRepository
	JWTSecret []byte
	JWTExpiry time.Duration
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users domain.UserRepository, secret string, expiry time.Duration) AuthService {
	return AuthService{
		Users:     users,
		JWTSecret: []byte(secret),
		JWTExpiry: expiry,
		now:       time.Now,
	}
}

// Claims are the token claims carried by an auth token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// RegisterInput is the validated payload of a registration request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is a signed token with the user it identifies.
type AuthResult struct {
	Token string
	User  domain.User
}

// Register creates a user with a bcrypt password hash and returns a token.
// An existing email yields ErrConflict.
func (s AuthService) Register(ctx domain.Context, in RegisterInput) (AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResult{}, fmt.Errorf("op=auth.Register: %w: email and password are required", domain.ErrInvalidArgument)
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, fmt.Errorf("op=auth.Register: %w: user already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("op=auth.Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.Register: %w", err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         "user",
	}
	id, err := s.Users.Create(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("op=auth.Register: %w", err)
	}
	user.ID = id

	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s AuthService) Login(ctx domain.Context, email, password string) (AuthResult, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("op=auth.Login: %w: invalid credentials", domain.ErrUnauthorized)
		}
		return AuthResult{}, fmt.Errorf("op=auth.Login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, fmt.Errorf("op=auth.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}
	token, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

func (s AuthService) issueToken(user domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.JWTExpiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("op=auth.issueToken: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates a token, returning its claims.
func (s AuthService) VerifyToken(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("op=auth.VerifyToken: %w: invalid token", domain.ErrUnauthorized)
	}
	return claims, nil
}
