package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
	"lolitems/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is used when AuthConfig.TokenTTL is zero.
const DefaultTokenTTL = 30 * time.Minute

// AuthConfig holds the process-wide signing settings.
type AuthConfig struct {
	Secret     string
	Algorithm  string // HS256, HS384 or HS512; empty means HS256
	TokenTTL   time.Duration
	BcryptCost int // zero means bcrypt.DefaultCost
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	secret    []byte
	method    *jwt.SigningMethodHMAC
	tokenTTL  time.Duration
	cost      int
	dummyHash []byte // compared against when the user does not exist
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig) (*AuthService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password verifier: %w", err)
	}

	return &AuthService{
		userRepo:  userRepo,
		secret:    []byte(cfg.Secret),
		method:    method,
		tokenTTL:  ttl,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

// HashPassword returns a salted bcrypt hash of plain.
func (s *AuthService) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches hash.
func (s *AuthService) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Authenticate checks credentials. An unknown user and a wrong password
// produce the same ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := s.userRepo.Get(ctx, userName)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn the same bcrypt time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperror.ErrUnauthorized
		}
		log.Printf("Error loading user %s for authentication: %v", userName, err)
		return nil, apperror.ErrStorage
	}

	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// Login authenticates a user and returns a bearer token if successful.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*models.Token, error) {
	user, err := s.Authenticate(ctx, userName, password)
	if err != nil {
		return nil, err
	}
	return s.IssueToken(user.UserName)
}

// IssueToken signs a token for userName valid for the configured TTL.
func (s *AuthService) IssueToken(userName string) (*models.Token, error) {
	return s.IssueTokenWithTTL(userName, s.tokenTTL)
}

// IssueTokenWithTTL signs a token for userName that expires after ttl.
func (s *AuthService) IssueTokenWithTTL(userName string, ttl time.Duration) (*models.Token, error) {
	now := time.Now()
	token := jwt.NewWithClaims(s.method, jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   userName,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.Token{
		AccessToken: tokenString,
		TokenType:   models.TokenTypeBearer,
	}, nil
}

// ResolveIdentity verifies tokenString and loads the user it names. Every
// token problem, and a subject that no longer exists, is ErrUnauthorized.
func (s *AuthService) ResolveIdentity(ctx context.Context, tokenString string) (*models.User, error) {
	subject, err := s.parseSubject(tokenString)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.userRepo.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		log.Printf("Error loading user %s from token: %v", subject, err)
		return nil, apperror.ErrStorage
	}
	return user, nil
}

// RequireActive passes active users through unchanged.
func (s *AuthService) RequireActive(user *models.User) (*models.User, error) {
	if user == nil || !user.Active {
		return nil, apperror.ErrForbidden
	}
	return user, nil
}

func (s *AuthService) parseSubject(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{ValidMethods: []string{s.method.Alg()}}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.ExpiresAt == 0 {
		return "", errors.New("missing expiry")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}
