package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"notenexus-backend/internal/middleware"
	"notenexus-backend/internal/models"
	"notenexus-backend/internal/repository"
)

const (
	refreshTokenTTL  = 7 * 24 * time.Hour
	passwordResetTTL = time.Hour
	bcryptCost       = 12
)

type AuthService struct {
	userRepo       *repository.UserRepo
	redis          *redis.Client
	jwt            *middleware.JWTAuth
	email          *EmailService
	googleClientID string
}

func NewAuthService(userRepo *repository.UserRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, email *EmailService, googleClientID string) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		redis:          redisClient,
		jwt:            jwt,
		email:          email,
		googleClientID: googleClientID,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Register creates a password account and signs the user in straight away.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	// Validate all fields at once
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if err := validatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &UnauthorizedError{Message: "Account is deactivated"}
	}

	// Google-only accounts have no password hash.
	if user.PasswordHash == "" {
		return nil, &UnauthorizedError{Message: "This account uses Google sign-in"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	userIDStr, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	// Delete old token (rotation)
	s.redis.Del(ctx, "refresh:"+refreshToken)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, &UnauthorizedError{Message: "Account is deactivated"}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.redis.Del(ctx, "refresh:"+refreshToken).Err()
}

// GoogleLogin verifies a Google ID token and logs in, links or creates the
// matching user.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.googleClientID == "" {
		return nil, &ValidationError{Fields: map[string]string{"google": "Google sign-in is not configured"}}
	}

	payload, err := idtoken.Validate(ctx, idToken, s.googleClientID)
	if err != nil {
		log.Printf("✗ Google token rejected: %v", err)
		return nil, &UnauthorizedError{Message: "Invalid Google token"}
	}

	sub := payload.Subject
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	email = normalizeEmail(email)

	if email == "" || sub == "" {
		return nil, &ValidationError{Fields: map[string]string{"google": "Google account missing email"}}
	}

	user, err := s.userRepo.GetByGoogleID(ctx, sub)
	if err == nil {
		if !user.IsActive {
			return nil, &UnauthorizedError{Message: "Account is deactivated"}
		}
		s.userRepo.UpdateLastLogin(ctx, user.ID)
		return s.issueTokens(ctx, user)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Existing email user, link their Google account
	user, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if !user.IsActive {
			return nil, &UnauthorizedError{Message: "Account is deactivated"}
		}
		s.userRepo.LinkGoogle(ctx, user.ID, sub)
		s.userRepo.UpdateLastLogin(ctx, user.ID)
		return s.issueTokens(ctx, user)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var avatarURL *string
	if picture != "" {
		avatarURL = &picture
	}
	newUser := &models.User{
		Email:        email,
		Name:         name,
		AvatarURL:    avatarURL,
		AuthProvider: "google",
		GoogleID:     &sub,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, newUser)
}

// ForgotPassword mails a one hour reset link together with the user's
// activity stats. Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("⚠ Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := generateToken(32)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, "password_reset:"+token, user.ID.String(), passwordResetTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	stats, err := s.userRepo.GetStats(ctx, user.ID)
	if err != nil {
		return err
	}

	go s.email.SendPasswordResetEmail(user.Email, user.Name, token, ResetEmailStats{
		VideosProcessed: stats.Summaries,
		HoursSaved:      int(math.Round(float64(stats.Summaries) * 0.5)),
		QuizzesCreated:  stats.Quizzes,
		NotesCreated:    stats.Summaries,
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := validatePassword(req.Password); err != nil {
		return &ValidationError{Fields: map[string]string{"password": err.Error()}}
	}

	key := "password_reset:" + req.Token
	userIDStr, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return &NotFoundError{Message: "Invalid or expired reset token"}
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user ID in token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.redis.Del(ctx, key)
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}

	err = s.redis.Set(ctx, "refresh:"+refreshToken, user.ID.String(), refreshTokenTTL).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthResponse{
		AuthTokens: models.AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(middleware.AccessTokenTTL.Seconds()),
		},
		User: user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	hasNumber := false
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	return nil
}
