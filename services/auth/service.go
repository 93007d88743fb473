package auth

import (
	"DuoPlay/models/postgres"
	"DuoPlay/utils"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultBcryptCost = 12

var (
	ErrEmailExists              = utils.NewAppError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
	ErrUsernameExists           = utils.NewAppError(http.StatusConflict, "USERNAME_EXISTS", "Username already taken")
	ErrInvalidCredentials       = utils.NewAppError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrInvalidRefreshToken      = utils.NewAppError(http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid refresh token")
	ErrRefreshTokenExpired      = utils.NewAppError(http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "Refresh token expired")
	ErrUserNotFound             = utils.NewAppError(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrInvalidPassword          = utils.NewAppError(http.StatusBadRequest, "INVALID_PASSWORD", "Current password is incorrect")
	ErrInvalidVerificationToken = utils.NewAppError(http.StatusBadRequest, "INVALID_VERIFICATION_TOKEN", "Invalid verification token")
)

type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=100"`
	Username    string `json:"username" binding:"required,min=3,max=20,username"`
	DisplayName string `json:"displayName" binding:"required,min=1,max=50"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	IsChild     bool   `json:"isChild"`
}

// ClientMeta is recorded with each refresh token
type ClientMeta struct {
	UserAgent string
	IP        string
}

type AuthResult struct {
	User         *postgres.User `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

type Options struct {
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

// Service implements registration, login and refresh token sessions
type Service struct {
	db         *gorm.DB
	tokens     *TokenManager
	refreshTTL time.Duration
	cost       int
	now        func() time.Time
}

func NewService(db *gorm.DB, tokens *TokenManager, opts Options) *Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	return &Service{
		db:         db,
		tokens:     tokens,
		refreshTTL: opts.RefreshTokenTTL,
		cost:       opts.BcryptCost,
		now:        time.Now,
	}
}

func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

func (s *Service) Register(ctx context.Context, in RegisterInput, meta ClientMeta) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	db := s.db.WithContext(ctx)

	if err := s.checkAvailable(db, email, in.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	verifyToken, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	user := &postgres.User{
		Email:            email,
		Username:         in.Username,
		DisplayName:      strings.TrimSpace(in.DisplayName),
		PasswordHash:     string(hash),
		IsChild:          in.IsChild,
		EmailVerifyToken: &verifyToken,
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", in.DateOfBirth)
		if err != nil {
			return nil, utils.ValidationError(utils.FieldError{Field: "dateOfBirth", Message: "Invalid date"})
		}
		user.DateOfBirth = &dob
	}

	var result *AuthResult
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost a race with another registration
				if availErr := s.checkAvailable(s.db.WithContext(ctx), email, in.Username); availErr != nil {
					return availErr
				}
				return ErrEmailExists
			}
			return err
		}
		var err error
		result, err = s.startSession(tx, user, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) checkAvailable(db *gorm.DB, email, username string) error {
	var count int64
	if err := db.Model(&postgres.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}
	if err := db.Model(&postgres.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameExists
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	db := s.db.WithContext(ctx)

	var user postgres.User
	if err := db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	user.LastSeenAt = &now
	if err := db.Model(&user).Update("last_seen_at", now).Error; err != nil {
		return nil, err
	}
	return s.startSession(db, &user, meta)
}

// Refresh rotates a refresh token: the old session is removed and a new
// access/refresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	db := s.db.WithContext(ctx)

	var session postgres.Session
	if err := db.Preload("User").Where("refresh_token = ?", refreshToken).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		if err := db.Where("id = ?", session.ID).Delete(&postgres.Session{}).Error; err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenExpired
	}

	var result *AuthResult
	err := db.Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("id = ?", session.ID).Delete(&postgres.Session{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			// rotated concurrently by another request
			return ErrInvalidRefreshToken
		}

		var err error
		result, err = s.startSession(tx, &session.User, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Logout deletes the session of refreshToken. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).Where("refresh_token = ?", refreshToken).Delete(&postgres.Session{}).Error
}

func (s *Service) GetUser(ctx context.Context, userID string) (*postgres.User, error) {
	var user postgres.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the password and ends every session of the user.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&postgres.Session{}).Error
	})
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidVerificationToken
	}
	res := s.db.WithContext(ctx).Model(&postgres.User{}).
		Where("email_verify_token = ?", token).
		Updates(map[string]any{"email_verified": true, "email_verify_token": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidVerificationToken
	}
	return nil
}

// TouchLastSeen stamps the user's lastSeenAt with the current time
func (s *Service) TouchLastSeen(ctx context.Context, userID string) (time.Time, error) {
	now := s.now().UTC()
	err := s.db.WithContext(ctx).Model(&postgres.User{}).Where("id = ?", userID).Update("last_seen_at", now).Error
	return now, err
}

func (s *Service) startSession(tx *gorm.DB, user *postgres.User, meta ClientMeta) (*AuthResult, error) {
	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	session := postgres.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    truncate(meta.UserAgent, 255),
		IP:           truncate(meta.IP, 64),
		ExpiresAt:    s.now().Add(s.refreshTTL).UTC(),
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
