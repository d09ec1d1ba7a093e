package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"ems/internal/platform/config"
	"ems/internal/platform/email"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrInvalidMFACode     = errors.New("invalid mfa code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

type Service struct {
	Store  *Store
	Mailer email.Mailer
	Cfg    config.Config
}

func NewService(store *Store, mailer email.Mailer, cfg config.Config) *Service {
	return &Service{Store: store, Mailer: mailer, Cfg: cfg}
}

type LoginResult struct {
	Token string
	User  User
}

func (s *Service) Login(ctx context.Context, emailAddr, password, mfaCode string) (LoginResult, error) {
	user, err := s.Store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			return LoginResult{}, ErrMFARequired
		}
		secret, err := s.Store.MFASecret(ctx, user.ID)
		if err != nil {
			return LoginResult{}, err
		}
		if !totp.Validate(mfaCode, secret) {
			return LoginResult{}, ErrInvalidMFACode
		}
	}

	token, err := GenerateToken(s.Cfg.JWTSecret, Claims{UserID: user.ID, Role: user.Role, Name: user.Name}, s.Cfg.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.CreateSession(ctx, user.ID, HashToken(token), time.Now().Add(s.Cfg.TokenTTL)); err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, userID, token string) error {
	return s.Store.RevokeSession(ctx, userID, HashToken(token))
}

// RequestReset always succeeds from the caller's point of view so that
// the endpoint does not leak which emails exist.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) error {
	user, err := s.Store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return nil
	}

	token := uuid.NewString()
	if err := s.Store.CreatePasswordReset(ctx, user.ID, HashToken(token), time.Now().Add(time.Hour)); err != nil {
		return err
	}

	link := strings.TrimRight(s.Cfg.ResetBaseURL, "/") + "/reset?token=" + token
	body := "A password reset was requested for your account.\r\n\r\n" +
		"Open the link below to choose a new password. The link expires in one hour.\r\n\r\n" + link
	return s.Mailer.Send(ctx, s.Cfg.EmailFrom, user.Email, "Password reset", body)
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	tokenHash := HashToken(token)
	userID, err := s.Store.PasswordResetUserID(ctx, tokenHash)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.Store.MarkPasswordResetUsed(ctx, tokenHash)
}

type MFASetup struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

func (s *Service) SetupMFA(ctx context.Context, userID, accountEmail string) (MFASetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "EMS", AccountName: accountEmail})
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.Store.UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), URL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	secret, err := s.Store.MFASecret(ctx, userID)
	if err != nil {
		return err
	}
	if secret == "" || !totp.Validate(code, secret) {
		return ErrInvalidMFACode
	}
	return s.Store.SetMFAEnabled(ctx, userID, true)
}

func (s *Service) DisableMFA(ctx context.Context, userID string) error {
	if err := s.Store.SetMFAEnabled(ctx, userID, false); err != nil {
		return err
	}
	return s.Store.UpdateMFASecret(ctx, userID, "")
}

func (s *Service) Profile(ctx context.Context, userID string) (User, error) {
	return s.Store.FindUserByID(ctx, userID)
}

// CreateEmployeeAccount provisions a login for a hired employee and
// returns the new user id.
func (s *Service) CreateEmployeeAccount(ctx context.Context, name, email, password string) (string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	return s.Store.CreateUser(ctx, name, strings.ToLower(strings.TrimSpace(email)), hash, RoleEmployee)
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
