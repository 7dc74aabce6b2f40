package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mentoroid/user-service/internal/config"
	"github.com/mentoroid/user-service/internal/mailer"
	"github.com/mentoroid/user-service/internal/models"
	"github.com/mentoroid/user-service/internal/security"
	"github.com/mentoroid/user-service/internal/store"
	log "github.com/sirupsen/logrus"
)

// Service orchestrates the credential and OTP lifecycle: registration with
// email verification, login, and password reset. It owns no HTTP concerns;
// the transport layer maps its errors to responses.
type Service struct {
	users  *store.UserStore
	ledger *store.OTPLedger
	mail   mailer.Mailer
	jwt    config.JWTConfig
}

// NewService constructs the auth service.
func NewService(users *store.UserStore, ledger *store.OTPLedger, mail mailer.Mailer, jwtCfg config.JWTConfig) *Service {
	return &Service{users: users, ledger: ledger, mail: mail, jwt: jwtCfg}
}

// Register parks a pending registration in the OTP ledger and emails the
// code. No user row is created until the code is verified. A send failure
// fails the call: the user has no other way to receive the code.
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = store.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return ErrValidation
	}

	if _, errFind := s.users.FindByEmail(ctx, email); errFind == nil {
		return ErrEmailTaken
	} else if !errors.Is(errFind, store.ErrNotFound) {
		return fmt.Errorf("auth: register: %w", errFind)
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("auth: register: %w", errHash)
	}

	code, errIssue := s.ledger.Issue(ctx, models.OTPKindRegister, email, models.RegistrationPayload{
		Name:         name,
		PasswordHash: hash,
	})
	if errIssue != nil {
		return fmt.Errorf("auth: register: %w", errIssue)
	}

	if errSend := s.mail.SendRegistrationOTP(ctx, email, name, code); errSend != nil {
		return fmt.Errorf("auth: register: %w", errSend)
	}
	return nil
}

// VerifyRegistration consumes the registration code and creates the
// verified user. The ledger entry is deleted only after the user row is
// durable; a retry after a crash between those steps fails with
// ErrEmailTaken because the account now exists. The welcome mail is
// best-effort and never rolls back the created account.
func (s *Service) VerifyRegistration(ctx context.Context, email, code string) (*models.User, error) {
	email = store.NormalizeEmail(email)
	if email == "" || len(code) != 6 {
		return nil, ErrValidation
	}

	entry, errConsume := s.ledger.Consume(ctx, models.OTPKindRegister, email, code)
	if errConsume != nil {
		return nil, errConsume
	}

	payload, errPayload := entry.RegistrationPayload()
	if errPayload != nil {
		return nil, fmt.Errorf("auth: verify registration: %w", errPayload)
	}

	user, errCreate := s.users.Create(ctx, payload.Name, email, payload.PasswordHash)
	if errCreate != nil {
		if errors.Is(errCreate, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: verify registration: %w", errCreate)
	}

	if errDelete := s.ledger.Delete(ctx, models.OTPKindRegister, email); errDelete != nil {
		log.WithError(errDelete).Warn("delete used registration otp failed")
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if errSend := s.mail.SendWelcome(sendCtx, user.Email, user.Name); errSend != nil {
			log.WithError(errSend).WithField("email", user.Email).Warn("welcome mail failed")
		}
	}()

	return user, nil
}

// Login verifies the password and mints a stateless session token with a
// 7-day expiry. Unknown email and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = store.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrValidation
	}

	user, errFind := s.users.FindByEmail(ctx, email)
	if errFind != nil {
		if errors.Is(errFind, store.ErrNotFound) {
			return nil, "", ErrInvalidCredential
		}
		return nil, "", fmt.Errorf("auth: login: %w", errFind)
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredential
	}

	token, errMint := security.MintUserToken(s.jwt.Secret, user.ID, user.Email, s.jwt.Expiry)
	if errMint != nil {
		return nil, "", fmt.Errorf("auth: login: %w", errMint)
	}
	return user, token, nil
}

// CurrentUser resolves verified session claims to the stored account.
func (s *Service) CurrentUser(ctx context.Context, userID uint64) (*models.User, error) {
	user, errFind := s.users.FindByID(ctx, userID)
	if errFind != nil {
		return nil, errFind
	}
	return user, nil
}

// RequestReset issues a password-reset code for an existing account. Unlike
// login, this flow reports unknown emails: the original behavior, preserved.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = store.NormalizeEmail(email)
	if email == "" {
		return ErrValidation
	}

	if _, errFind := s.users.FindByEmail(ctx, email); errFind != nil {
		return errFind
	}

	code, errIssue := s.ledger.Issue(ctx, models.OTPKindReset, email, nil)
	if errIssue != nil {
		return fmt.Errorf("auth: request reset: %w", errIssue)
	}

	if errSend := s.mail.SendPasswordResetOTP(ctx, email, code); errSend != nil {
		return fmt.Errorf("auth: request reset: %w", errSend)
	}
	return nil
}

// VerifyReset checks a reset code without consuming it, gating the reset
// form before the new password is submitted.
func (s *Service) VerifyReset(ctx context.Context, email, code string) error {
	email = store.NormalizeEmail(email)
	if email == "" || code == "" {
		return ErrValidation
	}
	_, errConsume := s.ledger.Consume(ctx, models.OTPKindReset, email, code)
	return errConsume
}

// CompleteReset overwrites the password hash and retires the ledger entry.
// It requires an open, unexpired reset request but does not demand the code
// again; VerifyReset already checked it one step earlier.
func (s *Service) CompleteReset(ctx context.Context, email, newPassword string) error {
	email = store.NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return ErrValidation
	}

	if _, errPeek := s.ledger.Peek(ctx, models.OTPKindReset, email); errPeek != nil {
		return errPeek
	}

	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		return fmt.Errorf("auth: complete reset: %w", errHash)
	}

	if errSet := s.users.SetPasswordHash(ctx, email, hash); errSet != nil {
		return errSet
	}

	if errDelete := s.ledger.Delete(ctx, models.OTPKindReset, email); errDelete != nil {
		log.WithError(errDelete).Warn("delete used reset otp failed")
	}
	return nil
}
