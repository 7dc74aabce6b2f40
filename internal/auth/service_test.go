package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mentoroid/user-service/internal/config"
	"github.com/mentoroid/user-service/internal/db"
	"github.com/mentoroid/user-service/internal/security"
	"github.com/mentoroid/user-service/internal/store"
)

// captureMailer records outbound mail instead of sending it.
type captureMailer struct {
	mu          sync.Mutex
	lastCode    string
	welcomeSent bool
	failSends   bool
}

func (m *captureMailer) SendRegistrationOTP(_ context.Context, _, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSends {
		return errors.New("smtp unreachable")
	}
	m.lastCode = code
	return nil
}

func (m *captureMailer) SendPasswordResetOTP(_ context.Context, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSends {
		return errors.New("smtp unreachable")
	}
	m.lastCode = code
	return nil
}

func (m *captureMailer) SendWelcome(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomeSent = true
	return nil
}

func (m *captureMailer) code() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode
}

func newTestService(t *testing.T) (*Service, *captureMailer, *store.UserStore) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "auth.db")
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	mail := &captureMailer{}
	users := store.NewUserStore(conn)
	svc := NewService(users, store.NewOTPLedger(conn), mail, config.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
	})
	return svc, mail, users
}

func TestRegistrationFlow(t *testing.T) {
	svc, mail, users := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "Asha", "Asha@Example.com", "pass-123"); errRegister != nil {
		t.Fatalf("register: %v", errRegister)
	}
	code := mail.code()
	if len(code) != 6 {
		t.Fatalf("want 6-digit code, got %q", code)
	}

	// No account exists until the code is verified.
	if _, errFind := users.FindByEmail(ctx, "asha@example.com"); !errors.Is(errFind, store.ErrNotFound) {
		t.Fatalf("account should not exist yet, got %v", errFind)
	}

	user, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", code)
	if errVerify != nil {
		t.Fatalf("verify: %v", errVerify)
	}
	if user.Email != "asha@example.com" || !user.IsVerified {
		t.Fatalf("unexpected user %+v", user)
	}

	// The parked code is spent.
	if _, errReplay := svc.VerifyRegistration(ctx, "asha@example.com", code); !errors.Is(errReplay, store.ErrNotFound) {
		t.Fatalf("replay: want ErrNotFound, got %v", errReplay)
	}

	// The original password works at login.
	logged, token, errLogin := svc.Login(ctx, "asha@example.com", "pass-123")
	if errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}
	if logged.ID != user.ID {
		t.Fatalf("login returned user %d, want %d", logged.ID, user.ID)
	}
	claims, errParse := security.ParseUserToken("test-secret", token)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims %+v do not match user", claims)
	}
}

func TestRegisterExistingEmail(t *testing.T) {
	svc, mail, _ := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "Asha", "asha@example.com", "pass-123"); errRegister != nil {
		t.Fatalf("register: %v", errRegister)
	}
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", mail.code()); errVerify != nil {
		t.Fatalf("verify: %v", errVerify)
	}

	if errAgain := svc.Register(ctx, "Imposter", "asha@example.com", "other"); !errors.Is(errAgain, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", errAgain)
	}
}

func TestRegisterMailFailureFailsCall(t *testing.T) {
	svc, mail, _ := newTestService(t)
	mail.failSends = true

	if errRegister := svc.Register(context.Background(), "Asha", "asha@example.com", "pass-123"); errRegister == nil {
		t.Fatal("register should fail when the code cannot be delivered")
	}
}

func TestVerifyRegistrationWrongCode(t *testing.T) {
	svc, mail, _ := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "Asha", "asha@example.com", "pass-123"); errRegister != nil {
		t.Fatalf("register: %v", errRegister)
	}
	wrong := "000000"
	if wrong == mail.code() {
		wrong = "000001"
	}
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", wrong); !errors.Is(errVerify, store.ErrMismatch) {
		t.Fatalf("want ErrMismatch, got %v", errVerify)
	}

	// The pending registration survives a wrong guess.
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", mail.code()); errVerify != nil {
		t.Fatalf("verify with correct code after wrong guess: %v", errVerify)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, mail, _ := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "Asha", "asha@example.com", "pass-123"); errRegister != nil {
		t.Fatalf("register: %v", errRegister)
	}
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", mail.code()); errVerify != nil {
		t.Fatalf("verify: %v", errVerify)
	}

	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "pass-123")
	_, _, errWrongPass := svc.Login(ctx, "asha@example.com", "wrong")
	if !errors.Is(errUnknown, ErrInvalidCredential) || !errors.Is(errWrongPass, ErrInvalidCredential) {
		t.Fatalf("want ErrInvalidCredential for both, got %v and %v", errUnknown, errWrongPass)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mail, _ := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "Asha", "asha@example.com", "old-pass"); errRegister != nil {
		t.Fatalf("register: %v", errRegister)
	}
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", mail.code()); errVerify != nil {
		t.Fatalf("verify: %v", errVerify)
	}

	if errRequest := svc.RequestReset(ctx, "asha@example.com"); errRequest != nil {
		t.Fatalf("request reset: %v", errRequest)
	}
	resetCode := mail.code()

	if errVerify := svc.VerifyReset(ctx, "asha@example.com", resetCode); errVerify != nil {
		t.Fatalf("verify reset: %v", errVerify)
	}
	if errComplete := svc.CompleteReset(ctx, "asha@example.com", "new-pass"); errComplete != nil {
		t.Fatalf("complete reset: %v", errComplete)
	}

	if _, _, errOld := svc.Login(ctx, "asha@example.com", "old-pass"); !errors.Is(errOld, ErrInvalidCredential) {
		t.Fatalf("old password should be dead, got %v", errOld)
	}
	if _, _, errNew := svc.Login(ctx, "asha@example.com", "new-pass"); errNew != nil {
		t.Fatalf("new password should work: %v", errNew)
	}

	// The reset entry is retired; a second completion has nothing to act on.
	if errAgain := svc.CompleteReset(ctx, "asha@example.com", "sneaky"); !errors.Is(errAgain, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound for spent reset, got %v", errAgain)
	}
}

func TestRequestResetUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	if errRequest := svc.RequestReset(context.Background(), "nobody@example.com"); !errors.Is(errRequest, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", errRequest)
	}
}

func TestValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if errRegister := svc.Register(ctx, "", "asha@example.com", "pass"); !errors.Is(errRegister, ErrValidation) {
		t.Fatalf("empty name: want ErrValidation, got %v", errRegister)
	}
	if _, errVerify := svc.VerifyRegistration(ctx, "asha@example.com", "12345"); !errors.Is(errVerify, ErrValidation) {
		t.Fatalf("short code: want ErrValidation, got %v", errVerify)
	}
	if _, _, errLogin := svc.Login(ctx, "asha@example.com", ""); !errors.Is(errLogin, ErrValidation) {
		t.Fatalf("empty password: want ErrValidation, got %v", errLogin)
	}
}
