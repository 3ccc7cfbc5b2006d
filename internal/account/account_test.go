package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/identity"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
)

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) SendOTP(ctx context.Context, phone, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codes == nil {
		c.codes = make(map[string]string)
	}
	c.codes[phone] = code
	return nil
}

func (c *captureSender) code(phone string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[phone]
}

func newTestService(t *testing.T) (*Service, *repository.MemoryStore, *captureSender, *identity.JWTManager) {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens, err := identity.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	sender := &captureSender{}
	return NewService(store, tokens, sender, nil), store, sender, tokens
}

func TestPhoneLoginNewAndReturningUser(t *testing.T) {
	ctx := context.Background()
	svc, _, sender, tokens := newTestService(t)

	if _, err := svc.RequestOTP(ctx, "99900 01111"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	result, err := svc.VerifyOTP(ctx, "9990001111", sender.code("9990001111"))
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if !result.IsNewUser || result.UserID == "" {
		t.Fatalf("unexpected first login %+v", result)
	}
	id, err := tokens.Verify(ctx, result.Token)
	if err != nil || id.UID != result.UserID {
		t.Fatalf("issued token does not verify: %v %+v", err, id)
	}

	if _, err := svc.CreateUserAccount(ctx, result.UserID, ProfileInput{Name: "Officer", Phone: "9990001111"}); err != nil {
		t.Fatalf("CreateUserAccount: %v", err)
	}

	if _, err := svc.RequestOTP(ctx, "9990001111"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	again, err := svc.VerifyOTP(ctx, "9990001111", sender.code("9990001111"))
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if again.IsNewUser || again.UserID != result.UserID {
		t.Fatalf("returning user got %+v", again)
	}

	_, err = svc.VerifyOTP(ctx, "9990001111", sender.code("9990001111"))
	if apperr.KindOf(err) != apperr.FailedPrecondition {
		t.Fatalf("codes must be single use, got %v", err)
	}
}

func TestVerifyOTPAttemptsAndExpiry(t *testing.T) {
	ctx := context.Background()
	svc, _, sender, _ := newTestService(t)
	phone := "9990002222"

	if _, err := svc.RequestOTP(ctx, phone); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	wrong := "000000"
	if sender.code(phone) == wrong {
		wrong = "111111"
	}
	for i := 0; i < MaxOTPAttempts; i++ {
		_, err := svc.VerifyOTP(ctx, phone, wrong)
		if apperr.KindOf(err) != apperr.Unauthenticated {
			t.Fatalf("attempt %d: expected unauthenticated, got %v", i, err)
		}
	}
	_, err := svc.VerifyOTP(ctx, phone, sender.code(phone))
	if apperr.KindOf(err) != apperr.FailedPrecondition {
		t.Fatalf("locked code accepted: %v", err)
	}

	if _, err := svc.RequestOTP(ctx, phone); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(OTPTTL + time.Second) }
	_, err = svc.VerifyOTP(ctx, phone, sender.code(phone))
	if apperr.KindOf(err) != apperr.FailedPrecondition {
		t.Fatalf("expired code accepted: %v", err)
	}
}

func TestRequestOTPRejectsBadPhone(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	for _, phone := range []string{"", "12345", "phone-number", "+1234567890123456"} {
		if _, err := svc.RequestOTP(context.Background(), phone); apperr.KindOf(err) != apperr.InvalidArgument {
			t.Errorf("%q: expected invalid-argument, got %v", phone, err)
		}
	}
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newTestService(t)

	_, err := svc.GetUserProfile(ctx, "u1")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
	_, err = svc.CreateUserAccount(ctx, "u1", ProfileInput{Name: "Asha"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("missing phone: expected invalid-argument, got %v", err)
	}
	_, err = svc.CreateUserAccount(ctx, "u1", ProfileInput{Name: "Asha", Phone: "1", Email: "nope"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("bad email: expected invalid-argument, got %v", err)
	}

	admin := &models.User{UID: "u1", Name: "Asha", Phone: "9990003333", IsAdmin: true, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.UpsertUser(ctx, admin); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	merged, err := svc.CreateUserAccount(ctx, "u1", ProfileInput{Name: "Asha K", Phone: "9990003333", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("CreateUserAccount: %v", err)
	}
	if !merged.CreatedAt.Equal(admin.CreatedAt) || !merged.IsAdmin {
		t.Fatalf("merge lost createdAt or isAdmin: %+v", merged)
	}

	updated, err := svc.UpdateUserProfile(ctx, "u1", ProfileInput{Name: "Asha Kumar", Phone: "9990004444"})
	if err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if updated.Name != "Asha Kumar" || updated.Email != nil || !updated.IsAdmin {
		t.Fatalf("unexpected profile %+v", updated)
	}

	_, err = svc.UpdateUserProfile(ctx, "ghost", ProfileInput{Name: "X", Phone: "9990005555"})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestProfilePhoneMatchesLoginPhone(t *testing.T) {
	ctx := context.Background()
	svc, store, sender, _ := newTestService(t)

	created, err := svc.CreateUserAccount(ctx, "uid-1", ProfileInput{Name: "Ravi", Phone: " 99900 01111 "})
	if err != nil {
		t.Fatalf("CreateUserAccount: %v", err)
	}
	if created.Phone != "9990001111" {
		t.Fatalf("stored phone = %q", created.Phone)
	}

	if _, err := svc.RequestOTP(ctx, "9990-001-111"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	result, err := svc.VerifyOTP(ctx, "9990001111", sender.code("9990001111"))
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if result.IsNewUser || result.UserID != "uid-1" {
		t.Fatalf("login did not find the profile: %+v", result)
	}

	if _, err := svc.UpdateUserProfile(ctx, "uid-1", ProfileInput{Name: "Ravi", Phone: "+91 99900-02222"}); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if _, err := store.GetUserByPhone(ctx, "+919990002222"); err != nil {
		t.Fatalf("updated phone not normalized: %v", err)
	}

	_, err = svc.CreateUserAccount(ctx, "uid-2", ProfileInput{Name: "Asha", Phone: "12-34"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("short phone: expected invalid-argument, got %v", err)
	}
}

func TestAddresses(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateAddress(ctx, "u1", AddressInput{Street: "1 MG Road"})
	if apperr.KindOf(err) != apperr.InvalidArgument {
		t.Fatalf("expected invalid-argument, got %v", err)
	}

	address, err := svc.CreateAddress(ctx, "u1", AddressInput{Street: "1 MG Road", City: "Pune", State: "MH", Country: "India", Zipcode: "411001"})
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if address.Text() != "1 MG Road, Pune, MH, India, 411001" {
		t.Fatalf("Text() = %q", address.Text())
	}

	mine, _ := svc.ListAddresses(ctx, "u1")
	theirs, _ := svc.ListAddresses(ctx, "u2")
	if len(mine) != 1 || len(theirs) != 0 {
		t.Fatalf("mine=%d theirs=%d", len(mine), len(theirs))
	}
}
