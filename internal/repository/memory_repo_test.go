package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/farellandr/echallan/internal/models"
	"github.com/shopspring/decimal"
)

func seedChallan(t *testing.T, store *MemoryStore, challanID, userID string, createdAt time.Time) models.Challan {
	t.Helper()
	challan := models.Challan{
		ChallanID:     challanID,
		UserID:        userID,
		Type:          models.SubjectPerson,
		Name:          "Ravi",
		Phone:         "9990001111",
		Penalty:       decimal.NewFromInt(500),
		Reason:        "No helmet",
		PaymentType:   models.PaymentTypeCash,
		PaymentStatus: models.PaymentStatusPending,
		QRStatus:      models.QRStatusPending,
		CreatedAt:     createdAt,
	}
	if err := store.CreateChallan(context.Background(), &challan); err != nil {
		t.Fatalf("CreateChallan: %v", err)
	}
	return challan
}

func TestCreateChallanRejectsDuplicateID(t *testing.T) {
	store := NewMemoryStore()
	seedChallan(t, store, "KDP1000000001", "u1", time.Now())

	dup := models.Challan{ChallanID: "KDP1000000001", UserID: "u2"}
	if err := store.CreateChallan(context.Background(), &dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestListChallansKeysetPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedChallan(t, store, fmt.Sprintf("KDP100000000%d", i), "owner", base.Add(time.Duration(i)*time.Minute))
	}
	seedChallan(t, store, "KDP2000000000", "someone-else", base.Add(time.Hour))

	first, err := store.ListChallans(ctx, ChallanQuery{UserID: "owner", Limit: 3})
	if err != nil {
		t.Fatalf("ListChallans: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 challans, got %d", len(first))
	}
	if first[0].ChallanID != "KDP1000000004" {
		t.Fatalf("newest challan should come first, got %s", first[0].ChallanID)
	}

	last := first[len(first)-1]
	second, err := store.ListChallans(ctx, ChallanQuery{
		UserID: "owner",
		Limit:  3,
		After:  &Cursor{CreatedAt: last.CreatedAt, ID: last.ID},
	})
	if err != nil {
		t.Fatalf("ListChallans: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 remaining challans, got %d", len(second))
	}
	for _, c := range append(first, second...) {
		if c.UserID != "owner" {
			t.Fatalf("listing leaked challan %s of %s", c.ChallanID, c.UserID)
		}
	}
}

func TestMarkChallanPaidOnlyOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seedChallan(t, store, "KDP1000000001", "u1", time.Now())

	firstPaid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ok, err := store.MarkChallanPaid(ctx, "KDP1000000001", "p1", firstPaid)
	if err != nil || !ok {
		t.Fatalf("first MarkChallanPaid = %v, %v", ok, err)
	}

	ok, err = store.MarkChallanPaid(ctx, "KDP1000000001", "p2", firstPaid.Add(time.Hour))
	if err != nil || ok {
		t.Fatalf("second MarkChallanPaid = %v, %v", ok, err)
	}

	challan, _ := store.GetChallan(ctx, "KDP1000000001")
	if *challan.PaymentID != "p1" || !challan.PaidAt.Equal(firstPaid) {
		t.Fatalf("second completion overwrote the first: %+v", challan)
	}

	if _, err := store.MarkChallanPaid(ctx, "missing", "p1", firstPaid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePaymentStatusKeepsCompletedTerminal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	payment := models.Payment{ChallanID: "KDP1000000001", UserID: "u1", Amount: decimal.NewFromInt(500), Status: models.PaymentStatusPending}
	if err := store.CreatePayment(ctx, &payment); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	at := time.Now().UTC()
	if ok, err := store.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusCompleted, "T1", at); err != nil || !ok {
		t.Fatalf("complete = %v, %v", ok, err)
	}
	if ok, err := store.UpdatePaymentStatus(ctx, payment.ID, models.PaymentStatusFailed, "T2", at.Add(time.Minute)); err != nil || ok {
		t.Fatalf("update after completion = %v, %v", ok, err)
	}

	stored, _ := store.GetPayment(ctx, payment.ID)
	if stored.Status != models.PaymentStatusCompleted || stored.TransactionID != "T1" {
		t.Fatalf("completed payment changed: %+v", stored)
	}
}

func TestUpsertUserKeepsCreatedAtAndAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := store.UpsertUser(ctx, &models.User{UID: "u1", Name: "Old", Phone: "1", IsAdmin: true, CreatedAt: created}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	user := models.User{UID: "u1", Name: "New", Phone: "2", CreatedAt: time.Now()}
	if err := store.UpsertUser(ctx, &user); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	stored, _ := store.GetUser(ctx, "u1")
	if stored.Name != "New" || !stored.CreatedAt.Equal(created) || !stored.IsAdmin {
		t.Fatalf("merge lost fields: %+v", stored)
	}
}
