// Package dashboard summarises an officer's challans and collections.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	recentChallanLimit = 10
	recentPaymentLimit = 5

	ActivityChallanCreated   = "challan_created"
	ActivityPaymentCompleted = "payment_completed"
)

type Stats struct {
	TotalChallans     int             `json:"totalChallans"`
	PersonChallans    int             `json:"personChallans"`
	ShopChallans      int             `json:"shopChallans"`
	PendingPayments   int             `json:"pendingPayments"`
	CompletedPayments int             `json:"completedPayments"`
	TotalCollected    decimal.Decimal `json:"totalCollected"`
}

type MonthlyStats struct {
	TotalChallans   int             `json:"totalChallans"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CollectedAmount decimal.Decimal `json:"collectedAmount"`
	PendingAmount   decimal.Decimal `json:"pendingAmount"`
}

type Activity struct {
	Type          string             `json:"type"`
	ChallanID     string             `json:"challanId"`
	ChallanType   models.SubjectType `json:"challanType,omitempty"`
	Name          string             `json:"name,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

type Summary struct {
	Stats          Stats        `json:"stats"`
	MonthlyStats   MonthlyStats `json:"monthlyStats"`
	RecentActivity []Activity   `json:"recentActivity"`
}

// StartOfMonth is midnight UTC on the first day of now's month.
func StartOfMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Aggregate builds the summary from every challan of one owner and that
// owner's completed payments. challans need not be sorted.
func Aggregate(challans []models.Challan, completed []models.Payment, now time.Time) Summary {
	monthStart := StartOfMonth(now)
	summary := Summary{RecentActivity: []Activity{}}

	for _, c := range challans {
		summary.Stats.TotalChallans++
		switch c.Type {
		case models.SubjectPerson:
			summary.Stats.PersonChallans++
		case models.SubjectShop:
			summary.Stats.ShopChallans++
		}

		switch c.PaymentStatus {
		case models.PaymentStatusPending:
			summary.Stats.PendingPayments++
		case models.PaymentStatusCompleted:
			summary.Stats.CompletedPayments++
			summary.Stats.TotalCollected = summary.Stats.TotalCollected.Add(c.Penalty)
		}

		if !c.CreatedAt.Before(monthStart) {
			summary.MonthlyStats.TotalChallans++
			summary.MonthlyStats.TotalAmount = summary.MonthlyStats.TotalAmount.Add(c.Penalty)
			if c.IsPaid() {
				summary.MonthlyStats.CollectedAmount = summary.MonthlyStats.CollectedAmount.Add(c.Penalty)
			} else {
				summary.MonthlyStats.PendingAmount = summary.MonthlyStats.PendingAmount.Add(c.Penalty)
			}
		}
	}

	recent := make([]models.Challan, len(challans))
	copy(recent, challans)
	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].CreatedAt.Equal(recent[j].CreatedAt) {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		}
		return recent[i].ID > recent[j].ID
	})
	if len(recent) > recentChallanLimit {
		recent = recent[:recentChallanLimit]
	}
	for _, c := range recent {
		summary.RecentActivity = append(summary.RecentActivity, Activity{
			Type:        ActivityChallanCreated,
			ChallanID:   c.ChallanID,
			ChallanType: c.Type,
			Name:        c.SubjectName(),
			Amount:      c.Penalty,
			Timestamp:   c.CreatedAt,
		})
	}

	payments := make([]models.Payment, 0, len(completed))
	for _, p := range completed {
		if p.Status == models.PaymentStatusCompleted && p.CompletedAt != nil {
			payments = append(payments, p)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CompletedAt.After(*payments[j].CompletedAt)
	})
	if len(payments) > recentPaymentLimit {
		payments = payments[:recentPaymentLimit]
	}
	for _, p := range payments {
		summary.RecentActivity = append(summary.RecentActivity, Activity{
			Type:          ActivityPaymentCompleted,
			ChallanID:     p.ChallanID,
			Amount:        p.Amount,
			PaymentMethod: p.PaymentMethod,
			Timestamp:     *p.CompletedAt,
		})
	}

	sort.SliceStable(summary.RecentActivity, func(i, j int) bool {
		return summary.RecentActivity[i].Timestamp.After(summary.RecentActivity[j].Timestamp)
	})
	return summary
}

type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("dashboard"), now: time.Now}
}

func (s *Service) GetDashboardStats(ctx context.Context, uid string) (*Summary, error) {
	if uid == "" {
		return nil, apperr.New(apperr.Unauthenticated, "User must be authenticated.")
	}

	challans, err := s.store.ListChallans(ctx, repository.ChallanQuery{UserID: uid})
	if err != nil {
		s.logger.Error("failed to list challans", zap.String("user_id", uid), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "Failed to load dashboard.", err)
	}

	payments, err := s.store.ListPayments(ctx, repository.PaymentQuery{
		UserID: uid,
		Status: models.PaymentStatusCompleted,
		Limit:  recentPaymentLimit,
	})
	if err != nil {
		s.logger.Error("failed to list payments", zap.String("user_id", uid), zap.Error(err))
		return nil, apperr.Wrap(apperr.Internal, "Failed to load dashboard.", err)
	}

	summary := Aggregate(challans, payments, s.now())
	return &summary, nil
}
