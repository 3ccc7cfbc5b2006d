package challan

import (
	"context"
	"strings"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ChallanDetails struct {
	Challan *models.Challan       `json:"challan"`
	Photos  []models.ChallanPhoto `json:"photos"`
}

type ListInput struct {
	Type   string
	Status string
	Limit  int
	Cursor string
}

type ChallanPage struct {
	Challans []models.Challan `json:"challans"`
	HasMore  bool             `json:"hasMore"`
	Cursor   string           `json:"cursor,omitempty"`
}

func (s *Service) GetChallanDetails(ctx context.Context, uid, challanID string) (*ChallanDetails, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	challan, err := s.getChallan(ctx, challanID)
	if err != nil {
		return nil, err
	}

	photos, err := s.store.ListPhotos(ctx, challan.ChallanID)
	if err != nil {
		return nil, s.fail("Failed to load challan photos.", err, zap.String("challan_id", challan.ChallanID))
	}
	if photos == nil {
		photos = []models.ChallanPhoto{}
	}
	return &ChallanDetails{Challan: challan, Photos: photos}, nil
}

// ListUserChallans pages through the caller's own challans, newest first.
func (s *Service) ListUserChallans(ctx context.Context, uid string, in ListInput) (*ChallanPage, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	query := repository.ChallanQuery{UserID: uid, Limit: in.Limit}

	switch t := strings.ToLower(strings.TrimSpace(in.Type)); t {
	case "", "all":
	default:
		if !models.SubjectType(t).Valid() {
			return nil, apperr.New(apperr.InvalidArgument, "type must be one of: all, person, shop")
		}
		query.Type = models.SubjectType(t)
	}

	switch st := strings.ToLower(strings.TrimSpace(in.Status)); st {
	case "", "all":
	case string(models.PaymentStatusPending), string(models.PaymentStatusCompleted):
		query.Status = models.PaymentStatus(st)
	default:
		return nil, apperr.New(apperr.InvalidArgument, "status must be one of: all, pending, completed")
	}

	switch {
	case query.Limit < 0:
		return nil, apperr.New(apperr.InvalidArgument, "limit must be a positive integer")
	case query.Limit == 0:
		query.Limit = DefaultPageSize
	case query.Limit > MaxPageSize:
		query.Limit = MaxPageSize
	}

	if in.Cursor != "" {
		cursor, err := helpers.DecodeCursor(in.Cursor)
		if err != nil {
			return nil, apperr.New(apperr.InvalidArgument, "Invalid cursor.")
		}
		query.After = cursor
	}

	challans, err := s.store.ListChallans(ctx, query)
	if err != nil {
		return nil, s.fail("Failed to list challans.", err, zap.String("user_id", uid))
	}

	page := &ChallanPage{
		Challans: challans,
		HasMore:  len(challans) == query.Limit,
	}
	if page.Challans == nil {
		page.Challans = []models.Challan{}
	}
	if n := len(challans); n > 0 {
		last := challans[n-1]
		page.Cursor = helpers.EncodeCursor(repository.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}
