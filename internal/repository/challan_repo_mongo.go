package repository

import (
	"context"
	"time"

	"github.com/farellandr/echallan/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateChallan(ctx context.Context, challan *models.Challan) error {
	if challan.ID == "" {
		challan.ID = uuid.New().String()
	}
	if _, err := s.collection(challansCollection).InsertOne(ctx, challan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *MongoStore) GetChallan(ctx context.Context, challanID string) (*models.Challan, error) {
	return findOne[models.Challan](ctx, s.collection(challansCollection), bson.M{"challanId": challanID})
}

func (s *MongoStore) ListChallans(ctx context.Context, query ChallanQuery) ([]models.Challan, error) {
	filter := bson.M{"userId": query.UserID}
	if query.Type != "" {
		filter["type"] = query.Type
	}
	if query.Status != "" {
		filter["paymentStatus"] = query.Status
	}
	if query.After != nil {
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": query.After.CreatedAt}},
			bson.M{"createdAt": query.After.CreatedAt, "_id": bson.M{"$lt": query.After.ID}},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	return findAll[models.Challan](ctx, s.collection(challansCollection), filter, opts)
}

func (s *MongoStore) SetChallanQR(ctx context.Context, challanID, qrCodeURL string, status models.QRStatus) error {
	return setOne(ctx, s.collection(challansCollection), bson.M{"challanId": challanID}, bson.M{"$set": bson.M{
		"qrCodeUrl": qrCodeURL,
		"qrStatus":  status,
	}})
}

func (s *MongoStore) MarkChallanPaid(ctx context.Context, challanID, paymentID string, paidAt time.Time) (bool, error) {
	filter := bson.M{"challanId": challanID, "paymentStatus": models.PaymentStatusPending}
	result, err := s.collection(challansCollection).UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentStatusCompleted,
		"paymentId":     paymentID,
		"paidAt":        paidAt,
	}})
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 1 {
		return true, nil
	}

	if _, err := s.GetChallan(ctx, challanID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *MongoStore) CreatePhoto(ctx context.Context, photo *models.ChallanPhoto) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if _, err := s.collection(photosCollection).InsertOne(ctx, photo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *MongoStore) ListPhotos(ctx context.Context, challanID string) ([]models.ChallanPhoto, error) {
	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	return findAll[models.ChallanPhoto](ctx, s.collection(photosCollection), bson.M{"challanId": challanID}, opts)
}

func (s *MongoStore) CountPhotos(ctx context.Context, challanID string) (int, error) {
	n, err := s.collection(photosCollection).CountDocuments(ctx, bson.M{"challanId": challanID})
	return int(n), err
}
