package repository

import (
	"context"
	"time"

	"github.com/farellandr/echallan/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	_, err := s.collection(paymentsCollection).InsertOne(ctx, payment)
	return err
}

func (s *MongoStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s.collection(paymentsCollection), bson.M{"_id": id})
}

func (s *MongoStore) SetPaymentCheckout(ctx context.Context, id, reference, url, token string) error {
	return setOne(ctx, s.collection(paymentsCollection), bson.M{"_id": id}, bson.M{"$set": bson.M{
		"gatewayReference":  reference,
		"paymentGatewayUrl": url,
		"paymentToken":      token,
	}})
}

func (s *MongoStore) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string, at time.Time) (bool, error) {
	set := bson.M{
		"status":        status,
		"transactionId": transactionID,
		"updatedAt":     at,
	}
	if status == models.PaymentStatusCompleted {
		set["completedAt"] = at
	}

	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.PaymentStatusCompleted}}
	result, err := s.collection(paymentsCollection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	if result.MatchedCount == 1 {
		return true, nil
	}

	if _, err := s.GetPayment(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *MongoStore) SetPaymentReceipt(ctx context.Context, id, receiptURL string) error {
	return setOne(ctx, s.collection(paymentsCollection), bson.M{"_id": id}, bson.M{"$set": bson.M{
		"receiptUrl": receiptURL,
	}})
}

func (s *MongoStore) ListPayments(ctx context.Context, query PaymentQuery) ([]models.Payment, error) {
	filter := bson.M{}
	if query.UserID != "" {
		filter["userId"] = query.UserID
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "createdAt", Value: -1}})
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	return findAll[models.Payment](ctx, s.collection(paymentsCollection), filter, opts)
}
