package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	ID                string          `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	ChallanID         string          `json:"challanId" bson:"challanId" gorm:"index;not null"`
	UserID            string          `json:"userId" bson:"userId" gorm:"index;not null"`
	Amount            decimal.Decimal `json:"amount" bson:"amount" gorm:"type:numeric;not null"`
	PaymentMethod     string          `json:"paymentMethod" bson:"paymentMethod" gorm:"not null"`
	Status            PaymentStatus   `json:"status" bson:"status" gorm:"index;not null;default:'pending'"`
	TransactionID     string          `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	GatewayReference  string          `json:"gatewayReference,omitempty" bson:"gatewayReference,omitempty"`
	PaymentGatewayURL string          `json:"paymentGatewayUrl,omitempty" bson:"paymentGatewayUrl,omitempty"`
	PaymentToken      string          `json:"paymentToken,omitempty" bson:"paymentToken,omitempty"`
	ReceiptURL        string          `json:"receiptUrl,omitempty" bson:"receiptUrl,omitempty"`
	CreatedAt         time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" bson:"updatedAt"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	return
}

type ChallanPhoto struct {
	ID        string    `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	ChallanID string    `json:"challanId" bson:"challanId" gorm:"uniqueIndex:idx_challan_photos_index,priority:1;not null"`
	PhotoURL  string    `json:"photoUrl" bson:"photoUrl" gorm:"not null"`
	PhotoID   string    `json:"photoId" bson:"photoId" gorm:"not null"`
	Index     int       `json:"index" bson:"index" gorm:"uniqueIndex:idx_challan_photos_index,priority:2"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (photo *ChallanPhoto) BeforeCreate(tx *gorm.DB) (err error) {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	return
}
