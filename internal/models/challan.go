package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Penalties travel as JSON numbers, never as quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type SubjectType string

const (
	SubjectPerson SubjectType = "person"
	SubjectShop   SubjectType = "shop"
)

func (t SubjectType) Valid() bool {
	return t == SubjectPerson || t == SubjectShop
}

type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeOnline PaymentType = "online"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeCash || t == PaymentTypeOnline
}

// PaymentStatus is shared by challans and payments. A challan only ever
// moves pending -> completed; failed is reserved for payments.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type QRStatus string

const (
	QRStatusPending QRStatus = "pending"
	QRStatusReady   QRStatus = "ready"
)

type Challan struct {
	ID            string          `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	ChallanID     string          `json:"challanId" bson:"challanId" gorm:"uniqueIndex;not null"`
	UserID        string          `json:"userId" bson:"userId" gorm:"index:idx_challans_user_created,priority:1;not null"`
	Type          SubjectType     `json:"type" bson:"type" gorm:"not null"`
	Name          string          `json:"name,omitempty" bson:"name,omitempty"`
	ShopName      string          `json:"shopName,omitempty" bson:"shopName,omitempty"`
	ContactPerson string          `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	Phone         string          `json:"phone" bson:"phone" gorm:"not null"`
	AddressID     *string         `json:"addressId,omitempty" bson:"addressId,omitempty"`
	AddressText   string          `json:"addressText,omitempty" bson:"addressText,omitempty"`
	Penalty       decimal.Decimal `json:"penalty" bson:"penalty" gorm:"type:numeric;not null"`
	Reason        string          `json:"reason" bson:"reason" gorm:"not null"`
	Remarks       string          `json:"remarks" bson:"remarks"`
	PaymentType   PaymentType     `json:"paymentType" bson:"paymentType" gorm:"not null"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" bson:"paymentStatus" gorm:"index;not null;default:'pending'"`
	QRStatus      QRStatus        `json:"qrStatus" bson:"qrStatus" gorm:"not null;default:'pending'"`
	QRCodeURL     string          `json:"qrCodeUrl,omitempty" bson:"qrCodeUrl,omitempty"`
	PaymentID     *string         `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt" gorm:"index:idx_challans_user_created,priority:2,sort:desc"`
	PaidAt        *time.Time      `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

func (challan *Challan) BeforeCreate(tx *gorm.DB) (err error) {
	if challan.ID == "" {
		challan.ID = uuid.New().String()
	}
	return
}

// SubjectName is the display name of whoever the challan was issued against.
func (challan *Challan) SubjectName() string {
	if challan.Type == SubjectShop {
		return challan.ShopName
	}
	return challan.Name
}

func (challan *Challan) IsPaid() bool {
	return challan.PaymentStatus == PaymentStatusCompleted
}

type Address struct {
	ID        string    `json:"id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"userId" bson:"userId" gorm:"index;not null"`
	Street    string    `json:"street" bson:"street"`
	City      string    `json:"city" bson:"city"`
	State     string    `json:"state" bson:"state"`
	Country   string    `json:"country" bson:"country"`
	Zipcode   string    `json:"zipcode" bson:"zipcode"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (address *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	return
}

func (address *Address) Text() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", address.Street, address.City, address.State, address.Country, address.Zipcode)
}
