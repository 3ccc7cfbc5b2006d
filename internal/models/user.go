package models

import (
	"time"
)

type User struct {
	UID       string    `json:"uid" bson:"_id" gorm:"column:uid;type:varchar(128);primaryKey"`
	Name      string    `json:"name" bson:"name" gorm:"not null"`
	Email     *string   `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone" gorm:"index;not null"`
	IsAdmin   bool      `json:"isAdmin" bson:"isAdmin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OTP is a pending phone verification. Only the bcrypt hash of the code is
// ever stored.
type OTP struct {
	Phone     string    `json:"phone" bson:"_id" gorm:"type:varchar(32);primaryKey"`
	CodeHash  string    `json:"-" bson:"codeHash" gorm:"not null"`
	Attempts  int       `json:"attempts" bson:"attempts"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (OTP) TableName() string {
	return "otps"
}
