package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"userId"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	LogoURL        string             `bson:"logo_url,omitempty" json:"logoUrl,omitempty"`
	PaymentMethods []string           `bson:"payment_methods" json:"paymentMethods"`
	IsOnline       bool               `bson:"is_online" json:"isOnline"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}
