package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemStatus tracks where an item sits in its lifecycle.
type ItemStatus string

const (
	ItemStatusInStock    ItemStatus = "in_stock"
	ItemStatusDispatched ItemStatus = "dispatched"
	ItemStatusRemoved    ItemStatus = "removed"
)

// IsValid reports whether the status is a known lifecycle state.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusInStock, ItemStatusDispatched, ItemStatusRemoved:
		return true
	default:
		return false
	}
}

// Item is a tracked inventory unit. Code is the string encoded into the item's
// QR label and is what field scans resolve against.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Code        string             `bson:"code" json:"code"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Status      ItemStatus         `bson:"status" json:"status"`
	AllotmentNo string             `bson:"allotment_no,omitempty" json:"allotment_no,omitempty"`
	QRCodeURL   string             `bson:"qrCodeUrl,omitempty" json:"qrCodeUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
