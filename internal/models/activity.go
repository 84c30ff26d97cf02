package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is one entry of the append-only audit trail. Entries are created
// once per inventory action, never mutated and never deleted by normal
// operation.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action     string             `bson:"action" json:"action"`
	ActionUser string             `bson:"actionUser" json:"actionUser"`
	Operation  Operation          `bson:"operation" json:"operation"`
	Date       time.Time          `bson:"date" json:"date"`
}
