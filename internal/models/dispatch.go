package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dispatch links an allotment to its generated manifest document. A persisted
// record implies the manifest upload succeeded; the dispatch workflow never
// inserts before it holds a durable URL.
type Dispatch struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AllotmentNo string             `bson:"allotment_no" json:"allotment_no"`
	PDFURL      string             `bson:"pdfUrl" json:"pdfUrl"`
	Date        time.Time          `bson:"date" json:"date"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
