package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review of a bootcamp. A user may leave at most one review per bootcamp,
// enforced by a unique compound index on (bootcamp, user).
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title" validate:"required,max=100"`
	Text      string             `bson:"text" json:"text" validate:"required"`
	Rating    float64            `bson:"rating" json:"rating" validate:"required,min=1,max=10"`
	Bootcamp  primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
