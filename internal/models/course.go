package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title                string             `bson:"title" json:"title" validate:"required,max=100"`
	Description          string             `bson:"description" json:"description" validate:"required"`
	Weeks                string             `bson:"weeks" json:"weeks" validate:"required"`
	Tuition              float64            `bson:"tuition" json:"tuition" validate:"required"`
	MinimumSkill         string             `bson:"minimum_skill" json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool               `bson:"scholarship_available" json:"scholarship_available"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp" json:"bootcamp"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}
