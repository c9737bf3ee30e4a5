package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Careers a bootcamp may offer. Anything else fails validation.
var Careers = []string{
	"Web Development",
	"UI/UX",
	"Business",
	"Mobile Development",
	"Data Science",
	"Cybersecurity",
	"Machine Learning",
	"AI",
	"Cloud Computing",
	"Blockchain",
	"Game Development",
	"Data Analysis",
	"Other",
}

// Location is a GeoJSON point with the resolved address parts.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"`
	FormattedAddress string    `bson:"formatted_address,omitempty" json:"formatted_address,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Bootcamp is a directory entry owned by a publisher. Address is accepted on
// writes only; it is resolved to Location and never stored.
type Bootcamp struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required,max=50"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description" validate:"required,max=500"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address     string             `bson:"-" json:"address,omitempty"`
	Location    Location           `bson:"location" json:"location"`
	Careers     []string           `bson:"careers" json:"careers" validate:"required,min=1,dive,oneof='Web Development' 'UI/UX' 'Business' 'Mobile Development' 'Data Science' 'Cybersecurity' 'Machine Learning' 'AI' 'Cloud Computing' 'Blockchain' 'Game Development' 'Data Analysis' 'Other'"`

	AverageRating float64 `bson:"average_rating,omitempty" json:"average_rating,omitempty"`
	AverageCost   float64 `bson:"average_cost,omitempty" json:"average_cost,omitempty"`

	Photo string `bson:"photo" json:"photo"`

	Housing       bool `bson:"housing" json:"housing"`
	JobAssistance bool `bson:"job_assistance" json:"job_assistance"`
	JobGuarantee  bool `bson:"job_guarantee" json:"job_guarantee"`
	AcceptGi      bool `bson:"accept_gi" json:"accept_gi"`

	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// DefaultPhoto is the placeholder filename before an upload.
const DefaultPhoto = "no-photo.jpg"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)
var slugHyphens = regexp.MustCompile(`-+`)

// Slugify derives the URL slug stored alongside a bootcamp's name.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugHyphens.ReplaceAllString(s, "-")
}
