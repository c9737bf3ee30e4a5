package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Role      string             `bson:"role" json:"role" validate:"omitempty,oneof=user publisher admin"`
	Password  string             `bson:"password" json:"-" validate:"required,min=6"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	// The reset token is stored hashed; only the plain token leaves the
	// server, inside the password-reset email.
	ResetPasswordToken  string    `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire time.Time `bson:"reset_password_expire,omitempty" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanModify reports whether the user may mutate a resource owned by ownerID.
// Owners and admins may; everyone else gets a Forbidden response.
func (u *User) CanModify(ownerID primitive.ObjectID) bool {
	return u.IsAdmin() || u.ID == ownerID
}
