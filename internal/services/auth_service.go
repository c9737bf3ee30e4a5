package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"campdir/internal/apperr"
	"campdir/internal/mail"
	"campdir/internal/models"
	"campdir/internal/validate"
)

const resetTokenTTL = 10 * time.Minute

// AuthService owns the credential lifecycle: register, login, profile
// updates and the password-reset flow.
type AuthService struct {
	users  *mongo.Collection
	secret []byte
	expire time.Duration
	mailer mail.Mailer
	log    zerolog.Logger
}

func NewAuthService(db *mongo.Database, secret string, expire time.Duration, mailer mail.Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  db.Collection("users"),
		secret: []byte(secret),
		expire: expire,
		mailer: mailer,
		log:    log,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken signs a JWT carrying the user's ID and role.
func (s *AuthService) GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(s.expire).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Register creates a user account. The admin role is never assignable here.
func (s *AuthService) Register(ctx context.Context, input models.User) (models.User, string, error) {
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if input.Role != models.RoleUser && input.Role != models.RolePublisher {
		return models.User{}, "", apperr.Validation("role must be one of: user publisher")
	}
	if err := validate.Struct(input); err != nil {
		return models.User{}, "", err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return models.User{}, "", apperr.Internal("failed to hash password", err)
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", apperr.Duplicate("Email already in use")
		}
		return models.User{}, "", err
	}

	token, err := s.GenerateToken(user)
	return user, token, err
}

// Login checks credentials and issues a token. Invalid email and invalid
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if email == "" || password == "" {
		return models.User{}, "", apperr.BadRequest("Please provide an email and password")
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, "", apperr.Unauthorized("Invalid credentials")
	}
	if !VerifyPassword(password, user.Password) {
		return models.User{}, "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.GenerateToken(user)
	return user, token, err
}

// GetByID loads a user; the auth middleware uses this to attach the
// principal after token verification.
func (s *AuthService) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound("Resource not found with id %s", id.Hex())
	}
	return user, err
}

// UpdateDetails changes the principal's name and/or email.
func (s *AuthService) UpdateDetails(ctx context.Context, userID primitive.ObjectID, name, email string) (models.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		if err := validate.Struct(struct {
			Email string `validate:"email"`
		}{email}); err != nil {
			return models.User{}, err
		}
		set["email"] = email
	}
	if len(set) == 0 {
		return s.GetByID(ctx, userID)
	}

	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperr.Duplicate("Email already in use")
		}
		return models.User{}, err
	}
	return s.GetByID(ctx, userID)
}

// UpdatePassword verifies the current password before setting a new one, and
// issues a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, user *models.User, current, next string) (string, error) {
	if !VerifyPassword(current, user.Password) {
		return "", apperr.Unauthorized("Password is incorrect")
	}
	if len(next) < 6 {
		return "", apperr.Validation("password must be at least 6 characters")
	}

	hashed, err := HashPassword(next)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"password": hashed}}); err != nil {
		return "", err
	}
	return s.GenerateToken(*user)
}

// ForgotPassword stores a hashed reset token on the account and emails the
// plain token. buildURL turns the plain token into the reset link included
// in the mail. A failed send rolls the token back.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, buildURL func(token string) string) error {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("There is no user with that email")
	}
	if err != nil {
		return err
	}

	plain, hashed, err := NewResetToken()
	if err != nil {
		return apperr.Internal("failed to generate reset token", err)
	}

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"reset_password_token":  hashed,
		"reset_password_expire": time.Now().Add(resetTokenTTL),
	}})
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to:\n\n%s",
		buildURL(plain),
	)
	if err := s.mailer.Send(ctx, user.Email, "Password reset token", body); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("reset email failed")
		_, _ = s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$unset": bson.M{
			"reset_password_token":  "",
			"reset_password_expire": "",
		}})
		return apperr.Upstream("Email could not be sent", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (models.User, string, error) {
	if len(password) < 6 {
		return models.User{}, "", apperr.Validation("password must be at least 6 characters")
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{
		"reset_password_token":  HashToken(token),
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, "", apperr.BadRequest("Invalid token")
	}
	if err != nil {
		return models.User{}, "", err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, "", apperr.Internal("failed to hash password", err)
	}

	_, err = s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": hashed},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	})
	if err != nil {
		return models.User{}, "", err
	}

	jwtToken, err := s.GenerateToken(user)
	return user, jwtToken, err
}

// NewResetToken returns a fresh random token in plain and hashed form. Only
// the hash is stored.
func NewResetToken() (plain, hashed string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken is the at-rest form of a reset token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
