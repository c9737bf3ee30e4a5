package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/validate"
)

// UserService is the admin-only user CRUD surface.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{users: db.Collection("users")}
}

func (s *UserService) List(ctx context.Context, opts query.Options) ([]models.User, int64, error) {
	return listDocuments[models.User](ctx, s.users, opts)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, apperr.NotFound("Resource not found with id %s", id)
	}
	return user, err
}

func (s *UserService) Create(ctx context.Context, input models.User) (models.User, error) {
	if input.Role == "" {
		input.Role = models.RoleUser
	}
	if err := validate.Struct(input); err != nil {
		return models.User{}, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return models.User{}, apperr.Internal("failed to hash password", err)
	}

	input.ID = primitive.NewObjectID()
	input.Password = hashed
	input.CreatedAt = time.Now()

	if _, err := s.users.InsertOne(ctx, input); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperr.Duplicate("Email already in use")
		}
		return models.User{}, err
	}
	return input, nil
}

// Update applies a partial body over the stored user. The password is not
// settable here; the credential endpoints own it.
func (s *UserService) Update(ctx context.Context, id string, body []byte) (models.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	updated := existing
	if err := json.Unmarshal(body, &updated); err != nil {
		return models.User{}, apperr.BadRequest("Invalid request body")
	}
	updated.ID = existing.ID
	updated.Password = existing.Password
	updated.CreatedAt = existing.CreatedAt
	updated.ResetPasswordToken = existing.ResetPasswordToken
	updated.ResetPasswordExpire = existing.ResetPasswordExpire

	if err := validate.Struct(updated); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.ReplaceOne(ctx, bson.M{"_id": existing.ID}, updated); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperr.Duplicate("Email already in use")
		}
		return models.User{}, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	objID, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Resource not found with id %s", id)
	}
	return nil
}
