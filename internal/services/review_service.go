package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/validate"
)

// ReviewService owns review reads and writes and keeps the bootcamp's
// average_rating rollup current.
type ReviewService struct {
	reviews   *mongo.Collection
	bootcamps *mongo.Collection
	log       zerolog.Logger
}

func NewReviewService(db *mongo.Database, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:   db.Collection("reviews"),
		bootcamps: db.Collection("bootcamps"),
		log:       log,
	}
}

func (s *ReviewService) List(ctx context.Context, opts query.Options) ([]models.Review, int64, error) {
	return listDocuments[models.Review](ctx, s.reviews, opts)
}

// ListByBootcamp returns every review of one bootcamp, unpaginated.
func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error) {
	objID, err := parseID(bootcampID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.reviews.Find(ctx, bson.M{"bootcamp": objID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (models.Review, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.Review{}, err
	}

	var review models.Review
	err = s.reviews.FindOne(ctx, bson.M{"_id": objID}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Review{}, apperr.NotFound("No review with id %s", id)
	}
	return review, err
}

// Create adds a review to a bootcamp. The unique (bootcamp, user) index
// rejects a second review from the same user.
func (s *ReviewService) Create(ctx context.Context, user *models.User, bootcampID string, input models.Review) (models.Review, error) {
	objID, err := parseID(bootcampID)
	if err != nil {
		return models.Review{}, err
	}

	count, err := s.bootcamps.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return models.Review{}, err
	}
	if count == 0 {
		return models.Review{}, apperr.NotFound("No bootcamp with id %s", bootcampID)
	}

	if err := validate.Struct(input); err != nil {
		return models.Review{}, err
	}

	input.ID = primitive.NewObjectID()
	input.Bootcamp = objID
	input.User = user.ID
	input.CreatedAt = time.Now()

	if _, err := s.reviews.InsertOne(ctx, input); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Review{}, apperr.Duplicate("You have already reviewed this bootcamp")
		}
		return models.Review{}, err
	}

	s.recomputeAverageRating(ctx, objID)
	return input, nil
}

// Update applies a partial body over the stored review. Owner or admin only.
func (s *ReviewService) Update(ctx context.Context, user *models.User, id string, body []byte) (models.Review, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if !user.CanModify(existing.User) {
		return models.Review{}, apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to update review %s", user.ID.Hex(), id))
	}

	updated := existing
	if err := json.Unmarshal(body, &updated); err != nil {
		return models.Review{}, apperr.BadRequest("Invalid request body")
	}
	updated.ID = existing.ID
	updated.Bootcamp = existing.Bootcamp
	updated.User = existing.User
	updated.CreatedAt = existing.CreatedAt

	if err := validate.Struct(updated); err != nil {
		return models.Review{}, err
	}

	if _, err := s.reviews.ReplaceOne(ctx, bson.M{"_id": existing.ID}, updated); err != nil {
		return models.Review{}, err
	}

	s.recomputeAverageRating(ctx, existing.Bootcamp)
	return updated, nil
}

// Delete removes a review. Owner or admin only.
func (s *ReviewService) Delete(ctx context.Context, user *models.User, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanModify(existing.User) {
		return apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to delete review %s", user.ID.Hex(), id))
	}

	if _, err := s.reviews.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
		return err
	}

	s.recomputeAverageRating(ctx, existing.Bootcamp)
	return nil
}

// recomputeAverageRating refreshes the bootcamp's average rating to one
// decimal place. Failures are logged, not surfaced.
func (s *ReviewService) recomputeAverageRating(ctx context.Context, bootcampID primitive.ObjectID) {
	cursor, err := s.reviews.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$bootcamp",
			"average_rating": bson.M{"$avg": "$rating"},
		}}},
	})
	if err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average rating aggregation failed")
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageRating float64 `bson:"average_rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average rating decode failed")
		return
	}

	update := bson.M{"$unset": bson.M{"average_rating": ""}}
	if len(results) > 0 {
		update = bson.M{"$set": bson.M{"average_rating": math.Round(results[0].AverageRating*10) / 10}}
	}
	if _, err := s.bootcamps.UpdateOne(ctx, bson.M{"_id": bootcampID}, update); err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average rating update failed")
	}
}
