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

// CourseService owns course reads and writes and keeps the owning
// bootcamp's average_cost rollup current.
type CourseService struct {
	courses   *mongo.Collection
	bootcamps *mongo.Collection
	log       zerolog.Logger
}

func NewCourseService(db *mongo.Database, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses:   db.Collection("courses"),
		bootcamps: db.Collection("bootcamps"),
		log:       log,
	}
}

func (s *CourseService) List(ctx context.Context, opts query.Options) ([]models.Course, int64, error) {
	return listDocuments[models.Course](ctx, s.courses, opts)
}

// ListByBootcamp returns every course of one bootcamp, unpaginated.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error) {
	objID, err := parseID(bootcampID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.courses.Find(ctx, bson.M{"bootcamp": objID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (models.Course, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.Course{}, err
	}

	var course models.Course
	err = s.courses.FindOne(ctx, bson.M{"_id": objID}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Course{}, apperr.NotFound("No course with id %s", id)
	}
	return course, err
}

// Create adds a course to a bootcamp. Only the bootcamp's owner or an admin
// may add courses to it.
func (s *CourseService) Create(ctx context.Context, user *models.User, bootcampID string, input models.Course) (models.Course, error) {
	objID, err := parseID(bootcampID)
	if err != nil {
		return models.Course{}, err
	}

	var bootcamp models.Bootcamp
	err = s.bootcamps.FindOne(ctx, bson.M{"_id": objID}).Decode(&bootcamp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Course{}, apperr.NotFound("No bootcamp with id %s", bootcampID)
	}
	if err != nil {
		return models.Course{}, err
	}
	if !user.CanModify(bootcamp.User) {
		return models.Course{}, apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to add a course to bootcamp %s", user.ID.Hex(), bootcampID))
	}

	if err := validate.Struct(input); err != nil {
		return models.Course{}, err
	}

	input.ID = primitive.NewObjectID()
	input.Bootcamp = objID
	input.User = user.ID
	input.CreatedAt = time.Now()

	if _, err := s.courses.InsertOne(ctx, input); err != nil {
		return models.Course{}, err
	}

	s.recomputeAverageCost(ctx, objID)
	return input, nil
}

// Update applies a partial body over the stored course. Owner or admin only.
func (s *CourseService) Update(ctx context.Context, user *models.User, id string, body []byte) (models.Course, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Course{}, err
	}
	if !user.CanModify(existing.User) {
		return models.Course{}, apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to update course %s", user.ID.Hex(), id))
	}

	updated := existing
	if err := json.Unmarshal(body, &updated); err != nil {
		return models.Course{}, apperr.BadRequest("Invalid request body")
	}
	updated.ID = existing.ID
	updated.Bootcamp = existing.Bootcamp
	updated.User = existing.User
	updated.CreatedAt = existing.CreatedAt

	if err := validate.Struct(updated); err != nil {
		return models.Course{}, err
	}

	if _, err := s.courses.ReplaceOne(ctx, bson.M{"_id": existing.ID}, updated); err != nil {
		return models.Course{}, err
	}

	s.recomputeAverageCost(ctx, existing.Bootcamp)
	return updated, nil
}

// Delete removes a course. Owner or admin only.
func (s *CourseService) Delete(ctx context.Context, user *models.User, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanModify(existing.User) {
		return apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to delete course %s", user.ID.Hex(), id))
	}

	if _, err := s.courses.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
		return err
	}

	s.recomputeAverageCost(ctx, existing.Bootcamp)
	return nil
}

// recomputeAverageCost refreshes the bootcamp's average tuition, rounded up
// to the nearest ten. Rollup failures are logged, not surfaced; the write
// that triggered them already succeeded.
func (s *CourseService) recomputeAverageCost(ctx context.Context, bootcampID primitive.ObjectID) {
	cursor, err := s.courses.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$bootcamp",
			"average_cost": bson.M{"$avg": "$tuition"},
		}}},
	})
	if err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average cost aggregation failed")
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		AverageCost float64 `bson:"average_cost"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average cost decode failed")
		return
	}

	update := bson.M{"$unset": bson.M{"average_cost": ""}}
	if len(results) > 0 {
		update = bson.M{"$set": bson.M{"average_cost": math.Ceil(results[0].AverageCost/10) * 10}}
	}
	if _, err := s.bootcamps.UpdateOne(ctx, bson.M{"_id": bootcampID}, update); err != nil {
		s.log.Error().Err(err).Str("bootcamp", bootcampID.Hex()).Msg("average cost update failed")
	}
}
