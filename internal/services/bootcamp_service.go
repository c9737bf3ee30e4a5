package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/apperr"
	"campdir/internal/geocode"
	"campdir/internal/models"
	"campdir/internal/query"
	"campdir/internal/storage"
	"campdir/internal/utils"
	"campdir/internal/validate"
)

// earthRadiusKm converts a distance to radians for the spherical
// containment query.
const earthRadiusKm = 6378.0

// BootcampService owns bootcamp reads and writes, including the geocoding
// step, the cascade delete of dependents, and photo uploads.
type BootcampService struct {
	bootcamps *mongo.Collection
	courses   *mongo.Collection
	reviews   *mongo.Collection
	geocoder  geocode.Geocoder
	photos    storage.PhotoStore
	maxUpload int64
	log       zerolog.Logger
}

func NewBootcampService(db *mongo.Database, geocoder geocode.Geocoder, photos storage.PhotoStore, maxUpload int64, log zerolog.Logger) *BootcampService {
	return &BootcampService{
		bootcamps: db.Collection("bootcamps"),
		courses:   db.Collection("courses"),
		reviews:   db.Collection("reviews"),
		geocoder:  geocoder,
		photos:    photos,
		maxUpload: maxUpload,
		log:       log,
	}
}

func (s *BootcampService) List(ctx context.Context, opts query.Options) ([]models.Bootcamp, int64, error) {
	return listDocuments[models.Bootcamp](ctx, s.bootcamps, opts)
}

func (s *BootcampService) Get(ctx context.Context, id string) (models.Bootcamp, error) {
	objID, err := parseID(id)
	if err != nil {
		return models.Bootcamp{}, err
	}

	var bootcamp models.Bootcamp
	err = s.bootcamps.FindOne(ctx, bson.M{"_id": objID}).Decode(&bootcamp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Bootcamp{}, apperr.NotFound("Resource not found with id %s", id)
	}
	return bootcamp, err
}

// Create inserts a bootcamp owned by user. Non-admin publishers may own at
// most one; the address is geocoded here, once, and never stored raw.
func (s *BootcampService) Create(ctx context.Context, user *models.User, input models.Bootcamp) (models.Bootcamp, error) {
	if err := validate.Struct(input); err != nil {
		return models.Bootcamp{}, err
	}

	if !user.IsAdmin() {
		count, err := s.bootcamps.CountDocuments(ctx, bson.M{"user": user.ID})
		if err != nil {
			return models.Bootcamp{}, err
		}
		if count > 0 {
			return models.Bootcamp{}, apperr.Duplicate(
				fmt.Sprintf("The user with ID %s has already published a bootcamp", user.ID.Hex()))
		}
	}

	location, err := s.resolveLocation(ctx, input.Address)
	if err != nil {
		return models.Bootcamp{}, err
	}

	input.ID = primitive.NewObjectID()
	input.Slug = models.Slugify(input.Name)
	input.Location = location
	input.Address = ""
	input.Photo = models.DefaultPhoto
	input.User = user.ID
	input.CreatedAt = time.Now()
	input.AverageRating = 0
	input.AverageCost = 0

	if _, err := s.bootcamps.InsertOne(ctx, input); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Bootcamp{}, apperr.Duplicate("Duplicate resource")
		}
		return models.Bootcamp{}, err
	}
	return input, nil
}

// Update applies a partial body over the stored document. Only the owner or
// an admin may update; ownership, identity and rollup fields are preserved.
func (s *BootcampService) Update(ctx context.Context, user *models.User, id string, body []byte) (models.Bootcamp, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Bootcamp{}, err
	}
	if !user.CanModify(existing.User) {
		return models.Bootcamp{}, apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to update this bootcamp", user.ID.Hex()))
	}

	updated := existing
	if err := json.Unmarshal(body, &updated); err != nil {
		return models.Bootcamp{}, apperr.BadRequest("Invalid request body")
	}

	// Client-supplied identity and rollup fields do not stick.
	updated.ID = existing.ID
	updated.User = existing.User
	updated.CreatedAt = existing.CreatedAt
	updated.Photo = existing.Photo
	updated.AverageRating = existing.AverageRating
	updated.AverageCost = existing.AverageCost
	updated.Slug = models.Slugify(updated.Name)

	if updated.Address != "" {
		location, err := s.resolveLocation(ctx, updated.Address)
		if err != nil {
			return models.Bootcamp{}, err
		}
		updated.Location = location
		updated.Address = ""
	} else {
		updated.Location = existing.Location
	}

	if err := validate.Struct(updated); err != nil {
		return models.Bootcamp{}, err
	}

	if _, err := s.bootcamps.ReplaceOne(ctx, bson.M{"_id": existing.ID}, updated); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Bootcamp{}, apperr.Duplicate("Duplicate resource")
		}
		return models.Bootcamp{}, err
	}
	return updated, nil
}

// Delete removes the bootcamp and cascades to its courses and reviews. The
// dependent deletes run in parallel; per-document atomicity is the only
// guarantee, so the cascade is best-effort under concurrent writes.
func (s *BootcampService) Delete(ctx context.Context, user *models.User, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.CanModify(existing.User) {
		return apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to delete this bootcamp", user.ID.Hex()))
	}

	if _, err := s.bootcamps.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
		return err
	}

	errs := utils.RunParallel(
		func() error {
			_, err := s.courses.DeleteMany(ctx, bson.M{"bootcamp": existing.ID})
			return err
		},
		func() error {
			_, err := s.reviews.DeleteMany(ctx, bson.M{"bootcamp": existing.ID})
			return err
		},
	)
	if err := utils.FirstError(errs); err != nil {
		s.log.Error().Err(err).Str("bootcamp", id).Msg("cascade delete incomplete")
		return err
	}
	return nil
}

// WithinRadius geocodes the zipcode and returns bootcamps inside the given
// distance (km) of it, using a spherical containment query.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distance float64) ([]models.Bootcamp, error) {
	if distance <= 0 {
		return nil, apperr.BadRequest("distance must be positive")
	}

	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	radius := distance / earthRadiusKm
	cursor, err := s.bootcamps.Find(ctx, bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{loc.Longitude, loc.Latitude}, radius},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bootcamps := []models.Bootcamp{}
	if err := cursor.All(ctx, &bootcamps); err != nil {
		return nil, err
	}
	return bootcamps, nil
}

// UploadPhoto validates and persists a photo, then points the document at
// it. A storage fault leaves the document untouched.
func (s *BootcampService) UploadPhoto(ctx context.Context, user *models.User, id string, file *multipart.FileHeader) (string, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !user.CanModify(existing.User) {
		return "", apperr.Forbidden(
			fmt.Sprintf("User %s is not authorized to update this bootcamp", user.ID.Hex()))
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.Validation("Please upload an image file")
	}
	if file.Size > s.maxUpload {
		return "", apperr.Validation(fmt.Sprintf("Please upload an image less than %d bytes", s.maxUpload))
	}

	filename := PhotoFilename(existing.ID, file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", apperr.Internal("Problem with file upload", err)
	}
	defer src.Close()

	if err := s.photos.Save(ctx, filename, src, file.Size, contentType); err != nil {
		return "", apperr.Internal("Problem with file upload", err)
	}

	_, err = s.bootcamps.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{"photo": filename}})
	if err != nil {
		return "", err
	}
	return filename, nil
}

func (s *BootcampService) resolveLocation(ctx context.Context, address string) (models.Location, error) {
	if address == "" {
		return models.Location{}, apperr.Validation("Please add an address")
	}

	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return models.Location{}, err
	}
	return models.Location{
		Type:             "Point",
		Coordinates:      []float64{loc.Longitude, loc.Latitude},
		FormattedAddress: loc.FormattedAddress,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}, nil
}

// PhotoFilename derives the stored name from the document identifier and
// the original extension.
func PhotoFilename(id primitive.ObjectID, original string) string {
	return "photo_" + id.Hex() + strings.ToLower(filepath.Ext(original))
}
