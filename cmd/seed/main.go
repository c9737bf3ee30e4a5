// Seeds the database from the JSON files in _data. Run with -i to import,
// -d to destroy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"campdir/internal/config"
	"campdir/internal/db"
	"campdir/internal/models"
	"campdir/internal/services"
)

// seedUser carries the plaintext password the model deliberately hides from
// JSON; the importer hashes it before insertion.
type seedUser struct {
	models.User
	Password string `json:"password"`
}

func main() {
	importFlag := flag.Bool("i", false, "import the seed data")
	destroyFlag := flag.Bool("d", false, "destroy all data")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}

	switch {
	case *importFlag:
		importData(ctx, database, log)
	case *destroyFlag:
		destroyData(ctx, database, log)
	default:
		flag.Usage()
	}
}

func importData(ctx context.Context, database *mongo.Database, log zerolog.Logger) {
	var users []seedUser
	readJSON("_data/users.json", &users, log)
	userDocs := make([]interface{}, 0, len(users))
	for _, u := range users {
		hashed, err := services.HashPassword(u.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to hash seed password")
		}
		u.User.Password = hashed
		u.User.CreatedAt = time.Now()
		userDocs = append(userDocs, u.User)
	}
	insert(ctx, database.Collection("users"), userDocs, log)

	var bootcamps []models.Bootcamp
	readJSON("_data/bootcamps.json", &bootcamps, log)
	bootcampDocs := make([]interface{}, 0, len(bootcamps))
	for _, b := range bootcamps {
		b.Slug = models.Slugify(b.Name)
		if b.Photo == "" {
			b.Photo = models.DefaultPhoto
		}
		b.CreatedAt = time.Now()
		bootcampDocs = append(bootcampDocs, b)
	}
	insert(ctx, database.Collection("bootcamps"), bootcampDocs, log)

	var courses []models.Course
	readJSON("_data/courses.json", &courses, log)
	courseDocs := make([]interface{}, 0, len(courses))
	for _, c := range courses {
		c.CreatedAt = time.Now()
		courseDocs = append(courseDocs, c)
	}
	insert(ctx, database.Collection("courses"), courseDocs, log)

	var reviews []models.Review
	readJSON("_data/reviews.json", &reviews, log)
	reviewDocs := make([]interface{}, 0, len(reviews))
	for _, r := range reviews {
		r.CreatedAt = time.Now()
		reviewDocs = append(reviewDocs, r)
	}
	insert(ctx, database.Collection("reviews"), reviewDocs, log)

	log.Info().Msg("data imported")
}

func destroyData(ctx context.Context, database *mongo.Database, log zerolog.Logger) {
	for _, name := range []string{"bootcamps", "courses", "reviews", "users"} {
		if _, err := database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("failed to destroy data")
		}
	}
	log.Info().Msg("data destroyed")
}

func readJSON(path string, out any, log zerolog.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to read seed file")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to parse seed file")
	}
}

func insert(ctx context.Context, col *mongo.Collection, docs []interface{}, log zerolog.Logger) {
	if len(docs) == 0 {
		return
	}
	if _, err := col.InsertMany(ctx, docs); err != nil {
		log.Fatal().Err(err).Str("collection", col.Name()).Msg("failed to insert seed data")
	}
}
