package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	Port string `envconfig:"PORT" default:"5000"`
	Env  string `envconfig:"APP_ENV" default:"development"`

	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string `envconfig:"MONGO_DB" default:"campdir"`

	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpire    time.Duration `envconfig:"JWT_EXPIRE" default:"720h"`
	CookieExpire time.Duration `envconfig:"COOKIE_EXPIRE" default:"720h"`

	GeocoderURL string `envconfig:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org/search"`

	PublicDir      string `envconfig:"PUBLIC_DIR" default:"./public"`
	FileUploadPath string `envconfig:"FILE_UPLOAD_PATH" default:"./public/uploads"`
	MaxFileUpload  int64  `envconfig:"MAX_FILE_UPLOAD" default:"1000000"`

	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10m"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	FromEmail    string `envconfig:"FROM_EMAIL" default:"noreply@campdir.io"`
	FromName     string `envconfig:"FROM_NAME" default:"CampDir"`

	// When MinioEndpoint is set, bootcamp photos go to object storage
	// instead of the local upload directory.
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"campdir-photos"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
