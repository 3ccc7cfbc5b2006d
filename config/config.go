package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/farellandr/echallan/internal/blob"
	mongodb "github.com/farellandr/echallan/internal/db/mongo"
	"github.com/farellandr/echallan/internal/gateway"
	"github.com/farellandr/echallan/internal/models"
	"github.com/farellandr/echallan/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DBTypeMongo    = "mongo"
	DBTypePostgres = "postgres"
	DBTypeMemory   = "memory"

	BlobDriverS3    = "s3"
	BlobDriverLocal = "local"
)

type Config struct {
	Port          string
	AppEnv        string
	PublicBaseURL string

	DBType        string
	MongoURL      string
	MongoDatabase string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	BlobDriver     string
	LocalUploadDir string
	S3             blob.S3Config

	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string

	PaymentGateway       string
	MidtransServerKey    string
	MidtransProduction   bool
	PaymentCallbackToken string
	QRSigningSecret      string
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		Port:          port,
		AppEnv:        getEnv("APP_ENV", "production"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),

		DBType:        getEnv("DB_TYPE", DBTypeMongo),
		MongoURL:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "echallan"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),

		BlobDriver:     getEnv("BLOB_DRIVER", BlobDriverLocal),
		LocalUploadDir: getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		S3: blob.S3Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			Endpoint:        os.Getenv("R2_ENDPOINT"),
			Region:          getEnv("R2_REGION", "auto"),
			Bucket:          os.Getenv("R2_BUCKET"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
		},

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         24 * time.Hour,
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		PaymentGateway:       getEnv("PAYMENT_GATEWAY", gateway.ProviderSimulated),
		MidtransServerKey:    os.Getenv("MIDTRANS_SERVER_KEY"),
		PaymentCallbackToken: os.Getenv("PAYMENT_CALLBACK_TOKEN"),
		QRSigningSecret:      os.Getenv("QR_SIGNING_SECRET"),
	}

	if raw := os.Getenv("MIDTRANS_PRODUCTION"); raw != "" {
		production, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MIDTRANS_PRODUCTION: %w", err)
		}
		cfg.MidtransProduction = production
	}
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
		}
		cfg.JWTTTL = ttl
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PaymentCallbackToken == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("PAYMENT_CALLBACK_TOKEN is required outside development")
	}
	if cfg.QRSigningSecret == "" {
		cfg.QRSigningSecret = cfg.JWTSecret
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

type XenditConfig struct {
	SecretKey string
}

func LoadXenditConfig() (*XenditConfig, error) {
	return &XenditConfig{
		SecretKey: os.Getenv("XENDIT_SECRET_KEY"),
	}, nil
}

func (c *Config) GatewayConfig(xnd *XenditConfig) gateway.Config {
	gw := gateway.Config{
		Provider:           c.PaymentGateway,
		MidtransServerKey:  c.MidtransServerKey,
		MidtransProduction: c.MidtransProduction,
	}
	if xnd != nil {
		gw.XenditSecretKey = xnd.SecretKey
	}
	return gw
}

func InitLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.OTP{}, &models.Address{}, &models.Challan{}, &models.ChallanPhoto{}, &models.Payment{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InitMongo(ctx context.Context, cfg *Config) (*mongodb.MongoDB, error) {
	m := mongodb.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func InitStore(ctx context.Context, cfg *Config) (repository.Store, error) {
	switch cfg.DBType {
	case DBTypeMongo:
		m, err := InitMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		return repository.NewMongoStore(m.Database), nil
	case DBTypePostgres:
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewPostgresStore(db), nil
	case DBTypeMemory:
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown DB_TYPE %q", cfg.DBType)
	}
}

func InitBlobStore(ctx context.Context, cfg *Config) (blob.Store, error) {
	switch cfg.BlobDriver {
	case BlobDriverS3:
		return blob.NewS3Store(ctx, cfg.S3)
	case BlobDriverLocal:
		return blob.NewLocalStore(cfg.LocalUploadDir, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown BLOB_DRIVER %q", cfg.BlobDriver)
	}
}
