package config

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/echallan/internal/blob"
	"github.com/farellandr/echallan/internal/gateway"
	"github.com/farellandr/echallan/internal/repository"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "")
	t.Setenv("PAYMENT_CALLBACK_TOKEN", "hook-token")
	t.Setenv("PORT", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("QR_SIGNING_SECRET", "")
	t.Setenv("PAYMENT_GATEWAY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBType != DBTypeMongo || cfg.PaymentGateway != gateway.ProviderSimulated {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.QRSigningSecret != "secret" {
		t.Fatalf("QR secret should fall back to JWT secret, got %q", cfg.QRSigningSecret)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %v", cfg.JWTTTL)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected missing JWT_SECRET to fail")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYMENT_CALLBACK_TOKEN", "hook-token")
	t.Setenv("MIDTRANS_PRODUCTION", "maybe")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected bad MIDTRANS_PRODUCTION to fail")
	}
}

func TestLoadConfigRequiresCallbackTokenInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MIDTRANS_PRODUCTION", "")
	t.Setenv("PAYMENT_CALLBACK_TOKEN", "")

	t.Setenv("APP_ENV", "production")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected production without PAYMENT_CALLBACK_TOKEN to fail")
	}

	t.Setenv("APP_ENV", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected the default environment to require PAYMENT_CALLBACK_TOKEN")
	}

	t.Setenv("APP_ENV", "development")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("development without a callback token: %v", err)
	}
	if cfg.PaymentCallbackToken != "" {
		t.Fatalf("PaymentCallbackToken = %q", cfg.PaymentCallbackToken)
	}

	t.Setenv("APP_ENV", "production")
	t.Setenv("PAYMENT_CALLBACK_TOKEN", "hook-token")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("production with a callback token: %v", err)
	}
}

func TestInitStoreAndBlobs(t *testing.T) {
	cfg := &Config{DBType: DBTypeMemory, BlobDriver: BlobDriverLocal, LocalUploadDir: t.TempDir(), PublicBaseURL: "http://localhost:8080"}

	store, err := InitStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitStore: %v", err)
	}
	if _, ok := store.(*repository.MemoryStore); !ok {
		t.Fatalf("store = %T", store)
	}

	blobs, err := InitBlobStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitBlobStore: %v", err)
	}
	if _, ok := blobs.(*blob.LocalStore); !ok {
		t.Fatalf("blobs = %T", blobs)
	}

	cfg.DBType = "cassandra"
	if _, err := InitStore(context.Background(), cfg); err == nil {
		t.Fatal("expected unknown DB_TYPE to fail")
	}
}
