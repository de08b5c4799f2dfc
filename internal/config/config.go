package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the optional S3-compatible
// evidence backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects and configures the evidence blob backend.
// The filesystem backend is the default and is authoritative for evidence
// bytes; the s3 backend reuses the same interface for object-store deployments.
type StorageConfig struct {
	Backend string // "fs" or "s3"
	Root    string // filesystem root for the fs backend
	MinIO   MinIOConfig
}

// EvidenceConfig holds the per-category size policy for evidence intake.
// Ceilings are enforced here regardless of any reverse-proxy limit in front
// of the service.
type EvidenceConfig struct {
	SignatureMaxBytes int64
	ImageMaxBytes     int64
	AudioMaxBytes     int64

	// Images above the threshold are recompressed toward the target size.
	// The intake cap bounds how much image data is read at all; an image
	// between the ceiling and the cap may still be accepted if compression
	// brings it under the ceiling.
	ImageCompressThresholdBytes int64
	ImageCompressTargetBytes    int64
	ImageIntakeCapBytes         int64
}

// DisclaimerConfig holds active-version resolution policy.
// When FallbackLatest is false (the default) an event with no active waiver
// version rejects new acceptances.
type DisclaimerConfig struct {
	FallbackLatest bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost           string
	Port              string
	Database          DatabaseConfig
	Storage           StorageConfig
	Evidence          EvidenceConfig
	Disclaimer        DisclaimerConfig
	AuditWriteTimeout int // milliseconds
}

const mb = 1024 * 1024

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "fs"),
			Root:    getEnv("STORAGE_ROOT", "/var/lib/encarreraok/evidencias"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Evidence: EvidenceConfig{
			SignatureMaxBytes:           getEnvInt64("EVIDENCE_SIGNATURE_MAX_BYTES", 1*mb),
			ImageMaxBytes:               getEnvInt64("EVIDENCE_IMAGE_MAX_BYTES", 4*mb),
			AudioMaxBytes:               getEnvInt64("EVIDENCE_AUDIO_MAX_BYTES", 5*mb),
			ImageCompressThresholdBytes: getEnvInt64("EVIDENCE_IMAGE_COMPRESS_THRESHOLD_BYTES", 2*mb),
			ImageCompressTargetBytes:    getEnvInt64("EVIDENCE_IMAGE_COMPRESS_TARGET_BYTES", 3*mb/2),
			ImageIntakeCapBytes:         getEnvInt64("EVIDENCE_IMAGE_INTAKE_CAP_BYTES", 12*mb),
		},
		Disclaimer: DisclaimerConfig{
			FallbackLatest: getEnvBool("DISCLAIMER_FALLBACK_LATEST", false),
		},
		AuditWriteTimeout: getEnvInt("AUDIT_WRITE_TIMEOUT_MS", 2000),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
