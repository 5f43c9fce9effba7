package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a loggable summary with secrets masked.
func (c S3Config) DiagnosticsSummary() string {
	keyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		keyStatus = "set"
	}
	secretStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretStatus = "set"
	}
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		keyStatus,
		secretStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode     string // local|s3|auto
	LocalDir string
	S3       S3Config
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Authentication
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Plan cache
	PlanCacheTTLHours int

	// AI (plan generation + exercise detail, Ark chat completions)
	AIMode                string // mock | ark
	AIMaxOutputTokens     int
	AITemperature         float64
	AITimeoutSeconds      int // diet plan, exercise detail, food text
	AISportTimeoutSeconds int // workout plan generation is much slower
	ArkAPIKey             string
	ArkBaseURL            string
	ArkChatModel          string
	ArkImageModel         string

	// Vision (food photo recognition, Moonshot-style chat completions)
	VisionAPIKey  string
	VisionBaseURL string
	VisionModel   string

	// Uploads (food photos)
	UploadMaxMB       int
	UploadAllowedMime string
	Blob              BlobConfig

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Auth ----------
	authRequired := parseBoolEnv("AUTH_REQUIRED")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "slimhub"
	}

	// JWT_TTL_MINUTES (default: 10080 = 7 days)
	jwtTTLMinutes := envInt("JWT_TTL_MINUTES", 10080)

	// ---------- Plan cache ----------
	planCacheTTLHours := envInt("PLAN_CACHE_TTL_HOURS", 24)
	if planCacheTTLHours <= 0 {
		planCacheTTLHours = 24
	}

	// ---------- AI ----------
	aiMode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	if aiMode == "" {
		aiMode = "mock"
	}
	if aiMode != "mock" && aiMode != "ark" {
		log.Printf("WARNING: unknown AI_MODE=%q, fallback to mock", aiMode)
		aiMode = "mock"
	}

	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 2000)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 2000
	}

	aiTemperature := envFloat("AI_TEMPERATURE", 0.3)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 20)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 20
	}

	// Workout-plan generation runs multi-thousand-token completions and is
	// far slower than the other calls.
	aiSportTimeoutSeconds := envInt("AI_SPORT_TIMEOUT_SECONDS", 120)
	if aiSportTimeoutSeconds <= 0 {
		aiSportTimeoutSeconds = 120
	}

	arkAPIKey := strings.TrimSpace(os.Getenv("ARK_API_KEY"))
	arkBaseURL := strings.TrimSpace(os.Getenv("ARK_BASE_URL"))
	if arkBaseURL == "" {
		arkBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}
	arkChatModel := strings.TrimSpace(os.Getenv("ARK_CHAT_MODEL"))
	if arkChatModel == "" {
		arkChatModel = "doubao-seed-1.6-250615"
	}
	arkImageModel := strings.TrimSpace(os.Getenv("ARK_IMAGE_MODEL"))
	if arkImageModel == "" {
		arkImageModel = "doubao-1-5-pro-32k-250115"
	}

	if aiMode == "ark" && arkAPIKey == "" {
		log.Fatal("ARK_API_KEY is required when AI_MODE=ark")
	}

	visionAPIKey := strings.TrimSpace(os.Getenv("VISION_API_KEY"))
	visionBaseURL := strings.TrimSpace(os.Getenv("VISION_BASE_URL"))
	if visionBaseURL == "" {
		visionBaseURL = "https://api.moonshot.cn/v1"
	}
	visionModel := strings.TrimSpace(os.Getenv("VISION_MODEL"))
	if visionModel == "" {
		visionModel = "moonshot-v1-8k-vision-preview"
	}

	if aiMode == "ark" && visionAPIKey == "" {
		log.Println("WARNING: VISION_API_KEY is not set; photo recognition will fail until configured")
	}

	// ---------- Uploads / Blob ----------
	// UPLOAD_MAX_MB (default: 5, the recognition service's hard limit)
	uploadMaxMB := envInt("UPLOAD_MAX_MB", 5)
	if uploadMaxMB <= 0 {
		uploadMaxMB = 5
	}

	uploadAllowedMime := os.Getenv("UPLOAD_ALLOWED_MIME")
	if uploadAllowedMime == "" {
		uploadAllowedMime = "image/jpeg,image/png,image/webp"
	}

	blobMode := parseBlobMode("BLOB_MODE", BlobModeLocal)

	localBlobDir := strings.TrimSpace(os.Getenv("LOCAL_BLOB_DIR"))
	if localBlobDir == "" {
		localBlobDir = "data/blobs"
	}

	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		PresignTTLSeconds: s3PresignTTL,
		PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
	}

	return &Config{
		Env:               env,
		Port:              port,
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: jwtTTLMinutes,

		PlanCacheTTLHours: planCacheTTLHours,

		AIMode:                aiMode,
		AIMaxOutputTokens:     aiMaxOutputTokens,
		AITemperature:         aiTemperature,
		AITimeoutSeconds:      aiTimeoutSeconds,
		AISportTimeoutSeconds: aiSportTimeoutSeconds,
		ArkAPIKey:             arkAPIKey,
		ArkBaseURL:            arkBaseURL,
		ArkChatModel:          arkChatModel,
		ArkImageModel:         arkImageModel,

		VisionAPIKey:  visionAPIKey,
		VisionBaseURL: visionBaseURL,
		VisionModel:   visionModel,

		UploadMaxMB:       uploadMaxMB,
		UploadAllowedMime: uploadAllowedMime,
		Blob: BlobConfig{
			Mode:     blobMode,
			LocalDir: localBlobDir,
			S3:       s3Cfg,
		},

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
