package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	RequestTimeoutSec int

	JWTSecret    []byte
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigins  []string

	LogLevel  string
	LogFormat string

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFromName  string
	SMTPFromEmail string
	AppPublicURL  string

	// Almacenamiento de reposos (S3 compatible: MinIO, Supabase Storage, AWS)
	S3Bucket       string
	S3Endpoint     string
	S3Region       string
	S3PublicURL    string
	S3UsePathStyle bool
	S3AccessKeyID  string
	S3SecretKey    string

	// Generador remoto de PDF (plantillas). Sin URL se genera localmente.
	PDFGeneratorURL     string
	PDFGeneratorAPIKey  string
	PDFGeneratorTemplID string
	PDFMaxDownloadBytes int64

	RedisURL string
	CacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	// WhatsApp (Twilio) para recordatorios de citas
	TwilioAccountSid   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	ReminderTZ         string
	ReminderDaysAhead  int

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load lee la configuración del entorno. Si existe un archivo .env en el
// directorio de trabajo se carga primero; las variables ya definidas ganan.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		jwtSecret = "default-secret-min-32-chars-required!!"
	}
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		RequestTimeoutSec: getInt("REQUEST_TIMEOUT_SEC", 30),

		JWTSecret:    []byte(jwtSecret),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure: getBool("COOKIE_SECURE", false),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Consultorio Médico IUTEPAL"),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@localhost"),
		AppPublicURL:  getEnv("APP_PUBLIC_URL", "http://localhost:3000"),

		S3Bucket:       getEnv("S3_BUCKET", "reposos"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3PublicURL:    strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		S3UsePathStyle: getBool("S3_USE_PATH_STYLE", true),
		S3AccessKeyID:  os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),

		PDFGeneratorURL:     os.Getenv("PDF_GENERATOR_URL"),
		PDFGeneratorAPIKey:  os.Getenv("PDF_GENERATOR_API_KEY"),
		PDFGeneratorTemplID: os.Getenv("PDF_GENERATOR_TEMPLATE_ID"),
		PDFMaxDownloadBytes: int64(getInt("PDF_MAX_DOWNLOAD_BYTES", 10<<20)),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: getDuration("CACHE_TTL", 5*time.Second),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "clinic.agenda"),

		TwilioAccountSid:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		ReminderTZ:         getEnv("REMINDER_TZ", "America/Caracas"),
		ReminderDaysAhead:  getInt("REMINDER_DAYS_AHEAD", 1),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// StorageEnabled indica si hay un bucket con URL pública configurada.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != "" && c.S3PublicURL != ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func getBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

// getDuration acepta "30s", "5m" o un número de segundos.
func getDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d
	}
	return dur
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
