package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/api"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/broker"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/config"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/email"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/middleware"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/migrate"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/pdf"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/seed"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/storage"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	ctx := context.Background()

	var db *gorm.DB
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
		if err != nil {
			fatal(log, "[db] open", err)
		}
		sqlDB, err = db.DB()
		if err != nil {
			fatal(log, "[db] pool", err)
		}
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
		if err := sqlDB.PingContext(ctx); err != nil {
			fatal(log, "[db] ping", err)
		}
		if err := migrate.Run(ctx, db, "migrations"); err != nil {
			fatal(log, "[db] migrations", err)
		}
		if err := seed.Run(ctx, db, seed.Options{AdminEmail: cfg.SeedAdminEmail, AdminPassword: cfg.SeedAdminPassword}); err != nil {
			log.Warn("[db] seed", logger.Err(err))
		}
	} else {
		log.Warn("[db] DATABASE_URL vacío: solo /health y /ready responden")
	}

	var store cache.Store
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			fatal(log, "[cache] redis", err)
		}
		defer func() { _ = rc.Close() }()
		store = rc
	} else {
		ttl := cache.New(cfg.CacheTTL)
		defer ttl.Close()
		store = ttl
	}

	var objects storage.ObjectStore = storage.Disabled{}
	if cfg.StorageEnabled() {
		s3, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			PublicURL:       cfg.S3PublicURL,
			UsePathStyle:    cfg.S3UsePathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			fatal(log, "[storage] s3", err)
		}
		objects = s3
		log.Info("[storage] bucket configurado", "bucket", cfg.S3Bucket)
	} else {
		log.Warn("[storage] S3_BUCKET o S3_PUBLIC_URL vacío: reposos desactivados")
	}

	var pub broker.Publisher = broker.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = broker.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("[broker] kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer func() { _ = pub.Close() }()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	h := &api.Handler{
		DB:        db,
		Cfg:       cfg,
		Cache:     store,
		Store:     objects,
		Publisher: pub,
		PDFGen: &pdf.Generator{
			URL:        cfg.PDFGeneratorURL,
			APIKey:     cfg.PDFGeneratorAPIKey,
			TemplateID: cfg.PDFGeneratorTemplID,
			HTTP:       httpClient,
		},
		HTTP: httpClient,
		Log:  log,
	}
	h.SetHashPassword(auth.HashPassword)
	if cfg.SMTPHost != "" && cfg.SMTPFromEmail != "" {
		mailCfg := &email.Config{
			Host:     cfg.SMTPHost,
			Port:     email.PortFromString(cfg.SMTPPort),
			User:     cfg.SMTPUser,
			Pass:     cfg.SMTPPass,
			FromName: cfg.SMTPFromName,
			FromAddr: cfg.SMTPFromEmail,
		}
		mailCfg.LogConfigSummary()
		h.SetSendPasswordResetEmail(mailCfg.SendPasswordReset)
	} else {
		log.Warn("[email] SMTP_HOST vacío: no se envían correos de recuperación")
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if sqlDB == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no database"}`))
			return
		}
		if err := sqlDB.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	if db != nil {
		api.Register(r, h)
	}

	chain := middleware.Recover(
		middleware.RequestID(
			middleware.AccessLog(log)(
				middleware.Timeout(cfg.RequestTimeoutSec)(
					middleware.CORS(cfg.CORSOrigins)(
						middleware.Gzip(r))))))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           chain,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Duration(cfg.RequestTimeoutSec+15) * time.Second,
	}

	go func() {
		log.Info("backend listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "listen", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", logger.Err(err))
	}
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
	log.Info("backend stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Err(err))
	os.Exit(1)
}
