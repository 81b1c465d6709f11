package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qalam-academy/tutor_api/model"
	"github.com/qalam-academy/tutor_api/shared"
)

// SqlService owns the GORM connection and every query the portal runs.
// Postgres in production, sqlite for local development (DB_DRIVER=sqlite).
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver string
	dsn    string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	ds.dsn = os.Getenv("DATABASE_URL")
	if ds.dsn == "" {
		switch ds.driver {
		case "sqlite":
			ds.dsn = "tutor_api.db"
		default:
			host := envOr("DB_HOST", "localhost")
			port := envOr("DB_PORT", "5432")
			user := envOr("DB_USER", "postgres")
			password := envOr("DB_PASSWORD", "postgres")
			dbname := envOr("DB_NAME", "tutor_api")
			sslmode := envOr("DB_SSLMODE", "disable")

			ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				host, user, password, dbname, port, sslmode)
		}
	}

	return ds.DefaultService.Configure(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (ds *SqlService) Start() (err error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}

	switch ds.driver {
	case "sqlite":
		ds.db, err = gorm.Open(sqlite.Open(ds.dsn), gormConfig)
		if err != nil {
			return err
		}
	default:
		// Retry with backoff: the database container is often still
		// warming up when the API starts.
		maxRetries := 10
		retryDelay := time.Second

		for attempt := 1; attempt <= maxRetries; attempt++ {
			ds.db, err = gorm.Open(postgres.Open(ds.dsn), gormConfig)
			if err == nil {
				sqlDB, dbErr := ds.db.DB()
				if dbErr == nil {
					if pingErr := sqlDB.Ping(); pingErr == nil {
						break
					} else {
						err = pingErr
					}
				} else {
					err = dbErr
				}
			}

			if attempt == maxRetries {
				log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
				return err
			}

			log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
			time.Sleep(retryDelay)

			retryDelay *= 2
			if retryDelay > 10*time.Second {
				retryDelay = 10 * time.Second
			}
		}
	}

	if err = ds.db.AutoMigrate(portalModels()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	if err = ds.seedAdminAccount(); err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func portalModels() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Subscription{},
		&model.ScoreRecord{},
		&model.RedemptionCode{},
		&model.Lesson{},
		&model.Quiz{},
	}
}

func (ds *SqlService) Shutdown() {
}

// seedAdminAccount creates the first admin from env so a fresh deploy is
// usable without manual inserts. No-op when the phone already exists or
// the env vars are absent.
func (ds *SqlService) seedAdminAccount() error {
	phone := os.Getenv("ADMIN_PHONE")
	password := os.Getenv("ADMIN_PASSWORD")
	if phone == "" || password == "" {
		return nil
	}

	var count int64
	if err := ds.db.Model(&model.User{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminID, _ := uuid.NewV7()
	admin := &model.User{
		ID:        adminID.String(),
		Name:      envOr("ADMIN_NAME", "Administrator"),
		Phone:     phone,
		Password:  string(hashed),
		Grade:     model.Grades[0],
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := ds.db.Create(admin).Error; err != nil {
		return err
	}

	log.WithField("phone", phone).Info("Seeded admin account")
	return nil
}

// HandleError maps store failures onto the request-boundary taxonomy.
func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := shared.GetAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(err, "Not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewBadRequestError(err, "Duplicate record")
	default:
		log.WithError(err).Error("Database error occurred")
		return shared.NewInternalError(err, "Internal server error")
	}
}
