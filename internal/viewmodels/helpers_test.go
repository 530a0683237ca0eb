package viewmodels

import (
	"fmt"
	"testing"
	"time"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/gateway/local"
	"craftfolio_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestGateway поднимает локальный шлюз на in-memory sqlite
// и отдает клиент вместе с БД для прямого сидинга
func newTestGateway(t *testing.T) (gateway.Gateway, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть in-memory sqlite")

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Portfolio{},
		&models.Job{},
		&models.Application{},
		&models.ContactMessage{},
	)
	require.NoError(t, err, "Миграция тестовой БД не должна падать")

	for _, table := range []string{"applications", "portfolios", "jobs", "contact_messages", "profiles"} {
		db.Exec("DELETE FROM " + table)
	}

	backend := local.NewBackend(db, local.Options{JWTSecret: "test-secret", TokenTTL: time.Hour})
	return backend.Anonymous(), db
}

func seedProfile(t *testing.T, db *gorm.DB, role models.UserRole) models.Profile {
	t.Helper()
	profile := models.Profile{
		Email:        fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano()),
		FullName:     "Test " + string(role),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&profile).Error, "Сидинг профиля не должен падать")
	return profile
}

func seedJob(t *testing.T, db *gorm.DB, hirerID string, active bool) models.Job {
	t.Helper()
	job := models.Job{
		HirerID:     hirerID,
		Title:       "Go Developer",
		CompanyName: "Acme",
		IsActive:    active,
	}
	require.NoError(t, db.Create(&job).Error, "Сидинг вакансии не должен падать")
	return job
}

func seedPortfolio(t *testing.T, db *gorm.DB, userID string) models.Portfolio {
	t.Helper()
	portfolio := defaultPortfolio(userID)
	portfolio.Title = "Backend Engineer"
	require.NoError(t, db.Create(&portfolio).Error, "Сидинг портфолио не должен падать")
	return portfolio
}

func seedApplication(t *testing.T, db *gorm.DB, jobID, seekerID string, status models.ApplicationStatus) models.Application {
	t.Helper()
	app := models.Application{
		JobID:    jobID,
		SeekerID: seekerID,
		Status:   status,
	}
	require.NoError(t, db.Create(&app).Error, "Сидинг отклика не должен падать")
	return app
}
