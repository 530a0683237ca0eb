package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"craftfolio_backend/internal/app"
	"craftfolio_backend/internal/config"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestServer - полный HTTP-стек приложения поверх in-memory sqlite
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

// NewTestServer собирает тестовый сервер: конфиг, БД, роутер
func NewTestServer(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)
	logger.Init("test")

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "my_super_secret_key_for_tests_12345"
	cfg.JWT.TTL = 60

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Не удалось открыть тестовую БД: %v", err)
	}

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Portfolio{},
		&models.Job{},
		&models.Application{},
		&models.ContactMessage{},
	)
	if err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	router := app.SetupRouter(cfg, db)
	server := httptest.NewServer(router)

	log.Println("Тестовый сервер запущен, тестовая БД настроена")
	return &TestServer{Server: server, DB: db}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables очищает все таблицы (sqlite, поэтому DELETE вместо TRUNCATE)
func (ts *TestServer) ClearTables(t *testing.T) {
	for _, table := range []string{"applications", "portfolios", "jobs", "contact_messages", "profiles"} {
		if err := ts.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("Не удалось очистить таблицу %s: %v", table, err)
		}
	}
}

// SendRequest отправляет JSON-запрос с опциональным Bearer-токеном
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBodyBytes)
}
