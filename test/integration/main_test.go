package integration_test

import (
	"sync"
	"testing"

	"craftfolio_backend/test/helpers"
)

// Общий сервер на весь пакет: поднимать стек на каждый тест дорого,
// изоляция достигается очисткой таблиц в начале теста
var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer возвращает тестовый сервер (создает при первом вызове)
// и очищает таблицы перед тестом
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		globalTestServer = helpers.NewTestServer(t)
	})
	globalTestServer.ClearTables(t)
	return globalTestServer
}
