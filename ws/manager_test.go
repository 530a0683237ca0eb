package ws

import (
	"context"
	"testing"
	"time"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/gateway/local"
	"craftfolio_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestBackend(t *testing.T) *local.Backend {
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

	return local.NewBackend(db, local.Options{JWTSecret: "test-secret", TokenTTL: time.Hour})
}

// TestDisconnectTearsDownSubscriptionsFirst - отключение клиента
// снимает его подписки раньше закрытия Send: мутация, пришедшая
// сразу после отключения, не должна ронять процесс
func TestDisconnectTearsDownSubscriptionsFirst(t *testing.T) {
	backend := newTestBackend(t)
	gw := backend.Anonymous()
	ctx := context.Background()

	m := NewManager()
	go m.Run()

	client := &Client{
		ID:      "conn-1",
		UserID:  "u1",
		Send:    make(chan any, 4),
		gw:      gw,
		manager: m,
		subs:    make(map[string]gateway.Subscription),
	}

	m.register <- client
	require.Eventually(t, func() bool { return m.ClientCount() == 1 },
		time.Second, 5*time.Millisecond, "Клиент регистрируется")

	client.subscribe(SubscribePayload{
		Channel:    "feed",
		ChangeSpec: gateway.ChangeSpec{Event: gateway.ChangeAll, Table: "jobs"},
	})

	hirer := models.Profile{Email: "ws_hirer@test.com", PasswordHash: "x", Role: models.UserRoleHirer}
	require.NoError(t, backend.DB().Create(&hirer).Error)

	// Подписка живая: событие долетает в Send
	live := models.Job{HirerID: hirer.ID, Title: "Before disconnect", IsActive: true}
	require.NoError(t, gw.Table("jobs").Insert(ctx, &live))
	select {
	case msg := <-client.Send:
		out, ok := msg.(OutgoingChange)
		require.True(t, ok)
		assert.Equal(t, "feed", out.Channel)
	default:
		t.Fatal("Событие подписки не доставлено")
	}

	m.unregister <- client

	// Send закрывается только после снятия подписок,
	// значит закрытый канал означает завершенный teardown
	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond, "Send закрывается при отключении")
	assert.Equal(t, 0, m.ClientCount())

	assert.NotPanics(t, func() {
		late := models.Job{HirerID: hirer.ID, Title: "After disconnect", IsActive: true}
		require.NoError(t, gw.Table("jobs").Insert(ctx, &late))
	}, "Мутация после отключения клиента не должна паниковать")
}

// TestUnsubscribeCommandStopsDelivery - команда unsubscribe снимает
// подписку канала, повторная подписка на тот же канал заменяет старую
func TestUnsubscribeCommandStopsDelivery(t *testing.T) {
	backend := newTestBackend(t)
	gw := backend.Anonymous()
	ctx := context.Background()

	client := &Client{
		ID:     "conn-2",
		UserID: "u2",
		Send:   make(chan any, 4),
		gw:     gw,
		subs:   make(map[string]gateway.Subscription),
	}

	client.subscribe(SubscribePayload{
		Channel:    "feed",
		ChangeSpec: gateway.ChangeSpec{Event: gateway.ChangeAll, Table: "jobs"},
	})
	client.unsubscribeChannel("feed")

	hirer := models.Profile{Email: "ws_hirer2@test.com", PasswordHash: "x", Role: models.UserRoleHirer}
	require.NoError(t, backend.DB().Create(&hirer).Error)
	job := models.Job{HirerID: hirer.ID, Title: "Silent", IsActive: true}
	require.NoError(t, gw.Table("jobs").Insert(ctx, &job))

	select {
	case msg := <-client.Send:
		t.Fatalf("После unsubscribe событий быть не должно, пришло: %v", msg)
	default:
	}
}
