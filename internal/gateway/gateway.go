package gateway

import (
	"context"
	"errors"
	"time"
)

// Контракт удаленного шлюза данных. Само хранилище (SQL, выдача токенов,
// доставка realtime-событий) - внешний коллаборатор; приложение зависит
// только от этого набора интерфейсов.

// ErrNoRows возвращается SelectOne, когда строка отсутствует.
// Для синглтон-ресурсов (портфолио) это валидное пустое состояние,
// а не ошибка.
var ErrNoRows = errors.New("gateway: no rows in result set")

// AuthEvent - тип события канала аутентификации
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "signed_in"
	EventSignedOut      AuthEvent = "signed_out"
	EventTokenRefreshed AuthEvent = "token_refreshed"
)

// Session - проверенная сетью сессия пользователя
type Session struct {
	UserID      string
	Email       string
	AccessToken string
	ExpiresAt   time.Time

	// Metadata - произвольные атрибуты провайдера (full_name, avatar_url),
	// используются для ленивого создания профиля при первом логине
	Metadata map[string]string
}

// Auth - аутентификационная часть шлюза
type Auth interface {
	// Session возвращает текущую проверенную сессию либо (nil, nil),
	// если пользователь не залогинен
	Session(ctx context.Context) (*Session, error)

	// User - как Session, но без продления токена
	User(ctx context.Context) (*Session, error)

	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error

	// OnSessionChange регистрирует слушатель login/logout/refresh.
	// Возвращает функцию отписки.
	OnSessionChange(fn func(event AuthEvent, s *Session)) (unsubscribe func())
}

// Gateway - корневой интерфейс клиента шлюза
type Gateway interface {
	Auth() Auth
	Table(name string) Table
	Channel(name string) Channel
}
