package local

import (
	"sync"
	"time"

	"craftfolio_backend/internal/auth"
	"craftfolio_backend/internal/email"
	"craftfolio_backend/internal/gateway"

	"gorm.io/gorm"
)

// Backend - локальная реализация шлюза данных поверх gorm.
// Играет роль внешнего BaaS: хранение, выдача токенов и доставка
// realtime-событий. Общий для процесса; клиенты (gateway.Gateway)
// создаются per-connection и несут собственное состояние сессии.
type Backend struct {
	db         *gorm.DB
	issuer     *auth.TokenIssuer
	dispatcher *Dispatcher
	email      email.Provider
	tokenTTL   time.Duration
}

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Email     email.Provider
}

func NewBackend(db *gorm.DB, opts Options) *Backend {
	provider := opts.Email
	if provider == nil {
		provider = &email.MockProvider{}
	}
	ttl := opts.TokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Backend{
		db:         db,
		issuer:     auth.NewTokenIssuer(opts.JWTSecret, ttl),
		dispatcher: NewDispatcher(),
		email:      provider,
		tokenTTL:   ttl,
	}
}

// DB отдает нижележащий пул соединений - нужен только миграциям и сидингу
func (b *Backend) DB() *gorm.DB { return b.db }

// Dispatcher отдает шину событий (для ws-моста)
func (b *Backend) Dispatcher() *Dispatcher { return b.dispatcher }

// Anonymous создает неавторизованный клиент шлюза
func (b *Backend) Anonymous() gateway.Gateway {
	return &Client{backend: b, listeners: make(map[int]func(gateway.AuthEvent, *gateway.Session))}
}

// WithToken создает клиент с сессией, восстановленной из access token.
// Ошибка парсинга/подписи/срока возвращается как есть (apperrors.ErrInvalidToken).
func (b *Backend) WithToken(token string) (gateway.Gateway, error) {
	claims, err := b.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	c := &Client{backend: b, listeners: make(map[int]func(gateway.AuthEvent, *gateway.Session))}
	c.session = &gateway.Session{
		UserID:      claims.UserID,
		Email:       claims.Email,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		Metadata:    map[string]string{"role": claims.Role},
	}
	return c, nil
}

// Client - клиент шлюза, привязанный к одному потребителю
type Client struct {
	backend *Backend

	mu        sync.Mutex
	session   *gateway.Session
	nextSubID int
	listeners map[int]func(gateway.AuthEvent, *gateway.Session)
}

func (c *Client) Auth() gateway.Auth { return &localAuth{client: c} }

func (c *Client) Table(name string) gateway.Table {
	return &localTable{backend: c.backend, name: name}
}

func (c *Client) Channel(name string) gateway.Channel {
	return &localChannel{dispatcher: c.backend.dispatcher}
}

// emitSessionChange уведомляет слушателей этого клиента.
// Вызывается вне мьютекса c.mu: слушатели могут дергать клиент обратно.
func (c *Client) emitSessionChange(event gateway.AuthEvent, s *gateway.Session) {
	c.mu.Lock()
	fns := make([]func(gateway.AuthEvent, *gateway.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, s)
	}
}
