package local

import (
	"context"
	"errors"
	"strings"
	"time"

	"craftfolio_backend/internal/auth"
	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// localAuth реализует gateway.Auth для локального бэкенда
type localAuth struct {
	client *Client
}

// Session - проверенная сетью сессия: подпись и срок токена плюс
// существование строки профиля. Отсутствие сессии - это (nil, nil).
func (a *localAuth) Session(ctx context.Context) (*gateway.Session, error) {
	a.client.mu.Lock()
	s := a.client.session
	a.client.mu.Unlock()

	if s == nil {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		a.clearSession()
		return nil, nil
	}

	var profile models.Profile
	err := a.client.backend.db.WithContext(ctx).
		Where("id = ?", s.UserID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Аккаунт удален - сессия больше не действительна
			a.clearSession()
			return nil, nil
		}
		return nil, apperrors.ErrGateway(err, "auth")
	}
	return s, nil
}

func (a *localAuth) User(ctx context.Context) (*gateway.Session, error) {
	return a.Session(ctx)
}

func (a *localAuth) SignUp(ctx context.Context, emailAddr, password string, metadata map[string]string) (*gateway.Session, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	role := models.UserRole(metadata["role"])
	if role == "" {
		role = models.UserRoleSeeker
	}
	// Админом через signup стать нельзя
	if role == models.UserRoleAdmin || !models.ValidRole(role) {
		return nil, apperrors.ErrInvalidUserRole
	}

	fullName := metadata["full_name"]
	if fullName == "" {
		fullName = emailLocalPart(emailAddr)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile := &models.Profile{
		Email:        emailAddr,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		AvatarURL:    metadata["avatar_url"],
	}

	db := a.client.backend.db.WithContext(ctx)
	var existing models.Profile
	if err := db.Where("email = ?", emailAddr).First(&existing).Error; err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrGateway(err, "auth")
	}

	if err := db.Create(profile).Error; err != nil {
		return nil, apperrors.ErrGateway(err, "auth")
	}

	// Приветственное письмо не должно блокировать регистрацию
	go func(to, name string) {
		if err := a.client.backend.email.SendWelcome(to, name); err != nil {
			logger.Warn("failed to send welcome email", "to", to, "error", err)
		}
	}(profile.Email, profile.FullName)

	return a.openSession(profile)
}

func (a *localAuth) SignIn(ctx context.Context, emailAddr, password string) (*gateway.Session, error) {
	var profile models.Profile
	err := a.client.backend.db.WithContext(ctx).
		Where("email = ?", emailAddr).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrGateway(err, "auth")
	}

	if !auth.CheckPasswordHash(password, profile.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return a.openSession(&profile)
}

// SignOut идемпотентен: повторный вызов без сессии - no-op
func (a *localAuth) SignOut(ctx context.Context) error {
	a.client.mu.Lock()
	had := a.client.session != nil
	a.client.session = nil
	a.client.mu.Unlock()

	if had {
		a.client.emitSessionChange(gateway.EventSignedOut, nil)
	}
	return nil
}

func (a *localAuth) OnSessionChange(fn func(event gateway.AuthEvent, s *gateway.Session)) func() {
	c := a.client
	c.mu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// openSession выпускает токен, публикует сессию клиента
// и пушит signed_in слушателям
func (a *localAuth) openSession(profile *models.Profile) (*gateway.Session, error) {
	token, err := a.client.backend.issuer.Generate(profile.ID, string(profile.Role), profile.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s := &gateway.Session{
		UserID:      profile.ID,
		Email:       profile.Email,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(a.client.backend.tokenTTL),
		Metadata: map[string]string{
			"role":       string(profile.Role),
			"full_name":  profile.FullName,
			"avatar_url": profile.AvatarURL,
		},
	}

	a.client.mu.Lock()
	a.client.session = s
	a.client.mu.Unlock()

	a.client.emitSessionChange(gateway.EventSignedIn, s)
	return s, nil
}

func (a *localAuth) clearSession() {
	a.client.mu.Lock()
	had := a.client.session != nil
	a.client.session = nil
	a.client.mu.Unlock()

	if had {
		a.client.emitSessionChange(gateway.EventSignedOut, nil)
	}
}

func emailLocalPart(addr string) string {
	if i := strings.Index(addr, "@"); i > 0 {
		return addr[:i]
	}
	return addr
}
