package session

import (
	"context"
	"strings"
	"sync"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/roleroute"
)

// Freshness - степень доверия к опубликованной личности
type Freshness string

const (
	// FreshnessCached - личность поднята из локального кеша,
	// сетевая проверка еще не завершилась
	FreshnessCached Freshness = "cached"

	// FreshnessVerified - личность подтверждена шлюзом
	FreshnessVerified Freshness = "verified"
)

// State - опубликованное состояние сессии. Identity == nil
// означает "никто не залогинен".
type State struct {
	Identity  *models.Profile
	Freshness Freshness
}

// Navigator получает навигационные побочные эффекты хранилища
// (редирект на домашний экран роли после логина, уход с защищенных
// экранов после логаута). Реализуется слоем представления.
type Navigator interface {
	// CurrentView возвращает экран, на котором сейчас пользователь
	CurrentView() roleroute.View
	Navigate(target roleroute.View)
}

// Store владеет текущей аутентифицированной личностью.
// Единственный писатель состояния; все потребители получают
// обновления через Subscribe и не мутируют State.
type Store struct {
	gw    gateway.Gateway
	cache Cache
	nav   Navigator

	mu          sync.Mutex
	state       State
	nextSubID   int
	subscribers map[int]func(State)
	unsubscribe func()
	closed      bool
}

func NewStore(gw gateway.Gateway, cache Cache, nav Navigator) *Store {
	return &Store{
		gw:          gw,
		cache:       cache,
		nav:         nav,
		subscribers: make(map[int]func(State)),
	}
}

// Bootstrap инициализирует хранилище: мгновенно публикует кешированную
// личность (если есть), затем сверяется со шлюзом. Пока идет сверка,
// кешированная личность не сбрасывается - иначе UI мигнет
// разлогиненным состоянием.
func (s *Store) Bootstrap(ctx context.Context) error {
	cached, _ := s.cache.Load()
	if cached != nil {
		s.publish(State{Identity: &cached.Profile, Freshness: FreshnessCached})
	}

	s.mu.Lock()
	if s.unsubscribe == nil && !s.closed {
		s.unsubscribe = s.gw.Auth().OnSessionChange(s.onSessionChange)
	}
	s.mu.Unlock()

	sess, err := s.gw.Auth().Session(ctx)
	if err != nil {
		logger.CtxWithError(ctx, "Не удалось проверить сессию при старте", err)
		if cached == nil {
			s.publish(State{})
		}
		return err
	}

	switch {
	case sess != nil:
		s.resolveProfile(ctx, sess)
	case cached == nil:
		// Никого нет и не было - публикуем пустое состояние
		s.publish(State{Freshness: FreshnessVerified})
	default:
		// Кеш был, а сессии нет: зачистку оставляем слушателю
		// signed_out, чтобы не гоняться с ним
	}
	return nil
}

// onSessionChange - обработчик push-канала аутентификации
func (s *Store) onSessionChange(event gateway.AuthEvent, sess *gateway.Session) {
	ctx := context.Background()

	if sess == nil {
		_ = s.cache.Clear()
		s.publish(State{Freshness: FreshnessVerified})
		// С публичных экранов не уводим - иначе логаут на чужом
		// портфолио выбрасывал бы зрителя на лендинг
		if s.nav != nil && !roleroute.IsPublic(s.nav.CurrentView()) {
			s.nav.Navigate(roleroute.ViewLanding)
		}
		return
	}

	s.mu.Lock()
	current := s.state.Identity
	s.mu.Unlock()
	if current != nil && current.ID == sess.UserID && s.currentFreshness() == FreshnessVerified {
		return
	}
	s.resolveProfile(ctx, sess)
}

// resolveProfile загружает профиль по id сессии; при отсутствии строки
// (первый вход до того, как сработал серверный триггер) синтезирует
// профиль по умолчанию и вставляет его
func (s *Store) resolveProfile(ctx context.Context, sess *gateway.Session) {
	var profile models.Profile
	err := s.gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", sess.UserID))

	switch {
	case err == nil:
		// найден
	case err == gateway.ErrNoRows:
		profile = s.defaultProfile(sess)
		if insErr := s.gw.Table("profiles").Insert(ctx, &profile); insErr != nil {
			logger.CtxWithError(ctx, "Не удалось создать профиль при первом входе", insErr)
			s.publish(State{Freshness: FreshnessVerified})
			return
		}
	default:
		// Любая другая ошибка: безопаснее показать "разлогинен",
		// чем полуинициализированную личность
		logger.CtxWithError(ctx, "Не удалось загрузить профиль", err)
		s.publish(State{Freshness: FreshnessVerified})
		return
	}

	if err := s.cache.Save(&CachedIdentity{Profile: profile, AccessToken: sess.AccessToken}); err != nil {
		logger.CtxWarn(ctx, "Не удалось записать кеш сессии", "error", err)
	}
	s.publish(State{Identity: &profile, Freshness: FreshnessVerified})

	// Редирект на домашний экран роли - только с лендинга или /auth.
	// Обновившийся на глубокой ссылке пользователь остается где был.
	if s.nav != nil {
		cur := s.nav.CurrentView()
		if cur == roleroute.ViewLanding || cur == roleroute.ViewAuth {
			s.nav.Navigate(roleroute.RoleHome(profile.Role))
		}
	}
}

func (s *Store) defaultProfile(sess *gateway.Session) models.Profile {
	fullName := sess.Metadata["full_name"]
	if fullName == "" {
		fullName = emailLocalPart(sess.Email)
	}
	return models.Profile{
		BaseModel: models.BaseModel{ID: sess.UserID},
		Email:     sess.Email,
		FullName:  fullName,
		AvatarURL: sess.Metadata["avatar_url"],
		Role:      models.UserRoleSeeker,
	}
}

// SignOut выходит из сессии. Локальная зачистка (кеш, состояние,
// уход с защищенного экрана) выполняется независимо от исхода
// сетевого вызова. Идемпотентен.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.gw.Auth().SignOut(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "Сетевой выход завершился ошибкой, чистим локально", "error", err)
	}

	_ = s.cache.Clear()
	s.publish(State{Freshness: FreshnessVerified})
	if s.nav != nil && !roleroute.IsPublic(s.nav.CurrentView()) {
		s.nav.Navigate(roleroute.ViewLanding)
	}
	return err
}

// ApplyProfile обновляет опубликованную личность после правки
// собственного профиля (экран настроек). Токен в кеше сохраняется,
// никуда не навигируем: пользователь остается в настройках.
func (s *Store) ApplyProfile(profile models.Profile) {
	token := ""
	if cached, _ := s.cache.Load(); cached != nil {
		token = cached.AccessToken
	}
	if err := s.cache.Save(&CachedIdentity{Profile: profile, AccessToken: token}); err != nil {
		logger.Warn("Не удалось обновить кеш сессии после правки профиля", "error", err)
	}
	s.publish(State{Identity: &profile, Freshness: FreshnessVerified})
}

// Current возвращает опубликованное состояние
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe регистрирует потребителя состояния. Ему сразу же
// доставляется текущее состояние, затем каждая публикация.
// Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close отписывается от канала аутентификации. После возврата
// публикаций больше не будет.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) publish(state State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = state
	fns := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Store) currentFreshness() Freshness {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Freshness
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
