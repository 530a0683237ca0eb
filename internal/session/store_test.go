package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/roleroute"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway - управляемый шлюз для тестов хранилища сессии:
// позволяет задать ответ сетевой проверки и содержимое profiles.
type fakeGateway struct {
	mu        sync.Mutex
	session   *gateway.Session
	sessErr   error
	profiles  map[string]models.Profile
	fetchErr  error
	inserts   []models.Profile
	listeners []func(gateway.AuthEvent, *gateway.Session)
	signOuts  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{profiles: make(map[string]models.Profile)}
}

func (f *fakeGateway) Auth() gateway.Auth            { return (*fakeAuth)(f) }
func (f *fakeGateway) Table(name string) gateway.Table {
	return &fakeTable{gw: f}
}
func (f *fakeGateway) Channel(name string) gateway.Channel { return nil }

// emit доставляет событие аутентификации всем слушателям
func (f *fakeGateway) emit(event gateway.AuthEvent, s *gateway.Session) {
	f.mu.Lock()
	fns := make([]func(gateway.AuthEvent, *gateway.Session), 0, len(f.listeners))
	fns = append(fns, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(event, s)
	}
}

type fakeAuth fakeGateway

func (a *fakeAuth) Session(ctx context.Context) (*gateway.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session, a.sessErr
}

func (a *fakeAuth) User(ctx context.Context) (*gateway.Session, error) { return a.Session(ctx) }

func (a *fakeAuth) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*gateway.Session, error) {
	return nil, errors.New("not implemented")
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	return nil, errors.New("not implemented")
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.signOuts++
	a.session = nil
	a.mu.Unlock()
	(*fakeGateway)(a).emit(gateway.EventSignedOut, nil)
	return nil
}

func (a *fakeAuth) OnSessionChange(fn func(event gateway.AuthEvent, s *gateway.Session)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
	return func() {}
}

type fakeTable struct {
	gw *fakeGateway
}

func (t *fakeTable) Select(ctx context.Context, dest any, opts ...gateway.QueryOption) error {
	return errors.New("not implemented")
}

func (t *fakeTable) SelectOne(ctx context.Context, dest any, opts ...gateway.QueryOption) error {
	t.gw.mu.Lock()
	defer t.gw.mu.Unlock()
	if t.gw.fetchErr != nil {
		return t.gw.fetchErr
	}
	for _, opt := range opts {
		if opt.Kind == "eq" && opt.Column == "id" {
			id, _ := opt.Value.(string)
			if p, ok := t.gw.profiles[id]; ok {
				*dest.(*models.Profile) = p
				return nil
			}
			return gateway.ErrNoRows
		}
	}
	return gateway.ErrNoRows
}

func (t *fakeTable) Count(ctx context.Context, opts ...gateway.QueryOption) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *fakeTable) Insert(ctx context.Context, rows any) error {
	t.gw.mu.Lock()
	defer t.gw.mu.Unlock()
	p := *rows.(*models.Profile)
	t.gw.profiles[p.ID] = p
	t.gw.inserts = append(t.gw.inserts, p)
	return nil
}

func (t *fakeTable) Update(ctx context.Context, patch map[string]any, opts ...gateway.QueryOption) error {
	return errors.New("not implemented")
}

func (t *fakeTable) Upsert(ctx context.Context, row any, conflictKey string) error {
	return errors.New("not implemented")
}

func (t *fakeTable) Delete(ctx context.Context, opts ...gateway.QueryOption) error {
	return errors.New("not implemented")
}

// fakeNavigator записывает навигационные побочные эффекты
type fakeNavigator struct {
	mu      sync.Mutex
	current roleroute.View
	visited []roleroute.View
}

func (n *fakeNavigator) CurrentView() roleroute.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNavigator) Navigate(target roleroute.View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visited = append(n.visited, target)
	n.current = target
}

func seekerSession(userID string) *gateway.Session {
	return &gateway.Session{
		UserID:      userID,
		Email:       "seeker@test.com",
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
		Metadata:    map[string]string{"role": "seeker"},
	}
}

func seekerProfile(userID string) models.Profile {
	p := models.Profile{Email: "seeker@test.com", FullName: "Seeker", Role: models.UserRoleSeeker}
	p.ID = userID
	return p
}

// Кешированная личность, подтвержденная сетью тем же пользователем,
// никогда не мигает состоянием "никого нет"
func TestBootstrapCachePrecedence(t *testing.T) {
	gw := newFakeGateway()
	gw.session = seekerSession("u1")
	gw.profiles["u1"] = seekerProfile("u1")

	cache := NewMemoryCache()
	require.NoError(t, cache.Save(&CachedIdentity{Profile: seekerProfile("u1"), AccessToken: "token"}))

	nav := &fakeNavigator{current: roleroute.ViewSeekerDashboard}
	store := NewStore(gw, cache, nav)
	defer store.Close()

	var published []State
	unsubscribe := store.Subscribe(func(s State) { published = append(published, s) })
	defer unsubscribe()

	require.NoError(t, store.Bootstrap(context.Background()))

	require.NotEmpty(t, published)
	for i, s := range published[1:] {
		assert.NotNil(t, s.Identity, "публикация %d не должна быть пустой", i+1)
	}

	final := store.Current()
	require.NotNil(t, final.Identity)
	assert.Equal(t, "u1", final.Identity.ID)
	assert.Equal(t, FreshnessVerified, final.Freshness)
}

// Без кеша и без сессии публикуется "никого нет"
func TestBootstrapNoIdentity(t *testing.T) {
	gw := newFakeGateway()
	store := NewStore(gw, NewMemoryCache(), &fakeNavigator{current: roleroute.ViewLanding})
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))

	s := store.Current()
	assert.Nil(t, s.Identity)
	assert.Equal(t, FreshnessVerified, s.Freshness)
}

// Кеш есть, сессии нет: кешированная личность не сбрасывается
// бутстрапом - зачистка приходит событием signed_out
func TestBootstrapStaleCacheWaitsForListener(t *testing.T) {
	gw := newFakeGateway()
	cache := NewMemoryCache()
	require.NoError(t, cache.Save(&CachedIdentity{Profile: seekerProfile("u1"), AccessToken: "stale"}))

	nav := &fakeNavigator{current: roleroute.ViewSeekerDashboard}
	store := NewStore(gw, cache, nav)
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))

	s := store.Current()
	require.NotNil(t, s.Identity, "кешированная личность переживает бутстрап без сессии")
	assert.Equal(t, FreshnessCached, s.Freshness)

	// Событие signed_out зачищает состояние и уводит с защищенного экрана
	gw.emit(gateway.EventSignedOut, nil)

	s = store.Current()
	assert.Nil(t, s.Identity)
	cached, _ := cache.Load()
	assert.Nil(t, cached, "кеш очищен")
	assert.Contains(t, nav.visited, roleroute.ViewLanding)
}

// Отсутствующая строка профиля синтезируется с ролью seeker
// и именем из local-part почты
func TestResolveProfileSynthesizesMissingRow(t *testing.T) {
	gw := newFakeGateway()
	nav := &fakeNavigator{current: roleroute.ViewAuth}
	store := NewStore(gw, NewMemoryCache(), nav)
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))

	sess := seekerSession("u2")
	sess.Metadata = map[string]string{}
	gw.emit(gateway.EventSignedIn, sess)

	s := store.Current()
	require.NotNil(t, s.Identity)
	assert.Equal(t, "u2", s.Identity.ID)
	assert.Equal(t, models.UserRoleSeeker, s.Identity.Role)
	assert.Equal(t, "seeker", s.Identity.FullName, "имя берется из local-part почты")
	require.Len(t, gw.inserts, 1, "профиль вставлен fallback-ом")

	// Со страницы входа уводит на домашний экран роли
	assert.Contains(t, nav.visited, roleroute.ViewSeekerDashboard)
}

// Ошибка загрузки профиля (не "нет строки") оставляет пользователя
// разлогиненным, а не полуинициализированным
func TestResolveProfileErrorFailsOpen(t *testing.T) {
	gw := newFakeGateway()
	gw.fetchErr = errors.New("network down")
	nav := &fakeNavigator{current: roleroute.ViewAuth}
	store := NewStore(gw, NewMemoryCache(), nav)
	defer store.Close()

	_ = store.Bootstrap(context.Background())
	gw.emit(gateway.EventSignedIn, seekerSession("u3"))

	s := store.Current()
	assert.Nil(t, s.Identity)
	assert.Empty(t, gw.inserts)
}

// Логин на глубокой ссылке не угоняет навигацию
func TestResolveProfileDeepLinkNoRedirect(t *testing.T) {
	gw := newFakeGateway()
	gw.profiles["u4"] = seekerProfile("u4")
	nav := &fakeNavigator{current: roleroute.ViewSettings}
	store := NewStore(gw, NewMemoryCache(), nav)
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))
	gw.emit(gateway.EventSignedIn, seekerSession("u4"))

	require.NotNil(t, store.Current().Identity)
	assert.Empty(t, nav.visited, "редирект с глубокой ссылки не выполняется")
}

// SignOut идемпотентен, чистит кеш и уводит с защищенного экрана
func TestSignOut(t *testing.T) {
	gw := newFakeGateway()
	gw.session = seekerSession("u5")
	gw.profiles["u5"] = seekerProfile("u5")

	cache := NewMemoryCache()
	nav := &fakeNavigator{current: roleroute.ViewSeekerDashboard}
	store := NewStore(gw, cache, nav)
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))
	require.NotNil(t, store.Current().Identity)

	require.NoError(t, store.SignOut(context.Background()))
	assert.Nil(t, store.Current().Identity)
	cached, _ := cache.Load()
	assert.Nil(t, cached)
	assert.Contains(t, nav.visited, roleroute.ViewLanding)

	require.NoError(t, store.SignOut(context.Background()), "повторный выход не ошибка")
}

// С публичного портфолио логаут не уводит зрителя
func TestSignOutOnPublicViewStays(t *testing.T) {
	gw := newFakeGateway()
	nav := &fakeNavigator{current: roleroute.View("/p/someone")}
	store := NewStore(gw, NewMemoryCache(), nav)
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))
	require.NoError(t, store.SignOut(context.Background()))

	assert.Empty(t, nav.visited, "с публичного экрана не уводим")
}

// Успешная загрузка профиля пишет кеш для следующего старта
func TestResolveProfileWritesCache(t *testing.T) {
	gw := newFakeGateway()
	gw.session = seekerSession("u6")
	gw.profiles["u6"] = seekerProfile("u6")

	cache := NewMemoryCache()
	store := NewStore(gw, cache, &fakeNavigator{current: roleroute.ViewLanding})
	defer store.Close()

	require.NoError(t, store.Bootstrap(context.Background()))

	cached, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "u6", cached.Profile.ID)
}

// Правка профиля в настройках перепубликует личность и обновляет кеш,
// не трогая сохраненный токен и не навигируя
func TestApplyProfileRefreshesCache(t *testing.T) {
	gw := newFakeGateway()
	gw.session = seekerSession("u9")
	gw.profiles["u9"] = seekerProfile("u9")

	cache := NewMemoryCache()
	require.NoError(t, cache.Save(&CachedIdentity{Profile: seekerProfile("u9"), AccessToken: "tok-9"}))

	nav := &fakeNavigator{current: roleroute.ViewSettings}
	store := NewStore(gw, cache, nav)
	defer store.Close()
	require.NoError(t, store.Bootstrap(context.Background()))

	edited := seekerProfile("u9")
	edited.FullName = "После правки"
	store.ApplyProfile(edited)

	state := store.Current()
	require.NotNil(t, state.Identity)
	assert.Equal(t, "После правки", state.Identity.FullName)
	assert.Equal(t, FreshnessVerified, state.Freshness)

	cached, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "После правки", cached.Profile.FullName, "кеш переживает правку")
	assert.Equal(t, "tok-9", cached.AccessToken, "токен в кеше не теряется")
	assert.Empty(t, nav.visited, "правка профиля никуда не уводит")
}
