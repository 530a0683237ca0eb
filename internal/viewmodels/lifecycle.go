package viewmodels

import (
	"sync"

	"craftfolio_backend/internal/gateway"
)

// mount - общий жизненный цикл view-model: учет realtime-подписок
// и защита от обновления состояния после размонтирования.
// Встраивается в каждую view-model; мьютекс защищает и ее локальный срез.
type mount struct {
	mu     sync.Mutex
	closed bool
	subs   []gateway.Subscription
}

// attach регистрирует подписку для последующего закрытия.
// Если view-model уже закрыта, подписка снимается немедленно.
func (m *mount) attach(sub gateway.Subscription) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	m.subs = append(m.subs, sub)
	m.mu.Unlock()
}

// update выполняет мутацию локального состояния под мьютексом.
// После Close превращается в no-op: долетевший ответ
// размонтированной view-model ничего не меняет.
func (m *mount) update(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	fn()
	return true
}

// read выполняет fn под мьютексом независимо от closed
func (m *mount) read(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// Close синхронно снимает все подписки. После возврата обработчики
// событий не вызываются, а поздние ответы не трогают состояние.
func (m *mount) Close() {
	m.mu.Lock()
	m.closed = true
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
