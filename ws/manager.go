package ws

import (
	"sync"

	"craftfolio_backend/internal/logger"
)

// Manager ведет учет подключенных realtime-клиентов
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("WS-клиент подключен", "client_id", client.ID, "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			_, known := m.clients[client.ID]
			if known {
				delete(m.clients, client.ID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			if known {
				// Сначала синхронно снимаем подписки, и только потом
				// закрываем Send: обработчики шлюза пишут в этот канал,
				// обратный порядок ловил событие на закрытом канале
				client.dropSubscriptions()
				close(client.Send)
			}
			logger.Debug("WS-клиент отключен", "client_id", client.ID, "total", total)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
