package ws

import (
	"encoding/json"
	"sync"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"

	"github.com/gorilla/websocket"
)

// IncomingMessage - команда клиента: подписка/отписка на изменения таблицы
type IncomingMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// SubscribePayload - параметры подписки: имя канала и спецификация
type SubscribePayload struct {
	Channel string `json:"channel"`
	gateway.ChangeSpec
}

// OutgoingChange - событие изменения, доставляемое клиенту
type OutgoingChange struct {
	Channel string              `json:"channel"`
	Event   gateway.ChangeEvent `json:"event"`
}

// Client - одно websocket-соединение с собственным клиентом шлюза
// и набором открытых подписок
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan any

	gw      gateway.Gateway
	manager *Manager

	mu   sync.Mutex
	subs map[string]gateway.Subscription
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("Нечитаемое WS-сообщение", "client_id", c.ID, "error", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Debug("Ошибка записи в WS", "client_id", c.ID, "error", err)
			break
		}
	}
}

func (c *Client) handleMessage(msg IncomingMessage) {
	switch msg.Action {
	case "subscribe":
		var payload SubscribePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.Channel == "" {
			logger.Debug("Невалидный subscribe payload", "client_id", c.ID, "error", err)
			return
		}
		c.subscribe(payload)

	case "unsubscribe":
		var payload struct {
			Channel string `json:"channel"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return
		}
		c.unsubscribeChannel(payload.Channel)

	default:
		logger.Debug("Неизвестное WS-действие", "action", msg.Action, "client_id", c.ID)
	}
}

func (c *Client) subscribe(payload SubscribePayload) {
	channelName := payload.Channel
	sub, err := c.gw.Channel(channelName).
		On(payload.ChangeSpec, func(e gateway.ChangeEvent) {
			// Переполненный Send роняет соединение в writePump,
			// здесь достаточно не блокироваться
			select {
			case c.Send <- OutgoingChange{Channel: channelName, Event: e}:
			default:
			}
		}).
		Subscribe()
	if err != nil {
		logger.Warn("Не удалось открыть WS-подписку", "channel", channelName, "error", err)
		return
	}

	c.mu.Lock()
	if old, ok := c.subs[channelName]; ok {
		old.Unsubscribe()
	}
	c.subs[channelName] = sub
	c.mu.Unlock()
}

func (c *Client) unsubscribeChannel(name string) {
	c.mu.Lock()
	sub, ok := c.subs[name]
	delete(c.subs, name)
	c.mu.Unlock()
	if ok {
		sub.Unsubscribe()
	}
}

// dropSubscriptions закрывает все подписки соединения
func (c *Client) dropSubscriptions() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]gateway.Subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
