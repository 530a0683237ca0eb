package local

import (
	"craftfolio_backend/internal/gateway"
)

// localChannel накапливает обработчики и регистрирует их
// в диспетчере одной подпиской при Subscribe
type localChannel struct {
	dispatcher *Dispatcher
	handlers   []handlerEntry
}

func (c *localChannel) On(spec gateway.ChangeSpec, fn func(gateway.ChangeEvent)) gateway.Channel {
	c.handlers = append(c.handlers, handlerEntry{spec: spec, fn: fn})
	return c
}

func (c *localChannel) Subscribe() (gateway.Subscription, error) {
	id := c.dispatcher.Register(c.handlers)
	return &localSubscription{dispatcher: c.dispatcher, id: id}, nil
}

type localSubscription struct {
	dispatcher *Dispatcher
	id         int
}

// Unsubscribe синхронно снимает подписку: после возврата
// обработчики гарантированно не вызываются
func (s *localSubscription) Unsubscribe() {
	s.dispatcher.Unregister(s.id)
}
