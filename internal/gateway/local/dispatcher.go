package local

import (
	"sync"

	"craftfolio_backend/internal/gateway"
)

type handlerEntry struct {
	spec gateway.ChangeSpec
	fn   func(gateway.ChangeEvent)
}

type subscriber struct {
	id       int
	handlers []handlerEntry
}

// Dispatcher доставляет change-события всем открытым подпискам.
// Доставка синхронная, под одним мьютексом: события одной таблицы
// приходят подписчику в порядке коммита. Межтабличный порядок
// не гарантируется (см. контракт канала).
type Dispatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]*subscriber)}
}

// Register открывает подписку с набором обработчиков
func (d *Dispatcher) Register(handlers []handlerEntry) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.subs[id] = &subscriber{id: id, handlers: handlers}
	return id
}

// Unregister закрывает подписку. После возврата обработчики
// больше не вызываются.
func (d *Dispatcher) Unregister(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, id)
}

// Emit рассылает событие всем подпискам, чья спецификация совпала
func (d *Dispatcher) Emit(event gateway.ChangeEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, sub := range d.subs {
		for _, h := range sub.handlers {
			if h.spec.Matches(event) {
				h.fn(event)
			}
		}
	}
}
