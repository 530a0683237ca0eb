package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChangeType - тип изменения строки
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeAll    ChangeType = "*"
)

// ChangeSpec описывает подписку: тип события, таблица и опциональный
// серверный фильтр вида "seeker_id=eq.<id>"
type ChangeSpec struct {
	Event  ChangeType `json:"event"`
	Table  string     `json:"table"`
	Filter string     `json:"filter,omitempty"`
}

// ChangeEvent - push-уведомление об изменении строки.
// New/Old - JSON-снимки строки до и после изменения; потребитель
// декодирует их в свой типизированный ряд и мержит по первичному ключу.
type ChangeEvent struct {
	Type  ChangeType      `json:"type"`
	Table string          `json:"table"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
}

// Row декодирует снимок строки события: New для insert/update, Old для delete
func (e ChangeEvent) Row(dest any) error {
	raw := e.New
	if e.Type == ChangeDelete {
		raw = e.Old
	}
	if raw == nil {
		return fmt.Errorf("gateway: change event carries no row payload")
	}
	return json.Unmarshal(raw, dest)
}

// Matches проверяет событие против спецификации подписки.
// Фильтр сопоставляется со снимком строки; канал грубее построчного
// предиката, поэтому INSERT-ы потребитель перепроверяет сам.
func (s ChangeSpec) Matches(e ChangeEvent) bool {
	if s.Table != "" && s.Table != e.Table {
		return false
	}
	if s.Event != ChangeAll && s.Event != e.Type {
		return false
	}
	if s.Filter == "" {
		return true
	}

	column, want, ok := parseFilter(s.Filter)
	if !ok {
		return false
	}

	raw := e.New
	if e.Type == ChangeDelete {
		raw = e.Old
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return false
	}
	got, exists := row[column]
	if !exists {
		return false
	}
	return fmt.Sprintf("%v", got) == want
}

// parseFilter разбирает выражение "column=eq.value"
func parseFilter(filter string) (column, value string, ok bool) {
	parts := strings.SplitN(filter, "=eq.", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Subscription - открытая подписка на канал
type Subscription interface {
	Unsubscribe()
}

// Channel - именованный канал realtime-событий
type Channel interface {
	// On регистрирует обработчик; возвращает тот же канал для чейнинга
	On(spec ChangeSpec, fn func(ChangeEvent)) Channel

	// Subscribe открывает подписку; до вызова события не доставляются
	Subscribe() (Subscription, error)
}
