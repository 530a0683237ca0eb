package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// localTable - CRUD поверх gorm с эмиссией change-событий.
// Каждая успешная мутация публикует снимки затронутых строк
// в диспетчер, откуда их разбирают realtime-подписки.
type localTable struct {
	backend *Backend
	name    string
}

type rowID struct {
	ID string `json:"id"`
}

// log пишет операцию шлюза с длительностью; вызывается через defer.
// ErrNoRows - валидный пустой результат, не ошибка операции.
func (t *localTable) log(op string, start time.Time, err *error) {
	e := *err
	if errors.Is(e, gateway.ErrNoRows) {
		e = nil
	}
	logger.GatewayLog(op, t.name, time.Since(start), e)
}

func (t *localTable) query(ctx context.Context, opts []gateway.QueryOption) (*gorm.DB, error) {
	q := t.backend.db.WithContext(ctx).Table(t.name)
	for _, opt := range opts {
		switch opt.Kind {
		case "eq":
			q = q.Where(fmt.Sprintf("%s = ?", opt.Column), opt.Value)
		case "order":
			dir := "ASC"
			if opt.Desc {
				dir = "DESC"
			}
			q = q.Order(fmt.Sprintf("%s %s", opt.Column, dir))
		case "limit":
			q = q.Limit(opt.Limit)
		default:
			return nil, fmt.Errorf("local gateway: unknown query option %q", opt.Kind)
		}
	}
	return q, nil
}

func (t *localTable) Select(ctx context.Context, dest any, opts ...gateway.QueryOption) (err error) {
	defer t.log("select", time.Now(), &err)
	q, err := t.query(ctx, opts)
	if err != nil {
		return err
	}
	return q.Find(dest).Error
}

func (t *localTable) SelectOne(ctx context.Context, dest any, opts ...gateway.QueryOption) (err error) {
	defer t.log("select_one", time.Now(), &err)
	q, err := t.query(ctx, opts)
	if err != nil {
		return err
	}
	if err := q.Take(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gateway.ErrNoRows
		}
		return err
	}
	return nil
}

// Count - head-only запрос: только число строк, без полезной нагрузки
func (t *localTable) Count(ctx context.Context, opts ...gateway.QueryOption) (n int64, err error) {
	defer t.log("count", time.Now(), &err)
	q, err := t.query(ctx, opts)
	if err != nil {
		return 0, err
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (t *localTable) Insert(ctx context.Context, rows any) (err error) {
	defer t.log("insert", time.Now(), &err)
	if err := t.backend.db.WithContext(ctx).Create(rows).Error; err != nil {
		return err
	}
	for _, row := range flattenRows(rows) {
		t.emit(gateway.ChangeInsert, marshalRow(row), nil)
	}
	return nil
}

func (t *localTable) Update(ctx context.Context, patch map[string]any, opts ...gateway.QueryOption) (err error) {
	defer t.log("update", time.Now(), &err)
	before, err := t.snapshot(ctx, opts)
	if err != nil {
		return err
	}
	q, err := t.query(ctx, opts)
	if err != nil {
		return err
	}
	if err := q.Updates(patch).Error; err != nil {
		return err
	}

	// Перечитываем те же строки по id, чтобы событие несло
	// актуальный снимок, а не только применённый patch
	for _, old := range before {
		var id rowID
		if json.Unmarshal(old, &id) != nil || id.ID == "" {
			continue
		}
		after, err := t.snapshot(ctx, []gateway.QueryOption{gateway.Eq("id", id.ID)})
		if err != nil || len(after) == 0 {
			continue
		}
		t.emit(gateway.ChangeUpdate, after[0], old)
	}
	return nil
}

func (t *localTable) Upsert(ctx context.Context, row any, conflictKey string) (err error) {
	defer t.log("upsert", time.Now(), &err)
	raw := marshalRow(row)
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return err
	}
	conflictValue, ok := asMap[conflictKey]
	if !ok {
		return fmt.Errorf("local gateway: row has no conflict key %q", conflictKey)
	}

	before, err := t.snapshot(ctx, []gateway.QueryOption{gateway.Eq(conflictKey, conflictValue)})
	if err != nil {
		return err
	}

	err = t.backend.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: conflictKey}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return err
	}

	after, err := t.snapshot(ctx, []gateway.QueryOption{gateway.Eq(conflictKey, conflictValue)})
	if err != nil || len(after) == 0 {
		return err
	}
	if len(before) == 0 {
		t.emit(gateway.ChangeInsert, after[0], nil)
	} else {
		t.emit(gateway.ChangeUpdate, after[0], before[0])
	}
	return nil
}

func (t *localTable) Delete(ctx context.Context, opts ...gateway.QueryOption) (err error) {
	defer t.log("delete", time.Now(), &err)
	hasFilter := false
	for _, opt := range opts {
		if opt.Kind == "eq" {
			hasFilter = true
		}
	}
	if !hasFilter {
		return fmt.Errorf("local gateway: refusing to delete without a filter")
	}

	before, err := t.snapshot(ctx, opts)
	if err != nil {
		return err
	}

	proto, err := newRowSlice(t.name)
	if err != nil {
		return err
	}
	elemType := reflect.TypeOf(proto).Elem().Elem()
	model := reflect.New(elemType).Interface()

	q, err := t.query(ctx, opts)
	if err != nil {
		return err
	}
	if err := q.Delete(model).Error; err != nil {
		return err
	}

	for _, old := range before {
		t.emit(gateway.ChangeDelete, nil, old)
	}
	return nil
}

// snapshot читает совпадающие строки в типизированный слайс таблицы
// и возвращает их JSON-снимки
func (t *localTable) snapshot(ctx context.Context, opts []gateway.QueryOption) ([]json.RawMessage, error) {
	slicePtr, err := newRowSlice(t.name)
	if err != nil {
		return nil, err
	}
	q, err := t.query(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := q.Find(slicePtr).Error; err != nil {
		return nil, err
	}

	var out []json.RawMessage
	for _, row := range rowsOf(slicePtr) {
		out = append(out, marshalRow(row))
	}
	return out, nil
}

func (t *localTable) emit(typ gateway.ChangeType, newRow, oldRow json.RawMessage) {
	t.backend.dispatcher.Emit(gateway.ChangeEvent{
		Type:  typ,
		Table: t.name,
		New:   newRow,
		Old:   oldRow,
	})
}

// flattenRows разворачивает аргумент Insert в список строк
// (поддерживаются *T, T и слайсы)
func flattenRows(rows any) []any {
	v := reflect.ValueOf(rows)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, v.Index(i).Interface())
		}
		return out
	}
	return []any{v.Interface()}
}

func marshalRow(row any) json.RawMessage {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	return raw
}
