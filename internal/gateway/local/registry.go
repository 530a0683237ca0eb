package local

import (
	"fmt"
	"reflect"

	"craftfolio_backend/internal/models"
)

// Реестр таблиц шлюза: имя коллекции -> тип строки.
// Нужен, чтобы снимки строк для change-событий были типизированными
// (JSON-представление совпадает с тем, что видят потребители Select-ов).
var tableTypes = map[string]reflect.Type{
	"profiles":         reflect.TypeOf(models.Profile{}),
	"portfolios":       reflect.TypeOf(models.Portfolio{}),
	"jobs":             reflect.TypeOf(models.Job{}),
	"applications":     reflect.TypeOf(models.Application{}),
	"contact_messages": reflect.TypeOf(models.ContactMessage{}),
}

// newRowSlice возвращает указатель на пустой []T для таблицы
func newRowSlice(table string) (any, error) {
	t, ok := tableTypes[table]
	if !ok {
		return nil, fmt.Errorf("local gateway: unknown table %q", table)
	}
	slice := reflect.New(reflect.SliceOf(t))
	return slice.Interface(), nil
}

// rowsOf разворачивает *[]T обратно в список отдельных строк
func rowsOf(slicePtr any) []any {
	v := reflect.ValueOf(slicePtr).Elem()
	out := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		out = append(out, v.Index(i).Interface())
	}
	return out
}
