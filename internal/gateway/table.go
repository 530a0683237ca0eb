package gateway

import "context"

// QueryOption - фильтр/модификатор запроса к таблице
type QueryOption struct {
	Kind   string // "eq", "order", "limit"
	Column string
	Value  any
	Desc   bool
	Limit  int
}

// Eq - фильтр равенства по колонке
func Eq(column string, value any) QueryOption {
	return QueryOption{Kind: "eq", Column: column, Value: value}
}

// OrderBy - сортировка результата
func OrderBy(column string, desc bool) QueryOption {
	return QueryOption{Kind: "order", Column: column, Desc: desc}
}

// Limit - ограничение количества строк
func Limit(n int) QueryOption {
	return QueryOption{Kind: "limit", Limit: n}
}

// Table - CRUD-операции над именованной коллекцией строк
type Table interface {
	// Select заполняет dest (указатель на слайс) строками по фильтрам
	Select(ctx context.Context, dest any, opts ...QueryOption) error

	// SelectOne заполняет dest одной строкой; ErrNoRows если строки нет
	SelectOne(ctx context.Context, dest any, opts ...QueryOption) error

	// Count возвращает точное число строк без выборки данных (head-only)
	Count(ctx context.Context, opts ...QueryOption) (int64, error)

	Insert(ctx context.Context, rows any) error

	// Update применяет patch ко всем строкам, прошедшим Eq-фильтры
	Update(ctx context.Context, patch map[string]any, opts ...QueryOption) error

	// Upsert вставляет строку либо заменяет существующую
	// по конфликтной колонке conflictKey
	Upsert(ctx context.Context, row any, conflictKey string) error

	Delete(ctx context.Context, opts ...QueryOption) error
}
