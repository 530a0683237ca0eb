package contextkeys

type ContextKey string

const (
	// GatewayContextKey - ключ, под которым middleware кладет в контекст
	// авторизованный клиент шлюза данных для текущего запроса
	GatewayContextKey ContextKey = "gateway_client"
)
