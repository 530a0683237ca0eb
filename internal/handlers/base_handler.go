package handlers

import (
	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/logger"
	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/validator"
	"craftfolio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// Gateway извлекает клиент шлюза данных из контекста запроса.
// GatewayMiddleware кладет его в каждый запрос; отсутствие - ошибка
// конфигурации приложения.
func (h *BaseHandler) Gateway(c *gin.Context) gateway.Gateway {
	gw := middleware.GetGateway(c)
	if gw == nil {
		logger.CtxError(c.Request.Context(), "critical error: gateway client not found in context")
		panic("critical error: GatewayMiddleware did not set the gateway client")
	}
	return gw
}

func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// HandleError отдает ошибку клиенту в формате apperrors
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}
