package handlers

import (
	"net/http"

	"craftfolio_backend/internal/email"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/viewmodels"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	email      email.Provider
	adminEmail string
}

func NewContactHandler(base *BaseHandler, provider email.Provider, adminEmail string) *ContactHandler {
	return &ContactHandler{BaseHandler: base, email: provider, adminEmail: adminEmail}
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Форма обратной связи доступна анонимам
	rg.POST("/contact", h.Send)
}

func (h *ContactHandler) Send(c *gin.Context) {
	var req ContactRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewContactViewModel(h.Gateway(c), h.email, h.adminEmail)
	err := vm.Send(c.Request.Context(), models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message received"})
}
