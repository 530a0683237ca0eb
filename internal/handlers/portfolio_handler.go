package handlers

import (
	"net/http"

	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/viewmodels"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type PortfolioHandler struct {
	*BaseHandler
}

func NewPortfolioHandler(base *BaseHandler) *PortfolioHandler {
	return &PortfolioHandler{BaseHandler: base}
}

func (h *PortfolioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Публичная страница портфолио доступна без токена
	rg.GET("/p/:userID", h.Public)

	p := rg.Group("/portfolio")
	p.Use(middleware.RequireAuth())
	{
		p.GET("", h.Own)
		p.PUT("", h.Save)
	}
}

// Own возвращает портфолио текущего пользователя;
// отсутствие строки - валидное пустое состояние редактора
func (h *PortfolioHandler) Own(c *gin.Context) {
	vm := viewmodels.NewPortfolioViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": vm.Portfolio()})
}

func (h *PortfolioHandler) Save(c *gin.Context) {
	var req SavePortfolioRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewPortfolioViewModel(h.Gateway(c))
	defer vm.Close()

	p := models.Portfolio{
		UserID:     middleware.GetUserID(c),
		Title:      req.Title,
		Bio:        req.Bio,
		Location:   req.Location,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		Github:     req.Github,
		Linkedin:   req.Linkedin,
		Skills:     datatypes.JSONSlice[string](req.Skills),
		Projects:   datatypes.JSONSlice[models.Project](req.Projects),
		Experience: datatypes.JSONSlice[models.Experience](req.Experience),
		Template:   models.PortfolioTemplate(req.Template),
	}
	if err := vm.Save(c.Request.Context(), p); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": vm.Portfolio()})
}

// Public - страница /p/<userID>, видна любому посетителю
func (h *PortfolioHandler) Public(c *gin.Context) {
	vm := viewmodels.NewPortfolioViewModel(h.Gateway(c))
	defer vm.Close()

	view, err := vm.LoadPublic(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
