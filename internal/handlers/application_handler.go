package handlers

import (
	"net/http"

	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/viewmodels"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
}

func NewApplicationHandler(base *BaseHandler) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: base}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	apps.Use(middleware.RequireAuth())
	{
		seeker := apps.Group("")
		seeker.Use(middleware.RequireRoles(models.UserRoleSeeker))
		{
			seeker.GET("", h.My)
			seeker.POST("", h.Apply)
			seeker.DELETE("/:id", h.Withdraw)
		}

		hirer := apps.Group("")
		hirer.Use(middleware.RequireRoles(models.UserRoleHirer))
		{
			// Открытие на разбор - с побочным переходом pending -> reviewed
			hirer.GET("/:id/review", h.Review)
			hirer.PATCH("/:id/status", h.SetStatus)
		}
	}
}

// My - трекер собственных откликов соискателя
func (h *ApplicationHandler) My(c *gin.Context) {
	vm := viewmodels.NewApplicationsViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": vm.Rows()})
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewJobsViewModel(h.Gateway(c))
	defer vm.Close()

	err := vm.Apply(c.Request.Context(), middleware.GetUserID(c), req.JobID, req.CoverLetter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted"})
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	vm := viewmodels.NewApplicationsViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.Withdraw(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}

func (h *ApplicationHandler) Review(c *gin.Context) {
	vm := viewmodels.NewReviewViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	view, err := vm.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewReviewViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	err := vm.SetStatus(c.Request.Context(), c.Param("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}
