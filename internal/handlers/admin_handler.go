package handlers

import (
	"net/http"

	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/viewmodels"
	"craftfolio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type AdminHandler struct {
	*BaseHandler
}

func NewAdminHandler(base *BaseHandler) *AdminHandler {
	return &AdminHandler{BaseHandler: base}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/panel", h.Panel)
		admin.PATCH("/users/:id/role", h.SetRole)
		admin.DELETE("/users/:id", h.DeleteUser)
		admin.POST("/jobs", h.CreateJob)
		admin.DELETE("/jobs/:id", h.DeleteJob)
		admin.DELETE("/messages/:id", h.DeleteMessage)
	}
}

func (h *AdminHandler) Panel(c *gin.Context) {
	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":    vm.Stats(),
		"users":    vm.Users(),
		"jobs":     vm.Jobs(),
		"messages": vm.Messages(),
	})
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID := c.Param("id")
	if userID == middleware.GetUserID(c) {
		h.HandleError(c, apperrors.ErrCannotModifySelf)
		return
	}

	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.SetUserRole(c.Request.Context(), userID, models.UserRole(req.Role)); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	err := vm.DeleteUser(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *AdminHandler) CreateJob(c *gin.Context) {
	var req PostJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	hirerID := req.HirerID
	if hirerID == "" {
		hirerID = middleware.GetUserID(c)
	}
	job, err := vm.CreateJob(c.Request.Context(), models.Job{
		HirerID:      hirerID,
		Title:        req.Title,
		CompanyName:  req.CompanyName,
		Location:     req.Location,
		JobType:      req.JobType,
		SalaryRange:  req.SalaryRange,
		Description:  req.Description,
		Requirements: datatypes.JSONSlice[string](req.Requirements),
		IsActive:     true,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *AdminHandler) DeleteJob(c *gin.Context) {
	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	vm := viewmodels.NewAdminViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
