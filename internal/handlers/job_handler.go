package handlers

import (
	"net/http"

	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/viewmodels"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type JobHandler struct {
	*BaseHandler
}

func NewJobHandler(base *BaseHandler) *JobHandler {
	return &JobHandler{BaseHandler: base}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		// Лента активных вакансий видна любому залогиненному
		jobs.GET("", middleware.RequireAuth(), h.List)

		hirer := jobs.Group("")
		hirer.Use(middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleHirer))
		{
			hirer.POST("", h.Post)
			hirer.PATCH("/:id", h.Update)
			hirer.DELETE("/:id", h.Delete)
		}
	}

	// Дашборды
	rg.GET("/dashboard/seeker",
		middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleSeeker), h.SeekerDashboard)
	rg.GET("/dashboard/hirer",
		middleware.RequireAuth(), middleware.RequireRoles(models.UserRoleHirer), h.HirerDashboard)
}

func (h *JobHandler) List(c *gin.Context) {
	vm := viewmodels.NewJobsViewModel(h.Gateway(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": vm.Jobs()})
}

func (h *JobHandler) Post(c *gin.Context) {
	var req PostJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	vm := viewmodels.NewHirerViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	job, err := vm.PostJob(c.Request.Context(), models.Job{
		Title:        req.Title,
		CompanyName:  req.CompanyName,
		Location:     req.Location,
		JobType:      req.JobType,
		SalaryRange:  req.SalaryRange,
		Description:  req.Description,
		Requirements: datatypes.JSONSlice[string](req.Requirements),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	var req UpdateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.CompanyName != nil {
		patch["company_name"] = *req.CompanyName
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.JobType != nil {
		patch["job_type"] = *req.JobType
	}
	if req.SalaryRange != nil {
		patch["salary_range"] = *req.SalaryRange
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}
	if len(patch) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	vm := viewmodels.NewHirerViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.UpdateJob(c.Request.Context(), c.Param("id"), patch); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job updated"})
}

func (h *JobHandler) Delete(c *gin.Context) {
	vm := viewmodels.NewHirerViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

func (h *JobHandler) SeekerDashboard(c *gin.Context) {
	vm := viewmodels.NewSeekerViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": vm.Stats()})
}

func (h *JobHandler) HirerDashboard(c *gin.Context) {
	vm := viewmodels.NewHirerViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats": vm.Stats(),
		"jobs":  vm.Jobs(),
		"inbox": vm.Inbox(),
	})
}
