package handlers

import (
	"net/http"

	"craftfolio_backend/internal/middleware"
	"craftfolio_backend/internal/viewmodels"

	"github.com/gin-gonic/gin"
)

// ProfileHandler - экран настроек: собственный профиль пользователя
type ProfileHandler struct {
	*BaseHandler
}

func NewProfileHandler(base *BaseHandler) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/profile")
	p.Use(middleware.RequireAuth())
	{
		p.GET("", h.Own)
		p.PATCH("", h.Update)
	}
}

func (h *ProfileHandler) Own(c *gin.Context) {
	vm := viewmodels.NewSettingsViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	if err := vm.Load(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": vm.Profile()})
}

// Update применяет частичную правку собственного профиля.
// Email, пароль и роль через этот маршрут не меняются.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	patch := map[string]any{}
	if req.FullName != nil {
		patch["full_name"] = *req.FullName
	}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Bio != nil {
		patch["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		patch["avatar_url"] = *req.AvatarURL
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.Website != nil {
		patch["website"] = *req.Website
	}
	if req.Github != nil {
		patch["github"] = *req.Github
	}
	if req.Linkedin != nil {
		patch["linkedin"] = *req.Linkedin
	}
	if req.Twitter != nil {
		patch["twitter"] = *req.Twitter
	}
	if len(patch) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	vm := viewmodels.NewSettingsViewModel(h.Gateway(c), middleware.GetUserID(c))
	defer vm.Close()

	saved, err := vm.Save(c.Request.Context(), patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": saved})
}
