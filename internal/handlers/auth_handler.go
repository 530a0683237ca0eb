package handlers

import (
	"errors"
	"net/http"

	"craftfolio_backend/internal/gateway"
	"craftfolio_backend/internal/models"
	"craftfolio_backend/internal/roleroute"
	"craftfolio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
}

func NewAuthHandler(base *BaseHandler) *AuthHandler {
	return &AuthHandler{BaseHandler: base}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.SignOut)
		auth.GET("/session", h.Session)
	}
	rg.GET("/route", h.Route)
}

// sessionResponse - ответ аутентификационных ручек: токен,
// профиль и домашний экран роли для клиентского редиректа
func sessionResponse(sess *gateway.Session, profile *models.Profile) gin.H {
	resp := gin.H{
		"access_token": sess.AccessToken,
		"expires_at":   sess.ExpiresAt,
	}
	if profile != nil {
		resp["profile"] = profile
		resp["home"] = roleroute.RoleHome(profile.Role)
	}
	return resp
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	gw := h.Gateway(c)

	metadata := map[string]string{}
	if req.FullName != "" {
		metadata["full_name"] = req.FullName
	}
	if req.Role != "" {
		metadata["role"] = req.Role
	}

	sess, err := gw.Auth().SignUp(ctx, req.Email, req.Password, metadata)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var profile models.Profile
	if err := gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", sess.UserID)); err != nil {
		h.HandleError(c, apperrors.ErrGateway(err, "auth"))
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(sess, &profile))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	gw := h.Gateway(c)

	sess, err := gw.Auth().SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var profile models.Profile
	if err := gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", sess.UserID)); err != nil {
		h.HandleError(c, apperrors.ErrGateway(err, "auth"))
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess, &profile))
}

// Route отдает решение маршрутизатора для текущей личности
// и целевого экрана (?target=/jobs). Доступен анонимно.
func (h *AuthHandler) Route(c *gin.Context) {
	target := roleroute.View(c.Query("target"))
	if target == "" {
		target = roleroute.ViewLanding
	}

	ctx := c.Request.Context()
	gw := h.Gateway(c)

	var identity *models.Profile
	sess, err := gw.Auth().Session(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if sess != nil {
		var profile models.Profile
		err := gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", sess.UserID))
		switch {
		case err == nil:
			identity = &profile
		case errors.Is(err, gateway.ErrNoRows):
			// Строки профиля еще нет - решаем как для анонима
		default:
			h.HandleError(c, apperrors.ErrGateway(err, "auth"))
			return
		}
	}

	decision := roleroute.Decide(identity, target)
	c.JSON(http.StatusOK, gin.H{
		"allowed":     decision.Allowed,
		"redirect_to": decision.RedirectTo,
	})
}

// SignOut идемпотентен: повторный выход не ошибка
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.Gateway(c).Auth().SignOut(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Session возвращает проверенную сетью сессию текущего запроса
func (h *AuthHandler) Session(c *gin.Context) {
	ctx := c.Request.Context()
	gw := h.Gateway(c)

	sess, err := gw.Auth().Session(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"session": nil})
		return
	}

	var profile models.Profile
	if err := gw.Table("profiles").SelectOne(ctx, &profile, gateway.Eq("id", sess.UserID)); err != nil {
		h.HandleError(c, apperrors.ErrGateway(err, "auth"))
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess, &profile))
}
