package controllers

import (
	"errors"
	"net/http"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/resp"
	"orderdesk/services"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	api
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService, l *i18n.Localizer, log *logger.Logger) *AuthController {
	return &AuthController{api: api{L: l, Log: log}, Auth: auth}
}

func staffOut(st *entity.Staff) gin.H {
	return gin.H{"id": st.ID, "email": st.Email, "name": st.Name, "role": st.Role}
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.invalid(c, "", i18n.MsgInvalidPayload)
		return
	}

	token, st, err := a.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		resp.Unauthorized(c, a.L.T(i18n.MsgInvalidCredential))
		return
	}
	if err != nil {
		a.fail(c, "auth_login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"token": token,
		"staff": staffOut(st),
	})
}

// GET /auth/me (login required)
func (a *AuthController) Me(c *gin.Context) {
	st, err := a.Auth.Me(c.Request.Context(), utils.CurrentStaffID(c))
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			resp.Unauthorized(c, a.L.T(i18n.MsgUnauthorized))
			return
		}
		a.fail(c, "auth_me", err)
		return
	}
	resp.OK(c, staffOut(st))
}
