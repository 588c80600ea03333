package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hummylol/oneonone/internal/services"
	"github.com/Hummylol/oneonone/internal/transport/httpdto"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req httpdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	u, err := h.service.Signup(c.Request.Context(), services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, oneonone_errors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid signup details", "INVALID_REQUEST"))
		case errors.Is(err, oneonone_errors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, httpdto.NewErrorResponse("username or email taken", "CONFLICT"))
		default:
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("signup failed", "INTERNAL_ERROR"))
		}
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{
		"userId":   u.ID,
		"username": u.Username,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, oneonone_errors.ErrNotFound):
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("user not found", "NOT_FOUND"))
		case errors.Is(err, oneonone_errors.ErrInvalidPassword), errors.Is(err, oneonone_errors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid credentials", "INVALID_CREDENTIALS"))
		default:
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("login failed", "INTERNAL_ERROR"))
		}
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(resp))
}

// Status reports liveness for clients probing the backend before connecting.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "online"}))
}
