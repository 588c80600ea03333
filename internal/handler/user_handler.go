package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Hummylol/oneonone/internal/services"
	"github.com/Hummylol/oneonone/internal/transport/httpdto"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Get returns a user profile with connectivity hints.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, oneonone_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("user not found", "NOT_FOUND"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("lookup failed", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(profile))
}

// Search finds users by username fragment, excluding the caller.
func (h *UserHandler) Search(c *gin.Context) {
	requester, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	users, err := h.service.Search(c.Request.Context(), c.Param("username"), requester)
	if err != nil {
		if errors.Is(err, oneonone_errors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("empty search term", "INVALID_REQUEST"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("search failed", "INTERNAL_ERROR"))
		return
	}

	results := make([]gin.H, 0, len(users))
	for _, u := range users {
		results = append(results, gin.H{"id": u.ID, "username": u.Username})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(results))
}

// ChatPartners returns the distinct users the caller has chatted with.
func (h *UserHandler) ChatPartners(c *gin.Context) {
	requester, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}
	if userID != requester {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	partners, err := h.service.ChatPartners(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("lookup failed", "INTERNAL_ERROR"))
		return
	}

	results := make([]gin.H, 0, len(partners))
	for _, u := range partners {
		results = append(results, gin.H{"id": u.ID, "username": u.Username})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(results))
}
