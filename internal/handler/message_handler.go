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

// MessageHandler exposes the REST surface over the same ChatService the live
// channel uses, so deletes and reactions pass through one authorization and
// fan-out path regardless of entry point.
type MessageHandler struct {
	service *services.ChatService
}

func NewMessageHandler(service *services.ChatService) *MessageHandler {
	return &MessageHandler{service: service}
}

// History returns every message between the caller and a contact, oldest
// first.
func (h *MessageHandler) History(c *gin.Context) {
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
	contactID, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid contact id", "INVALID_REQUEST"))
		return
	}
	if userID != requester {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	messages, err := h.service.History(c.Request.Context(), userID, contactID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("history lookup failed", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(messages))
}

// Get returns a single message by id.
func (h *MessageHandler) Get(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	m, err := h.service.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		if errors.Is(err, oneonone_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("message not found", "NOT_FOUND"))
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("lookup failed", "INTERNAL_ERROR"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(m))
}

// Delete removes a message; only its sender may do so.
func (h *MessageHandler) Delete(c *gin.Context) {
	requester, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), messageID, requester); err != nil {
		switch {
		case errors.Is(err, oneonone_errors.ErrNotFound):
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("message not found", "NOT_FOUND"))
		case errors.Is(err, oneonone_errors.ErrForbidden):
			c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("not authorized to delete this message", "FORBIDDEN"))
		default:
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("delete failed", "INTERNAL_ERROR"))
		}
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"deleted": messageID}))
}

// AddReaction sets the caller's reaction on a message.
func (h *MessageHandler) AddReaction(c *gin.Context) {
	requester, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.service.AddReaction(c.Request.Context(), messageID, requester, req.Emoji); err != nil {
		h.writeReactionError(c, err)
		return
	}

	h.writeReactionList(c, messageID)
}

// RemoveReaction drops the caller's reaction from a message.
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	requester, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	if err := h.service.RemoveReaction(c.Request.Context(), messageID, requester); err != nil {
		h.writeReactionError(c, err)
		return
	}

	h.writeReactionList(c, messageID)
}

func (h *MessageHandler) writeReactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, oneonone_errors.ErrNotFound):
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("message not found", "NOT_FOUND"))
	case errors.Is(err, oneonone_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid reaction", "INVALID_REQUEST"))
	default:
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("reaction update failed", "INTERNAL_ERROR"))
	}
}

func (h *MessageHandler) writeReactionList(c *gin.Context, messageID uuid.UUID) {
	m, err := h.service.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("lookup failed", "INTERNAL_ERROR"))
		return
	}

	reactions := make([]httpdto.ReactionResponse, 0, len(m.Reactions))
	for _, r := range m.Reactions {
		reactions = append(reactions, httpdto.ReactionResponse{UserID: r.UserID.String(), Emoji: r.Emoji})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messageId": messageID, "reactions": reactions}))
}
