package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/services"
)

// CommentsHandler serves the comment board.
type CommentsHandler struct {
	comments *services.CommentService
	logger   logging.Logger
}

func NewCommentsHandler(comments *services.CommentService, logger logging.Logger) *CommentsHandler {
	return &CommentsHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	comment, err := h.comments.Create(c.Context(), UserID(c), req.Content)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return respondError(c, http.StatusBadRequest, "Comment content cannot be empty")
		}
		h.logger.Error(c.Context(), "comment creation failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusCreated, comment)
}

func (h *CommentsHandler) List(c *fiber.Ctx) error {
	list, err := h.comments.List(c.Context())
	if err != nil {
		h.logger.Error(c.Context(), "comment listing failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "Server error")
	}

	return respondJSON(c, http.StatusOK, list)
}

func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	comment, err := h.comments.Update(c.Context(), c.Params("id"), UserID(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return respondError(c, http.StatusNotFound, "Comment not found")
		case errors.Is(err, common.ErrForbidden):
			return respondError(c, http.StatusForbidden, "Unauthorized to update this comment")
		default:
			h.logger.Error(c.Context(), "comment update failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Server error")
		}
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	deletedID, err := h.comments.Delete(c.Context(), c.Params("id"), UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return respondError(c, http.StatusNotFound, "Comment not found")
		case errors.Is(err, common.ErrForbidden):
			return respondError(c, http.StatusForbidden, "Unauthorized to delete this comment")
		default:
			h.logger.Error(c.Context(), "comment deletion failed", "error", err)
			return respondError(c, http.StatusInternalServerError, "Server error")
		}
	}

	return respondJSON(c, http.StatusOK, fiber.Map{
		"message": "Comment deleted successfully",
		"id":      deletedID,
	})
}
