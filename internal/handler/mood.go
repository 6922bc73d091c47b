package handler

import (
	"context"
	"net/http"

	"github.com/zhaolong57/mood-diary/internal/model"

	"github.com/gin-gonic/gin"
)

// MoodService is implemented by service.MoodService.
type MoodService interface {
	List(ctx context.Context, userID string) ([]model.MoodRecord, error)
	Upsert(ctx context.Context, userID, date, mood, note string) error
	Delete(ctx context.Context, userID, date string) error
}

type MoodHandler struct{ moods MoodService }

func NewMoodHandler(moods MoodService) *MoodHandler { return &MoodHandler{moods: moods} }

func (h *MoodHandler) List(c *gin.Context) {
	records, err := h.moods.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MoodListResponse{Moods: records})
}

func (h *MoodHandler) Upsert(c *gin.Context) {
	var req model.MoodUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.moods.Upsert(c.Request.Context(), c.GetString("user_id"), req.Date, req.Mood, req.Note); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}

func (h *MoodHandler) Delete(c *gin.Context) {
	if err := h.moods.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("date")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Success: true})
}
