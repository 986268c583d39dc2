package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rawaz/digital-menu/internal/model"
	"github.com/rawaz/digital-menu/internal/queue"
	"github.com/rawaz/digital-menu/internal/repository"
	"github.com/rawaz/digital-menu/internal/service"
)

// FeedbackHandler accepts customer feedback from the public menu.
type FeedbackHandler struct {
	Feedback     *repository.FeedbackRepo
	RestaurantID string
}

func NewFeedbackHandler(feedback *repository.FeedbackRepo, restaurantID string) *FeedbackHandler {
	return &FeedbackHandler{Feedback: feedback, RestaurantID: restaurantID}
}

type feedbackReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// Submit handles POST /v1/feedback. The row is committed first; the event
// publish afterwards is fire-and-forget so a broker outage never loses the
// customer's feedback or fails their request.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and message required"})
	}
	if req.Rating < 0 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &model.Feedback{
		RestaurantID: h.RestaurantID,
		Name:         req.Name,
		Phone:        strings.TrimSpace(req.Phone),
		Message:      req.Message,
		Rating:       req.Rating,
	}
	if err := h.Feedback.Create(ctx, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	_ = service.PublishFeedbackReceived(ctx, queue.FeedbackReceivedEvent{
		FeedbackID:   f.ID,
		RestaurantID: f.RestaurantID,
		Name:         f.Name,
		Rating:       f.Rating,
		Message:      f.Message,
		SubmittedAt:  f.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"id": f.ID})
}
