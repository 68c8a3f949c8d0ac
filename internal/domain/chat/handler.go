package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type askRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit"`
}

type Handler struct {
	agent *Agent
}

func NewHandler(agent *Agent) *Handler {
	return &Handler{agent: agent}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/chat/ask", h.Ask)
}

func (h *Handler) Ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	answer, err := h.agent.Ask(c.Request().Context(), req.Question, req.Limit)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Reason)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, answer)
}
