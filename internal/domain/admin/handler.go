package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the admin surface. The caller applies the admin
// auth middleware to the group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/admin/import/:type", h.Import)
	g.POST("/admin/seed", h.Seed)
}

func (h *Handler) Import(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to read request body")
	}

	result, err := h.svc.Import(c.Request().Context(), c.Param("type"), raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownType), errors.Is(err, ErrInvalidPayload):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrMissingDependency):
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
				"dependency missing: import in order %s before retrying (%v)",
				strings.Join(ImportTypes, " -> "), err))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("import failed: %v", err))
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Seed(c echo.Context) error {
	var cfg SeedConfig
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seed config")
	}

	result, err := h.svc.Seed(c.Request().Context(), cfg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
