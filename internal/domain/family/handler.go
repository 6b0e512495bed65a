package family

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/thiagohfagundes/therapytrack/internal/platform/auth"
	"github.com/thiagohfagundes/therapytrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/children", h.ListChildren)
	api.POST("/children", h.CreateChild)
	api.GET("/children/:id", h.GetChild)
	api.PUT("/children/:id", h.UpdateChild)
	api.DELETE("/children/:id", h.DeleteChild)
}

func (h *Handler) CreateChild(c echo.Context) error {
	var ch Child
	if err := c.Bind(&ch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.CreateChild(c.Request().Context(), &ch, actor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, ch)
}

func (h *Handler) GetChild(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	ch, err := h.svc.GetChild(ctx, id, auth.ActorFromContext(ctx), auth.IsAdminFromContext(ctx))
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "child not found")
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) ListChildren(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.ListChildren(ctx, auth.ActorFromContext(ctx), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateChild(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ch Child
	if err := c.Bind(&ch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ch.ID = id
	ctx := c.Request().Context()
	if err := h.svc.UpdateChild(ctx, &ch, auth.ActorFromContext(ctx), auth.IsAdminFromContext(ctx)); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) DeleteChild(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.DeleteChild(ctx, id, auth.ActorFromContext(ctx), auth.IsAdminFromContext(ctx)); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
