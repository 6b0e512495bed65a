package routine

import (
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
	api.GET("/routines", h.ListRoutines)
	api.POST("/routines", h.CreateRoutine)
	api.GET("/routines/:id", h.GetRoutine)
	api.PUT("/routines/:id", h.UpdateRoutine)
	api.DELETE("/routines/:id", h.DeleteRoutine)
	api.GET("/routines/:id/items", h.ListItems)
	api.POST("/routines/:id/items", h.BulkCreateItems)

	api.POST("/items", h.CreateItem)
	api.GET("/items/:id", h.GetItem)
	api.PUT("/items/:id", h.UpdateItem)
	api.DELETE("/items/:id", h.DeleteItem)
	api.POST("/items/:id/expand", h.ExpandItem)
	api.POST("/items/:id/resync", h.ResyncItem)
}

// -- Routine Handlers --

func (h *Handler) CreateRoutine(c echo.Context) error {
	var rt Routine
	if err := c.Bind(&rt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.CreateRoutine(c.Request().Context(), &rt, actor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rt)
}

func (h *Handler) GetRoutine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rt, err := h.svc.GetRoutine(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "routine not found")
	}
	return c.JSON(http.StatusOK, rt)
}

func (h *Handler) ListRoutines(c echo.Context) error {
	childID, err := uuid.Parse(c.QueryParam("child_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "child_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRoutinesByChild(c.Request().Context(), childID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateRoutine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.GetRoutine(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "routine not found")
	}
	rt := *existing
	if err := c.Bind(&rt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rt.ID = id
	rt.ChildID = existing.ChildID
	if err := h.svc.UpdateRoutine(c.Request().Context(), &rt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rt)
}

func (h *Handler) DeleteRoutine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteRoutine(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Item Handlers --

func (h *Handler) ListItems(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListItems(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

type bulkCreateResponse struct {
	Created             []*Item `json:"created"`
	SkippedWeekdays     []int16 `json:"skipped_weekdays"`
	AppointmentsCreated int     `json:"appointments_created"`
}

// BulkCreateItems creates one item per selected weekday, then expands
// each new item so the agenda fills in immediately.
func (h *Handler) BulkCreateItems(c echo.Context) error {
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var params BulkItemParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	actor := auth.ActorFromContext(ctx)

	created, skipped, err := h.svc.BulkCreateItems(ctx, routineID, params, actor)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp := bulkCreateResponse{Created: created, SkippedWeekdays: skipped}
	if resp.SkippedWeekdays == nil {
		resp.SkippedWeekdays = []int16{}
	}
	if resp.Created == nil {
		resp.Created = []*Item{}
	}
	for _, it := range created {
		res, err := h.svc.Expand(ctx, it, ExpandOptions{})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		resp.AppointmentsCreated += res.Created
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) CreateItem(c echo.Context) error {
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	actor := auth.ActorFromContext(ctx)
	if err := h.svc.CreateItem(ctx, &it, actor); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := h.svc.Expand(ctx, &it, ExpandOptions{}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) GetItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	it, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	it := *existing
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it.ID = id
	it.RoutineID = existing.RoutineID
	res, err := h.svc.UpdateItem(c.Request().Context(), &it)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"item": it, "resync": res})
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type expandRequest struct {
	HorizonDays             int   `json:"horizon_days"`
	Retroactive             bool  `json:"retroactive"`
	AllowDuplicateExpansion bool  `json:"allow_duplicate_expansion"`
	KeepPast                *bool `json:"keep_past"`
}

func (h *Handler) ExpandItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req expandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	res, err := h.svc.Expand(c.Request().Context(), it, ExpandOptions{
		HorizonDays:             req.HorizonDays,
		Retroactive:             req.Retroactive,
		AllowDuplicateExpansion: req.AllowDuplicateExpansion,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ResyncItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req expandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	keepPast := true
	if req.KeepPast != nil {
		keepPast = *req.KeepPast
	}
	it, err := h.svc.GetItem(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	res, err := h.svc.Resync(c.Request().Context(), it, keepPast, ExpandOptions{
		HorizonDays: req.HorizonDays,
		Retroactive: req.Retroactive,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
