package program

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/physio/rehab/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/programs/generate", h.GenerateProgram)
	api.POST("/patients/:id/programs", h.SaveProgram)
	api.GET("/patients/:id/programs", h.ListPrograms)
	api.GET("/patients/:id/programs/latest", h.GetLatestProgram)
	api.GET("/programs/:id", h.GetProgram)
}

type generateRequest struct {
	StartDate string `json:"start_date"`
}

type saveRequest struct {
	StartDate string            `json:"start_date"`
	Notes     string            `json:"notes"`
	Program   *GeneratedProgram `json:"program"`
}

func (h *Handler) GenerateProgram(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gp, err := h.svc.Generate(c.Request().Context(), c.Param("id"), req.StartDate)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, gp)
}

func (h *Handler) SaveProgram(c echo.Context) error {
	var req saveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Save(c.Request().Context(), c.Param("id"), req.StartDate, req.Notes, req.Program)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProgram(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProgram(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "program not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPrograms(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), pid, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetLatestProgram(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.LatestByPatient(c.Request().Context(), pid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "no programs for patient")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

// httpError maps service errors onto HTTP statuses. Validation problems are
// the caller's fault, a missing patient is 404, a failed patient lookup is a
// bad gateway, and storage failures stay 500 regardless of compensation.
func httpError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	var ue *UpstreamFetchError
	if errors.As(err, &ue) {
		if ue.NotFound {
			return echo.NewHTTPError(http.StatusNotFound, ue.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, ue.Error())
	}
	if errors.Is(err, ErrDuplicateProgram) {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	var se *StorageError
	if errors.As(err, &se) {
		return echo.NewHTTPError(http.StatusInternalServerError, se.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
