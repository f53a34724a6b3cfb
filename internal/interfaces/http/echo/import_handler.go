package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

// ImportHandler serves queued file imports.
type ImportHandler struct {
	start app.StartImportFromFile
	get   app.GetImportJob
}

type startImportRequest struct {
	SourcePath       string                `json:"source_path"`
	ExternalSystemID string                `json:"external_system_id"`
	Options          *domain.ImportOptions `json:"options"`
}

func NewImportHandler(start app.StartImportFromFile, get app.GetImportJob) *ImportHandler {
	return &ImportHandler{start: start, get: get}
}

func (h *ImportHandler) StartImport(c echo.Context) error {
	var req startImportRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	options := domain.DefaultImportOptions()
	options.BatchSize = 0
	if req.Options != nil {
		options = *req.Options
	}

	out, err := h.start.Execute(c.Request().Context(), app.StartImportFromFileInput{
		SourcePath:       req.SourcePath,
		ExternalSystemID: req.ExternalSystemID,
		Options:          options,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImportSource):
			return writeError(c, http.StatusBadRequest, "invalid_source", "source_path must be a .json file")
		case errors.Is(err, app.ErrInvalidImportRequest):
			return writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("enqueue import job failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to enqueue import job")
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) GetImportJob(c echo.Context) error {
	out, err := h.get.Execute(c.Request().Context(), app.GetImportJobInput{
		JobID: c.Param("jobId"),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImportJobID):
			return writeError(c, http.StatusBadRequest, "invalid_job_id", "jobId must be a valid UUID")
		case errors.Is(err, app.ErrImportJobNotFound):
			return writeError(c, http.StatusNotFound, "not_found", "import job not found")
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("get import job failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to get import job")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
