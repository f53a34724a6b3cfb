package echo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

// ExternalDataHandler exposes the reconciliation pipeline. results may be
// nil when no result store is configured.
type ExternalDataHandler struct {
	importer app.AlumniImporter
	results  domain.ImportResultReader
}

type bulkImportResponse struct {
	Result  domain.ImportResult  `json:"result"`
	Summary domain.ImportSummary `json:"summary"`
}

type syncResponse struct {
	MemberID string `json:"memberID"`
	Synced   bool   `json:"synced"`
}

func NewExternalDataHandler(importer app.AlumniImporter, results domain.ImportResultReader) *ExternalDataHandler {
	return &ExternalDataHandler{importer: importer, results: results}
}

func (h *ExternalDataHandler) BulkImport(c echo.Context) error {
	var req domain.ImportRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	result, err := h.importer.Run(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrInvalidImportRequest) {
			return writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("bulk import failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "bulk import failed")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: bulkImportResponse{
		Result:  result,
		Summary: result.Summary(),
	}})
}

func (h *ExternalDataHandler) Validate(c echo.Context) error {
	var req domain.ImportRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	outcome := h.importer.ValidateOnly(c.Request().Context(), req.Alumni, strings.TrimSpace(req.ExternalSystemID))
	return c.JSON(http.StatusOK, apiResponse{Data: outcome})
}

func (h *ExternalDataHandler) SyncSingle(c echo.Context) error {
	systemID, ok := externalSystemID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "invalid_request", "externalSystemId query parameter is required")
	}

	var record domain.ExternalAlumniRecord
	if err := c.Bind(&record); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	synced := h.importer.SyncOne(c.Request().Context(), record, systemID)
	return c.JSON(http.StatusOK, apiResponse{Data: syncResponse{MemberID: record.ReportingID(), Synced: synced}})
}

func (h *ExternalDataHandler) UpdateMember(c echo.Context) error {
	systemID, ok := externalSystemID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "invalid_request", "externalSystemId query parameter is required")
	}

	memberID := strings.TrimSpace(c.Param("memberId"))
	if memberID == "" {
		return writeError(c, http.StatusBadRequest, "invalid_member_id", "memberId is required")
	}

	var record domain.ExternalAlumniRecord
	if err := c.Bind(&record); err != nil {
		return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}

	synced := h.importer.UpdateSingleRecord(c.Request().Context(), memberID, record, systemID)
	return c.JSON(http.StatusOK, apiResponse{Data: syncResponse{MemberID: memberID, Synced: synced}})
}

func (h *ExternalDataHandler) GetResult(c echo.Context) error {
	if h.results == nil {
		return writeError(c, http.StatusServiceUnavailable, "results_unavailable", "import result store is not configured")
	}

	result, err := h.results.Get(c.Request().Context(), c.Param("batchId"))
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return writeError(c, http.StatusNotFound, "not_found", "import result not found")
		}
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("get import result failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to get import result")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: bulkImportResponse{
		Result:  result,
		Summary: result.Summary(),
	}})
}

func (h *ExternalDataHandler) Statistics(c echo.Context) error {
	if h.results == nil {
		return writeError(c, http.StatusServiceUnavailable, "results_unavailable", "import result store is not configured")
	}

	stats, err := h.results.Statistics(c.Request().Context(), c.QueryParam("externalSystemId"))
	if err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("get import statistics failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to get import statistics")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: stats})
}

func externalSystemID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.QueryParam("externalSystemId"))
	return id, id != ""
}
