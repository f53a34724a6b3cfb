package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	app "github.com/mohammadpnp/alumni-sync/internal/application/alumni"
)

type MemberHandler struct {
	useCase app.GetMember
}

func NewMemberHandler(useCase app.GetMember) *MemberHandler {
	return &MemberHandler{useCase: useCase}
}

func (h *MemberHandler) GetMember(c echo.Context) error {
	out, err := h.useCase.Execute(c.Request().Context(), app.GetMemberInput{
		MemberID: c.Param("memberId"),
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidMemberID) {
			return writeError(c, http.StatusBadRequest, "invalid_member_id", "memberId must be 1-64 letters, digits, '.', '_' or '-'")
		}
		if errors.Is(err, app.ErrMemberNotFound) {
			return writeError(c, http.StatusNotFound, "not_found", "member not found")
		}

		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("get member failed")
		return writeError(c, http.StatusInternalServerError, "internal_error", "failed to get member")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
