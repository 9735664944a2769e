package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/authfacil/auth-system/internal/core/ports"
)

// AuditHandler serves the admin "recent activity" view.
type AuditHandler struct {
	accounts ports.AccountService
}

func NewAuditHandler(accounts ports.AccountService) *AuditHandler {
	return &AuditHandler{accounts: accounts}
}

// Recent returns the newest audit entries. Admin role only; the service
// re-checks the role even though the router also gates the route.
//
// @Summary      Recent audit entries
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries to return"
// @Success      200    {array}   auditEntryResponse
// @Failure      403    {object}  map[string]string
// @Router       /admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	sess, err := callerSession(c, h.accounts)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	entries, err := h.accounts.RecentAuditEntries(c.Request().Context(), sess, limit)
	if err != nil {
		return err
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			UserID:    e.UserID,
			Username:  e.Username,
			Action:    string(e.Action),
			Timestamp: e.Timestamp,
			SourceIP:  e.SourceIP,
		})
	}
	return c.JSON(http.StatusOK, out)
}
