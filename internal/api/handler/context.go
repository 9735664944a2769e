package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authfacil/auth-system/internal/core/domain"
	"github.com/authfacil/auth-system/internal/core/ports"
)

// callerSession turns the account id injected by the Auth middleware into a
// fresh per-request Session. The snapshot comes from the primary store, so a
// deactivated account fails here even when its token is still within TTL.
func callerSession(c echo.Context, svc ports.AccountService) (*domain.Session, error) {
	accountID, ok := c.Get("account_id").(int64)
	if !ok || accountID <= 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return svc.Resume(c.Request().Context(), accountID)
}
