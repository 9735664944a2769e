package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authfacil/auth-system/internal/core/domain"
	"github.com/authfacil/auth-system/internal/core/ports"
)

// AccountHandler serves the authenticated profile operations. Every method
// rebuilds the caller's session from the bearer token before delegating.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Profile returns the caller's account snapshot.
//
// @Summary      View own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *AccountHandler) Profile(c echo.Context) error {
	sess, err := callerSession(c, h.accounts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(sess.Account()))
}

// EditUsername changes the caller's username. An empty value is accepted and
// changes nothing.
//
// @Summary      Edit username
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      editFieldRequest  true  "New username"
// @Success      200   {object}  accountResponse
// @Failure      409   {object}  map[string]string
// @Router       /profile/username [put]
func (h *AccountHandler) EditUsername(c echo.Context) error {
	return h.edit(c, h.accounts.EditUsername)
}

// EditEmail changes the caller's email.
//
// @Summary      Edit email
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      editFieldRequest  true  "New email"
// @Success      200   {object}  accountResponse
// @Router       /profile/email [put]
func (h *AccountHandler) EditEmail(c echo.Context) error {
	return h.edit(c, h.accounts.EditEmail)
}

// EditPassword changes the caller's password. The new credential is hashed in
// the service; nothing password-related is mirrored.
//
// @Summary      Edit password
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      editFieldRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Router       /profile/password [put]
func (h *AccountHandler) EditPassword(c echo.Context) error {
	sess, req, err := h.editInput(c)
	if err != nil {
		return err
	}
	if err := h.accounts.EditPassword(c.Request().Context(), sess, req.Value); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Delete soft-deletes the caller's account. The confirm flag is the caller's
// explicit decision; without it the request is rejected and nothing changes.
//
// @Summary      Delete own account
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      deleteAccountRequest  true  "Confirmation flag"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /profile [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	sess, err := callerSession(c, h.accounts)
	if err != nil {
		return err
	}

	var req deleteAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), sess, req.Confirm); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// Logout records the logout action. The bearer token is not revoked; the
// session it would resume simply ends here.
//
// @Summary      Logout
// @Tags         profile
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	sess, err := callerSession(c, h.accounts)
	if err != nil {
		return err
	}
	if err := h.accounts.Logout(c.Request().Context(), sess); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AccountHandler) editInput(c echo.Context) (*domain.Session, *editFieldRequest, error) {
	sess, err := callerSession(c, h.accounts)
	if err != nil {
		return nil, nil, err
	}
	var req editFieldRequest
	if err := c.Bind(&req); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return sess, &req, nil
}

func (h *AccountHandler) edit(c echo.Context, apply func(ctx context.Context, sess *domain.Session, value string) error) error {
	sess, req, err := h.editInput(c)
	if err != nil {
		return err
	}
	if err := apply(c.Request().Context(), sess, req.Value); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(sess.Account()))
}
