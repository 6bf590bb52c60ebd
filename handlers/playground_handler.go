// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"dandi-server/display"
	"dandi-server/gate"

	"github.com/labstack/echo/v4"
)

// PlaygroundSubmitHandler godoc
// @Summary      Submit a key to the playground
// @Description  Runs the validation gate on a candidate key. Acceptance returns a session token and the protected path to navigate to after the redirect delay.
// @Tags         playground
// @Accept       json
// @Produce      json
// @Param        playgroundRequest  body  PlaygroundRequest  true  "Playground submission payload"
// @Success      200 {object} PlaygroundResponse "Submission outcome"
// @Failure      400 {object} echo.HTTPError     "Bad request, missing api_key"
// @Router       /v1/playground [post]
func PlaygroundSubmitHandler(c echo.Context) error {
	logger := c.Logger()

	var req PlaygroundRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid playground payload:", err)
		return echo.ErrBadRequest
	}
	if req.ApiKey == "" {
		logger.Error("API key is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "api_key field is required",
		}
	}

	outcome := Gate.Submit(req.ApiKey)
	if !outcome.Accepted {
		return c.JSON(http.StatusOK, PlaygroundResponse{
			Accepted: false,
			Message:  outcome.Reason,
		})
	}

	return c.JSON(http.StatusOK, PlaygroundResponse{
		Accepted:     true,
		Message:      outcome.Reason,
		SessionToken: outcome.SessionToken,
		Redirect:     gate.ProtectedPath,
		DelayMs:      Gate.Delay().Milliseconds(),
	})
}

// ProtectedHandler godoc
// @Summary      Protected playground view
// @Description  Unlocked only for callers whose session token verifies and whose embedded key still passes validation.
// @Tags         playground
// @Produce      json
// @Param        Authorization  header  string  true  "Bearer {session_token} from the playground submission"
// @Success      200 {object} ProtectedResponse "Protected view unlocked"
// @Failure      401 {object} RedirectResponse  "No playground session, redirect to submission"
// @Router       /v1/protected [get]
func ProtectedHandler(c echo.Context) error {
	key, ok := c.Get("playground_key").(string)
	if !ok || key == "" {
		// middleware admits requests only after setting the key; treat a
		// missing value as no session
		return c.JSON(http.StatusUnauthorized, RedirectResponse{
			Message:  "No playground session, please submit your API key",
			Redirect: gate.SubmitPath,
		})
	}

	return c.JSON(http.StatusOK, ProtectedResponse{
		Message:   "Welcome to the protected playground",
		ApiKey:    key,
		MaskedKey: display.Mask(key),
	})
}
