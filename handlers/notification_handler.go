// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"dandi-server/gate"

	"github.com/labstack/echo/v4"
)

// GetNotificationHandler godoc
// @Summary      Current notification
// @Description  Returns the single toast slot, if one is visible.
// @Tags         notifications
// @Produce      json
// @Success      200 {object} NotificationResponse "Current toast state"
// @Router       /v1/notification [get]
func GetNotificationHandler(c echo.Context) error {
	state := Toasts.Current()
	return c.JSON(http.StatusOK, NotificationResponse{
		Visible:  state.Visible,
		Message:  state.Message,
		Severity: string(state.Severity),
	})
}

// DismissNotificationHandler godoc
// @Summary      Dismiss the notification
// @Description  Clears the toast slot. When the last gate outcome was a rejection, the response also instructs the client to navigate back to the submission view.
// @Tags         notifications
// @Produce      json
// @Success      200 {object} NotificationResponse "Toast dismissed"
// @Router       /v1/notification [delete]
func DismissNotificationHandler(c echo.Context) error {
	rejected := Gate.Phase() == gate.PhaseRejected
	Gate.DismissNotification()

	resp := NotificationResponse{Visible: false}
	if rejected {
		resp.Redirect = gate.SubmitPath
	}
	return c.JSON(http.StatusOK, resp)
}
