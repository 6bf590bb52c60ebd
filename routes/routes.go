// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"dandi-server/commons"
	"dandi-server/handlers"
	"dandi-server/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	commons.Logger.Debug("Registering routes")
	e.POST("/validate", handlers.ValidateAPIKeyHandler)

	api_v1 := e.Group("/v1")
	api_v1.GET("/api-keys", handlers.ListAPIKeysHandler)
	api_v1.POST("/api-keys", handlers.CreateAPIKeyHandler)
	api_v1.PUT("/api-keys/:id", handlers.UpdateAPIKeyHandler)
	api_v1.DELETE("/api-keys/:id", handlers.DeleteAPIKeyHandler)
	api_v1.POST("/api-keys/:id/reveal", handlers.ToggleKeyVisibilityHandler)
	api_v1.POST("/api-keys/:id/copy", handlers.CopyAPIKeyHandler)
	api_v1.POST("/playground", handlers.PlaygroundSubmitHandler)
	api_v1.GET("/protected", handlers.ProtectedHandler, middlewares.VerifyPlaygroundMiddleware(handlers.Gate))
	api_v1.GET("/notification", handlers.GetNotificationHandler)
	api_v1.DELETE("/notification", handlers.DismissNotificationHandler)
	commons.Logger.Info("Routes registered successfully")
}
