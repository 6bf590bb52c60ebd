// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"dandi-server/commons"
	"dandi-server/db"
	"dandi-server/gate"
	"dandi-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ValidateAPIKeyHandler godoc
// @Summary      Validate an API key
// @Description  Shape-checks a candidate key. With VALIDATE_AGAINST_STORE=true it is additionally looked up among issued keys.
// @Tags         validate
// @Accept       json
// @Produce      json
// @Param        validateRequest  body  ValidateRequest  true  "Validation payload"
// @Success      200 {object} ValidateResponse "Validation outcome"
// @Failure      400 {object} ValidateResponse "No API key provided"
// @Failure      500 {object} ValidateResponse "Server error validating API key"
// @Router       /validate [post]
func ValidateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	var req ValidateRequest
	if err := c.Bind(&req); err != nil || req.ApiKey == "" {
		logger.Error("No API key in validation request.")
		return c.JSON(http.StatusBadRequest, ValidateResponse{
			IsValid: false,
			Message: "No API key provided",
		})
	}

	if !gate.Validate(req.ApiKey) {
		return c.JSON(http.StatusOK, ValidateResponse{
			IsValid: false,
			Message: "Invalid API key",
		})
	}

	if strings.EqualFold(commons.GetEnv("VALIDATE_AGAINST_STORE"), "true") {
		key := models.ApiKey{}
		err := db.Conn.WithContext(c.Request().Context()).
			Where("secret = ?", req.ApiKey).
			First(&key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("API key not found in store.")
			return c.JSON(http.StatusOK, ValidateResponse{
				IsValid: false,
				Message: "Invalid API key",
			})
		}
		if err != nil {
			logger.Errorf("Failed to look up API key: %v", err)
			return c.JSON(http.StatusInternalServerError, ValidateResponse{
				IsValid: false,
				Message: "Server error validating API key",
			})
		}
	}

	return c.JSON(http.StatusOK, ValidateResponse{
		IsValid: true,
		Message: "Valid API key, /protected can be accessed",
	})
}
