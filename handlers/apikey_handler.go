// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dandi-server/display"
	"dandi-server/gate"
	"dandi-server/keystore"
	"dandi-server/models"
	"dandi-server/notify"

	"github.com/labstack/echo/v4"
)

var (
	Keys   *keystore.Store
	Screen *display.State
	Toasts *notify.Notifier
	Gate   *gate.Gate
)

// Init wires the handler package to the component instances built in main.
func Init(keys *keystore.Store, screen *display.State, toasts *notify.Notifier, g *gate.Gate) {
	Keys = keys
	Screen = screen
	Toasts = toasts
	Gate = g
}

func apiKeyDetails(key models.ApiKey) ApiKeyDetails {
	return ApiKeyDetails{
		ID:        key.ID,
		Name:      key.Name,
		Key:       key.Secret,
		MaskedKey: display.Mask(key.Secret),
		Revealed:  Screen.Revealed(key.ID),
		Usage:     key.Usage,
		CreatedAt: key.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListAPIKeysHandler godoc
// @Summary      List API keys
// @Description  Reloads and returns all API keys, newest first.
// @Tags         api-keys
// @Produce      json
// @Success      200 {object} ApiKeyListResponse "API keys retrieved successfully"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /v1/api-keys [get]
func ListAPIKeysHandler(c echo.Context) error {
	logger := c.Logger()

	if err := Keys.Load(c.Request().Context()); err != nil {
		logger.Errorf("Failed to fetch API keys: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to fetch API keys",
		}
	}

	keys := Keys.Keys()
	data := make([]ApiKeyDetails, 0, len(keys))
	for _, key := range keys {
		data = append(data, apiKeyDetails(key))
	}

	return c.JSON(http.StatusOK, ApiKeyListResponse{
		Data:    data,
		Message: "API keys retrieved successfully",
	})
}

// CreateAPIKeyHandler godoc
// @Summary      Create an API key
// @Description  Generates a new key with a dandi- prefixed secret and stores it.
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Param        createApiKeyRequest  body  CreateApiKeyRequest  true  "Create API key payload"
// @Success      201 {object} CreateApiKeyResponse "API Key created successfully"
// @Failure      400 {object} echo.HTTPError       "Bad request, missing required fields"
// @Failure      500 {object} echo.HTTPError       "Internal server error"
// @Router       /v1/api-keys [post]
func CreateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	var req CreateApiKeyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create API key payload:", err)
		return echo.ErrBadRequest
	}

	if req.Name == "" {
		logger.Error("Name is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "name field is required",
		}
	}

	key, err := Keys.Create(c.Request().Context(), req.Name)
	if err != nil {
		logger.Errorf("Failed to create API key: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create API Key",
		}
	}

	return c.JSON(http.StatusCreated, CreateApiKeyResponse{
		ApiKeyDetails: apiKeyDetails(key),
		Message:       "API Key created successfully",
	})
}

// UpdateAPIKeyHandler godoc
// @Summary      Rename an API key
// @Description  Changes the display name of one key. The secret is immutable.
// @Tags         api-keys
// @Accept       json
// @Produce      json
// @Param        id                   path  int                  true  "API key ID"
// @Param        updateApiKeyRequest  body  UpdateApiKeyRequest  true  "Rename payload"
// @Success      200 {object} MessageResponse "API Key updated successfully"
// @Failure      400 {object} echo.HTTPError  "Bad request"
// @Failure      404 {object} echo.HTTPError  "API key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/api-keys/{id} [put]
func UpdateAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	id, err := parseKeyID(c)
	if err != nil {
		return err
	}

	var req UpdateApiKeyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid update API key payload:", err)
		return echo.ErrBadRequest
	}
	if req.Name == "" {
		logger.Error("Name is required.")
		return &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "name field is required",
		}
	}

	if err := Keys.Rename(c.Request().Context(), id, req.Name); err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			logger.Error("API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "API key not found",
			}
		}
		logger.Errorf("Failed to update API key: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update API Key",
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "API Key updated successfully"})
}

// DeleteAPIKeyHandler godoc
// @Summary      Revoke an API key
// @Description  Removes one key from the store.
// @Tags         api-keys
// @Produce      json
// @Param        id  path  int  true  "API key ID"
// @Success      200 {object} MessageResponse "API Key deleted successfully"
// @Failure      404 {object} echo.HTTPError  "API key not found"
// @Failure      500 {object} echo.HTTPError  "Internal server error"
// @Router       /v1/api-keys/{id} [delete]
func DeleteAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	id, err := parseKeyID(c)
	if err != nil {
		return err
	}

	if err := Keys.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			logger.Error("API key not found.")
			return &echo.HTTPError{
				Code:    http.StatusNotFound,
				Message: "API key not found",
			}
		}
		logger.Errorf("Failed to delete API key: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to delete API Key",
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "API Key deleted successfully"})
}

// ToggleKeyVisibilityHandler godoc
// @Summary      Toggle key visibility
// @Description  Flips the reveal flag for one key and returns it rendered per the new state.
// @Tags         api-keys
// @Produce      json
// @Param        id  path  int  true  "API key ID"
// @Success      200 {object} ToggleRevealResponse "Visibility toggled"
// @Failure      404 {object} echo.HTTPError       "API key not found"
// @Router       /v1/api-keys/{id}/reveal [post]
func ToggleKeyVisibilityHandler(c echo.Context) error {
	id, err := parseKeyID(c)
	if err != nil {
		return err
	}

	key, ok := findKey(id)
	if !ok {
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "API key not found",
		}
	}

	revealed := Screen.ToggleReveal(id)
	rendered := display.Mask(key.Secret)
	if revealed {
		rendered = key.Secret
	}

	return c.JSON(http.StatusOK, ToggleRevealResponse{
		ID:       id,
		Revealed: revealed,
		Key:      rendered,
	})
}

// CopyAPIKeyHandler godoc
// @Summary      Copy an API key
// @Description  Writes the full secret to the clipboard collaborator and marks the key as just-copied.
// @Tags         api-keys
// @Produce      json
// @Param        id  path  int  true  "API key ID"
// @Success      200 {object} MessageResponse "Copied API Key to clipboard"
// @Failure      404 {object} echo.HTTPError  "API key not found"
// @Failure      500 {object} echo.HTTPError  "Failed to copy to clipboard"
// @Router       /v1/api-keys/{id}/copy [post]
func CopyAPIKeyHandler(c echo.Context) error {
	logger := c.Logger()

	id, err := parseKeyID(c)
	if err != nil {
		return err
	}

	key, ok := findKey(id)
	if !ok {
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "API key not found",
		}
	}

	if err := Screen.CopyToClipboard(key.Secret, id); err != nil {
		logger.Errorf("Failed to copy API key: %v", err)
		return &echo.HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Failed to copy to clipboard",
		}
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Copied API Key to clipboard"})
}

func parseKeyID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Logger().Error("Invalid API key ID:", err)
		return 0, &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "invalid API key ID",
		}
	}
	return uint(id), nil
}

func findKey(id uint) (models.ApiKey, bool) {
	for _, key := range Keys.Keys() {
		if key.ID == id {
			return key, true
		}
	}
	return models.ApiKey{}, false
}
