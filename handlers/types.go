// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model CreateApiKeyRequest
type CreateApiKeyRequest struct {
	// Display name for the new key
	Name string `json:"name" example:"production"`
	// Monthly request limit. Accepted for compatibility with the dashboard
	// create dialog; it is not stored and nothing enforces it.
	MonthlyLimit *int64 `json:"monthly_limit,omitempty" example:"1000"`
}

// swagger:model ApiKeyDetails
type ApiKeyDetails struct {
	// Unique identifier of the key
	ID uint `json:"id" example:"1"`
	// Display name of the key
	Name string `json:"name" example:"production"`
	// Full secret value
	Key string `json:"key" example:"dandi-4f6c1a0e-8d3b-42f7-9c21-5a7e0b6d2f18"`
	// Secret with everything after the prefix masked
	MaskedKey string `json:"masked_key" example:"dandi-************************************"`
	// Whether the dashboard currently reveals this key
	Revealed bool `json:"revealed" example:"false"`
	// Usage counter (initialized to zero, never incremented)
	Usage int64 `json:"usage" example:"0"`
	// Creation timestamp, RFC 3339
	CreatedAt string `json:"created_at" example:"2023-10-01T12:00:00Z"`
}

// swagger:model ApiKeyListResponse
type ApiKeyListResponse struct {
	// Keys ordered newest first
	Data []ApiKeyDetails `json:"data"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"API keys retrieved successfully"`
}

// swagger:model CreateApiKeyResponse
type CreateApiKeyResponse struct {
	ApiKeyDetails
	// Message indicating successful creation
	Message string `json:"message" example:"API Key created successfully"`
}

// swagger:model UpdateApiKeyRequest
type UpdateApiKeyRequest struct {
	// New display name for the key
	Name string `json:"name" example:"staging"`
}

// swagger:model MessageResponse
type MessageResponse struct {
	// Human-readable outcome of the operation
	Message string `json:"message" example:"Operation successful"`
}

// swagger:model ToggleRevealResponse
type ToggleRevealResponse struct {
	// Identifier of the toggled key
	ID uint `json:"id" example:"1"`
	// New reveal state
	Revealed bool `json:"revealed" example:"true"`
	// Key rendered per the new state: full when revealed, masked otherwise
	Key string `json:"key" example:"dandi-************************************"`
}

// swagger:model ValidateRequest
type ValidateRequest struct {
	// Candidate API key to validate
	ApiKey string `json:"apiKey" example:"dandi-1234567890"`
}

// swagger:model ValidateResponse
type ValidateResponse struct {
	// Whether the candidate passed validation
	IsValid bool `json:"isValid" example:"true"`
	// Human-readable validation outcome
	Message string `json:"message" example:"Valid API key, /protected can be accessed"`
}

// swagger:model PlaygroundRequest
type PlaygroundRequest struct {
	// Candidate API key for the playground
	ApiKey string `json:"api_key" example:"dandi-1234567890"`
}

// swagger:model PlaygroundResponse
type PlaygroundResponse struct {
	// Whether the candidate was accepted
	Accepted bool `json:"accepted" example:"true"`
	// Human-readable outcome
	Message string `json:"message" example:"Valid API key, /protected can be accessed"`
	// Session token to present on the protected view, only when accepted
	SessionToken string `json:"session_token,omitempty"`
	// Path the client should navigate to, only when accepted
	Redirect string `json:"redirect,omitempty" example:"/v1/protected"`
	// How long the client should wait before navigating, in milliseconds
	DelayMs int64 `json:"delay_ms,omitempty" example:"1500"`
}

// swagger:model ProtectedResponse
type ProtectedResponse struct {
	// Welcome message for the unlocked view
	Message string `json:"message" example:"Welcome to the protected playground"`
	// The validated API key carried by the session token
	ApiKey string `json:"api_key" example:"dandi-1234567890"`
	// Masked rendering of the same key
	MaskedKey string `json:"masked_key" example:"dandi-**********"`
}

// swagger:model RedirectResponse
type RedirectResponse struct {
	// Why the caller is being sent away
	Message string `json:"message" example:"No playground session, please submit your API key"`
	// Path the client should navigate to
	Redirect string `json:"redirect" example:"/v1/playground"`
}

// swagger:model NotificationResponse
type NotificationResponse struct {
	// Whether a toast is currently visible
	Visible bool `json:"visible" example:"true"`
	// Toast text
	Message string `json:"message,omitempty" example:"API Key created successfully"`
	// Toast severity: success, error, info or warning
	Severity string `json:"severity,omitempty" example:"success"`
	// Set when dismissing the toast should also navigate the client
	Redirect string `json:"redirect,omitempty" example:"/v1/playground"`
}
