package service

import (
	"encoding/json"

	apperror "avara-relay/internal/error"
)

// ChatRequest represents the incoming chat request
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`

	// set by UnmarshalJSON when the field is present and not null
	hasUserID  bool
	hasMessage bool
}

// ChatResponse represents the relayed answer
type ChatResponse struct {
	Response string `json:"response"`
}

// ------------------------------------------------------------------------------------------------------
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserID  *string `json:"user_id"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = ChatRequest{}
	if raw.UserID != nil {
		r.UserID, r.hasUserID = *raw.UserID, true
	}
	if raw.Message != nil {
		r.Message, r.hasMessage = *raw.Message, true
	}
	return nil
}

// ------------------------------------------------------------------------------------------------------
// Validate checks presence only. An empty string sent explicitly is forwarded as is.
func (r *ChatRequest) Validate() error {
	if !r.hasUserID && r.UserID == "" {
		return apperror.NewValidationError("user_id is required", apperror.ErrMissingUserID)
	}
	if !r.hasMessage && r.Message == "" {
		return apperror.NewValidationError("message is required", apperror.ErrMissingMessage)
	}
	return nil
}
