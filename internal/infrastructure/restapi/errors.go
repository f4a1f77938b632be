package restapi

import (
	"encoding/json"
	"strings"

	"github.com/digitalgoods/storefront/internal/core/domain"
)

// errorBody is the error envelope emitted by the API. message is either a
// string or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// decodeError normalizes a failed response into an APIError. A body that is
// not JSON yields the generic message with the original status.
func decodeError(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{StatusCode: status, Message: domain.DefaultErrorMessage}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return apiErr
	}
	if msg := messageText(eb.Message); msg != "" {
		apiErr.Message = msg
	} else if eb.Error != "" {
		apiErr.Message = eb.Error
	}
	return apiErr
}

func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}
