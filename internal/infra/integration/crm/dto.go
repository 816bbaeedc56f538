package crm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/plouf-crm/internal/entity"
)

// ContactsQuery is the query string of GET /crm/contacts. Empty optional
// values are left out of the URL.
type ContactsQuery struct {
	Page       int    `url:"page"`
	Limit      int    `url:"limit"`
	SortBy     string `url:"sort_by"`
	SortOrder  string `url:"sort_order"`
	Search     string `url:"search,omitempty"`
	Origin     string `url:"origin,omitempty"`
	Commercial string `url:"commercial,omitempty"`
}

// ContactsPage is one page of contacts.
type ContactsPage struct {
	Contacts   []entity.Contact `json:"contacts"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type messageResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
}

// APIError is a non-OK backend answer that carried (or not) an explanation.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("crm backend answered %d", e.StatusCode)
	}
	return fmt.Sprintf("crm backend answered %d: %s", e.StatusCode, e.Detail)
}

// extractDetail reads {detail} or {message} from an error body. FastAPI
// validation errors carry detail as a list of {msg}.
func extractDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 && string(payload.Detail) != "null" {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return payload.Message
}
