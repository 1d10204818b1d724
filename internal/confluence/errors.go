package confluence

import "fmt"

// NotFoundError means the page id is unknown to Confluence.
type NotFoundError struct {
	PageID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("confluence page %s not found", e.PageID)
}

// ConflictError means the page moved past Version before our write landed.
type ConflictError struct {
	PageID  string
	Version int
	Detail  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("confluence page %s changed after version %d: %s", e.PageID, e.Version, e.Detail)
}

// APIError is any other non-2xx answer.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("confluence %s %s failed (%d): %s", e.Method, e.Path, e.StatusCode, e.Body)
}
