package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// ProblemDetails is an RFC 7807 problem document. trace_id, error_code and
// details are extension members present on most responses; panic and stack
// appear only when the handler was built with includeStack.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	TraceID   string      `json:"trace_id,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Details   interface{} `json:"details,omitempty"`

	Panic string `json:"panic,omitempty"`
	Stack string `json:"stack,omitempty"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// newProblem builds a problem for r. An empty title falls back to the
// status text.
func newProblem(r *http.Request, status int, problemType, title, detail string) *ProblemDetails {
	if title == "" {
		title = http.StatusText(status)
	}
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
		TraceID:  requestTraceID(r),
	}
}
