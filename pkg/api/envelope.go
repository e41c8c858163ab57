package api

import "github.com/dd0wney/cluso-globe/pkg/markers"

// timestampLayout matches ECMAScript Date.toISOString: UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

const (
	MessageMarkersLoaded    = "Markers loaded successfully"
	MessageMarkerFound      = "Marker loaded successfully"
	MessageArcsLoaded       = "Arcs loaded successfully"
	MessageSceneLoaded      = "Globe scene loaded successfully"
	MessageMarkerAdded      = "Marker added successfully"
	MessageInternalError    = "Internal server error"
	MessageBadRequest       = "Error processing request"
	MessageBodyTooLarge     = "Request body too large"
	MessageMarkerNotFound   = "Marker not found"
	MessageNotFound         = "Resource not found"
	MessageMethodNotAllowed = "Method not allowed"
)

// Envelope wraps every REST response. Error carries diagnostics outside
// production only.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ArcsData is the data section of GET /api/arcs.
type ArcsData struct {
	Arcs       []markers.Arc      `json:"arcs"`
	Statistics markers.Statistics `json:"statistics"`
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}
