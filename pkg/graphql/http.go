package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/dd0wney/cluso-globe/pkg/logging"
)

// Request represents a GraphQL HTTP request
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response represents a GraphQL HTTP response
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error represents a GraphQL error
type Error struct {
	Message string `json:"message"`
}

// Handler serves POST /graphql against a fixed schema.
type Handler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewHandler creates a GraphQL HTTP handler. A non-positive maxDepth uses
// DefaultMaxDepth.
func NewHandler(schema graphql.Schema, maxDepth int, logger logging.Logger) *Handler {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{schema: schema, maxDepth: maxDepth, logger: logger}
}

// Execute validates depth and runs req against the schema.
func (h *Handler) Execute(r *http.Request, req Request) *graphql.Result {
	if err := ValidateQueryDepth(req.Query, h.maxDepth); err != nil {
		return &graphql.Result{Errors: []gqlerrors.FormattedError{gqlerrors.FormatError(err)}}
	}

	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
}

// ServeHTTP handles HTTP requests for GraphQL queries. Query errors are
// reported in the body with status 200, as GraphQL clients expect.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeResponse(w, http.StatusMethodNotAllowed, Response{Errors: []Error{{Message: "method not allowed"}}})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		writeResponse(w, http.StatusBadRequest, Response{Errors: []Error{{Message: "invalid request body"}}})
		return
	}

	result := h.Execute(r, req)
	response := Response{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]Error, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = Error{Message: err.Message}
		}
		h.logger.Debug("GraphQL query returned errors",
			logging.Count(len(result.Errors)),
			logging.String("first_error", result.Errors[0].Message))
	}

	writeResponse(w, http.StatusOK, response)
}

func writeResponse(w http.ResponseWriter, status int, response Response) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
