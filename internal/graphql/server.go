package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ResolverFunc produces the value for one top-level field.
type ResolverFunc func(ctx context.Context, vars map[string]any) (any, error)

// Handler serves the storefront contract over HTTP. Requests are routed by
// the first top-level field of the query text; the schema is small and
// fixed, so no query-language engine is involved.
type Handler struct {
	resolvers map[string]ResolverFunc
}

func NewHandler() *Handler {
	return &Handler{resolvers: make(map[string]ResolverFunc)}
}

// Resolve registers the resolver for a top-level field.
func (h *Handler) Resolve(field string, fn ResolverFunc) {
	h.resolvers[field] = fn
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, fmt.Sprintf("malformed request body: %v", err))
		return
	}

	field := FieldName(req.Query)
	if field == "" {
		writeErrors(w, "query has no top-level field")
		return
	}
	resolver, ok := h.resolvers[field]
	if !ok {
		writeErrors(w, fmt.Sprintf("unknown field %q", field))
		return
	}

	result, err := resolver(r.Context(), req.Variables)
	if err != nil {
		writeErrors(w, err.Error())
		return
	}

	data, err := json.Marshal(map[string]any{field: result})
	if err != nil {
		writeErrors(w, fmt.Sprintf("encode %s: %v", field, err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Data: data})
}

// Field errors ride a 200 response, matching the original router.
func writeErrors(w http.ResponseWriter, messages ...string) {
	errs := make([]Error, len(messages))
	for i, m := range messages {
		errs[i] = Error{Message: m}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Errors: errs})
}

// FieldName extracts the first top-level field of a query, skipping the
// operation keyword, operation name and variable definitions. Returns ""
// when the text has no braces or no identifier follows the first one.
func FieldName(query string) string {
	depth := 0
	for i := 0; i < len(query); i++ {
		switch query[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '{':
			if depth == 0 {
				return leadingIdent(query[i+1:])
			}
		}
	}
	return ""
}

func leadingIdent(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := start
	for end < len(s) && isIdent(s[end]) {
		end++
	}
	return s[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
