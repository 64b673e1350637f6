package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// pathID reads a UUID path parameter, writing 400 when it is missing or malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	id := chi.URLParam(r, name)
	if id == "" {
		response.BadRequest(w, label+" ID is required", nil)
		return "", false
	}
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid "+label+" ID", map[string]string{name: "must be a valid UUID"})
		return "", false
	}
	return id, true
}

// pagination parses page and limit. Absent values stay 0 so the services apply their defaults.
func pagination(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	details := map[string]string{}
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			details["page"] = "page must be a number"
		}
		page = n
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			details["limit"] = "limit must be a number"
		}
		limit = n
	}
	if len(details) > 0 {
		response.BadRequest(w, "Invalid pagination parameters", details)
		return 0, 0, false
	}
	return page, limit, true
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
