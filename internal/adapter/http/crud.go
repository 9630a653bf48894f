package http

import (
	"context"
	"net/http"
)

// ---------------------------------------------------------------------------
// Generic handler factories
// ---------------------------------------------------------------------------

// handleGet creates a handler that retrieves a single resource keyed by a URL parameter.
func handleGet[T any](param string, getFn func(ctx context.Context, key string) (*T, error), notFoundMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := getFn(r.Context(), urlParam(r, param))
		if err != nil {
			writeDomainError(w, err, notFoundMsg)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleCreate creates a handler that decodes a JSON body and creates a resource.
func handleCreate[Req any, Res any](createFn func(ctx context.Context, req Req) (*Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readJSON[Req](w, r)
		if !ok {
			return
		}
		item, err := createFn(r.Context(), req)
		if err != nil {
			writeDomainError(w, err, "resource not found")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// handleListByQuery creates a handler that lists resources filtered by a
// required query parameter.
func handleListByQuery[T any](param string, listFn func(ctx context.Context, val string) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		val := r.URL.Query().Get(param)
		if !requireField(w, val, param) {
			return
		}
		items, err := listFn(r.Context(), val)
		if err != nil {
			writeDomainError(w, err, "not found")
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}
