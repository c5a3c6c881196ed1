package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/pathlens/pathlens/pkg/errors"
	"github.com/pathlens/pathlens/pkg/pipeline"
	"github.com/pathlens/pathlens/pkg/query"
	"github.com/pathlens/pathlens/pkg/viewstore"
)

// maxBodySize bounds request bodies. Queries and views are small documents.
const maxBodySize = 1 << 20

// handleHealthz reports liveness and the loaded graph's shape.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"nodes":  s.snap.NodeCount(),
		"edges":  s.snap.EdgeCount(),
	})
}

// handleQueryGet executes a query from URL parameters. Decoding fails
// closed, so malformed parameters run the empty query rather than erroring.
func (s *Server) handleQueryGet(w http.ResponseWriter, r *http.Request) {
	q := query.DecodeParams(r.URL.Query())
	s.executeQuery(w, r, q)
}

// handleQueryPost executes a query from a JSON body. An unreadable body is
// a client error; a readable body with an unknown version fails closed to
// the empty query, matching the share-link decoder. A missing version is
// filled in rather than rejected.
func (s *Server) handleQueryPost(w http.ResponseWriter, r *http.Request) {
	var q query.ViewQuery
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&q); err != nil {
		s.writeError(w, http.StatusBadRequest,
			pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	switch q.Version {
	case 0:
		q.Version = query.Version
	case query.Version:
	default:
		q = query.NewEmptyQuery()
	}
	s.executeQuery(w, r, q)
}

// executeQuery runs q through the cached execution stage and writes the
// result. A Cache-Control: no-cache header forces a fresh execution.
func (s *Server) executeQuery(w http.ResponseWriter, r *http.Request, q query.ViewQuery) {
	opts := pipeline.Options{
		Query:       q,
		VisitBudget: s.budget,
		Refresh:     r.Header.Get("Cache-Control") == "no-cache",
		Logger:      s.logger,
	}

	res, hit, err := s.runner.ExecuteWithCacheInfo(r.Context(), s.exec, s.fingerprint, opts)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, res)
}

// shareResponse carries both directions of share-link translation.
type shareResponse struct {
	URL    string           `json:"url,omitempty"`
	Params string           `json:"params,omitempty"`
	Query  *query.ViewQuery `json:"query,omitempty"`
}

// handleShare builds a share link from the request's query parameters, or
// parses an existing link when a url parameter is present.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("url"); raw != "" {
		q := query.DecodeURL(raw)
		writeJSON(w, http.StatusOK, shareResponse{Query: &q})
		return
	}

	q := query.DecodeParams(r.URL.Query())
	writeJSON(w, http.StatusOK, shareResponse{
		URL:    query.ShareURL(s.shareBase(r), q),
		Params: query.EncodeQuery(q),
		Query:  &q,
	})
}

// viewRequest is the body for creating or replacing a saved view.
type viewRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Query       query.ViewQuery `json:"query"`
}

// decodeViewRequest reads and validates a view body. Unlike the query
// endpoints, writes reject bad input loudly: silently saving an empty query
// would lose the caller's filters.
func (s *Server) decodeViewRequest(w http.ResponseWriter, r *http.Request) (*viewRequest, bool) {
	var req viewRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest,
			pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid request body"))
		return nil, false
	}
	switch req.Query.Version {
	case 0:
		req.Query.Version = query.Version
	case query.Version:
	default:
		s.writeError(w, http.StatusBadRequest,
			pkgerrors.New(pkgerrors.ErrCodeInvalidQuery, "unsupported query version %d", req.Query.Version))
		return nil, false
	}
	return &req, true
}

// handleViewList returns every saved view ordered by creation time.
func (s *Server) handleViewList(w http.ResponseWriter, r *http.Request) {
	views, err := s.views.List(r.Context())
	if err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}
	if views == nil {
		views = []viewstore.SavedView{}
	}
	writeJSON(w, http.StatusOK, views)
}

// handleViewCreate saves a new view.
func (s *Server) handleViewCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeViewRequest(w, r)
	if !ok {
		return
	}

	view := viewstore.New(req.Name, req.Description, req.Query)
	if err := view.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.views.Save(r.Context(), view); err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// handleViewGet fetches one saved view by id.
func (s *Server) handleViewGet(w http.ResponseWriter, r *http.Request) {
	view, err := s.views.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleViewUpdate replaces the name, description, and query of an existing
// view. The id and creation time are preserved.
func (s *Server) handleViewUpdate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeViewRequest(w, r)
	if !ok {
		return
	}

	view, err := s.views.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}

	view.Name = req.Name
	view.Description = req.Description
	view.Query = req.Query
	if err := view.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.views.Save(r.Context(), view); err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleViewDelete removes a saved view.
func (s *Server) handleViewDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		status, werr := storeError(err)
		s.writeError(w, status, werr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// storeError attaches an error code and HTTP status to a store failure.
func storeError(err error) (int, error) {
	if errors.Is(err, viewstore.ErrNotFound) {
		return http.StatusNotFound,
			pkgerrors.Wrap(pkgerrors.ErrCodeViewNotFound, err, "view not found")
	}
	return http.StatusInternalServerError,
		pkgerrors.Wrap(pkgerrors.ErrCodeStore, err, "view store failure")
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	code := pkgerrors.GetCode(err)
	if code == "" {
		code = pkgerrors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: pkgerrors.UserMessage(err),
	}})
}
