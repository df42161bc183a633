// Package v1 provides the REST handlers for index settings synchronization.
package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/index-settings-sync/internal/api/common"
	"github.com/stacklok/index-settings-sync/internal/keys"
	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/settings"
	pkgsync "github.com/stacklok/index-settings-sync/internal/sync"
	"github.com/stacklok/index-settings-sync/internal/sync/coordinator"
)

const (
	operationDownload = "download"
	operationUpload   = "upload"
)

// SyncResponse is returned by the download and upload endpoints
type SyncResponse struct {
	Index     string         `json:"index"`
	Operation string         `json:"operation"`
	Previous  settings.State `json:"previousState"`
}

// SearchKeyResponse carries a secured search key
type SearchKeyResponse struct {
	Key string `json:"key"`
}

// DriftResponse lists the latest analysis of every watched index
type DriftResponse struct {
	Indices []coordinator.Snapshot `json:"indices"`
}

// Routes holds the dependencies of the v1 handlers
type Routes struct {
	synchronizer pkgsync.Synchronizer
	keys         keys.APIKeysRepository
	coordinator  coordinator.Coordinator
}

// NewRoutes creates the v1 routes. keysRepo and drift may be nil, in which
// case their endpoints answer 501.
func NewRoutes(
	synchronizer pkgsync.Synchronizer,
	keysRepo keys.APIKeysRepository,
	drift coordinator.Coordinator,
) *Routes {
	return &Routes{
		synchronizer: synchronizer,
		keys:         keysRepo,
		coordinator:  drift,
	}
}

// Router creates the v1 router
func Router(
	synchronizer pkgsync.Synchronizer,
	keysRepo keys.APIKeysRepository,
	drift coordinator.Coordinator,
) http.Handler {
	routes := NewRoutes(synchronizer, keysRepo, drift)

	r := chi.NewRouter()
	r.Get("/drift", routes.getDrift)
	r.Route("/indexes/{index}", func(r chi.Router) {
		r.Get("/status", routes.getStatus)
		r.Post("/download", routes.download)
		r.Post("/upload", routes.upload)
		r.Get("/search-key", routes.getSearchKey)
	})

	return r
}

// getStatus handles GET /v1/indexes/{index}/status
func (rr *Routes) getStatus(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	st, err := rr.synchronizer.Analyse(r.Context(), index)
	if err != nil {
		logger.Errorf("Failed to analyse index %s: %v", index, err)
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, st, http.StatusOK)
}

// download handles POST /v1/indexes/{index}/download
func (rr *Routes) download(w http.ResponseWriter, r *http.Request) {
	rr.transfer(w, r, operationDownload, rr.synchronizer.Download)
}

// upload handles POST /v1/indexes/{index}/upload
func (rr *Routes) upload(w http.ResponseWriter, r *http.Request) {
	rr.transfer(w, r, operationUpload, rr.synchronizer.Upload)
}

// transfer refuses to overwrite a diverged index unless force=true is given
// or a download has no local file to overwrite
func (rr *Routes) transfer(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	run func(ctx context.Context, index string) error,
) {
	index := chi.URLParam(r, "index")

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			common.WriteErrorResponse(w, fmt.Sprintf("invalid force parameter %q", raw), http.StatusBadRequest)
			return
		}
		force = parsed
	}

	st, err := rr.synchronizer.Analyse(r.Context(), index)
	if err != nil {
		logger.Errorf("Failed to analyse index %s before %s: %v", index, operation, err)
		common.WriteError(w, err)
		return
	}

	if st.Conflicts(operation == operationDownload) && !force {
		common.WriteErrorResponse(w,
			fmt.Sprintf("index %s has diverged; retry with force=true to %s anyway", index, operation),
			http.StatusConflict)
		return
	}

	if err := run(r.Context(), index); err != nil {
		logger.Errorf("Failed to %s index %s: %v", operation, index, err)
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, SyncResponse{
		Index:     index,
		Operation: operation,
		Previous:  st.State,
	}, http.StatusOK)
}

// getSearchKey handles GET /v1/indexes/{index}/search-key
func (rr *Routes) getSearchKey(w http.ResponseWriter, r *http.Request) {
	if rr.keys == nil {
		common.WriteErrorResponse(w, "search keys are not configured", http.StatusNotImplemented)
		return
	}

	index := chi.URLParam(r, "index")
	key, err := rr.keys.SearchKey(r.Context(), index)
	if err != nil {
		logger.Errorf("Failed to issue search key for index %s: %v", index, err)
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, SearchKeyResponse{Key: key}, http.StatusOK)
}

// getDrift handles GET /v1/drift
func (rr *Routes) getDrift(w http.ResponseWriter, _ *http.Request) {
	if rr.coordinator == nil {
		common.WriteErrorResponse(w, "drift monitoring is not enabled", http.StatusNotImplemented)
		return
	}

	common.WriteJSONResponse(w, DriftResponse{Indices: rr.coordinator.Snapshots()}, http.StatusOK)
}
