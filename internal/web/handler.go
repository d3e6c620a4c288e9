package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vecbase/vecbase/internal/snapshot"
	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/version"
)

// handler holds the dependencies every route needs: the entity store
// and, if snapshotting is enabled, a way to flag that state changed.
type handler struct {
	store       *store.Store
	snapshotter *snapshot.Snapshotter
}

func (h *handler) markDirty() {
	if h.snapshotter != nil {
		h.snapshotter.MarkDirty()
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
