package web

import (
	"net/http"

	"github.com/vecbase/vecbase/internal/store"
)

type createLibraryRequest struct {
	LibraryID string         `json:"library_id"`
	Metadata  map[string]any `json:"metadata"`
}

type updateLibraryRequest struct {
	Metadata map[string]any `json:"metadata"`
}

type indexLibraryRequest struct {
	Algorithm string `json:"algorithm"`
}

func (h *handler) createLibrary(w http.ResponseWriter, r *http.Request) {
	var req createLibraryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	lib, err := h.store.CreateLibrary(req.LibraryID, store.Metadata(req.Metadata))
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusCreated, lib)
}

func (h *handler) getLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := h.store.GetLibrary(pathParam(r, "libraryID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lib)
}

func (h *handler) updateLibrary(w http.ResponseWriter, r *http.Request) {
	var req updateLibraryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	lib, err := h.store.UpdateLibrary(pathParam(r, "libraryID"), store.Metadata(req.Metadata))
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusOK, lib)
}

func (h *handler) deleteLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteLibrary(pathParam(r, "libraryID")); err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) indexLibrary(w http.ResponseWriter, r *http.Request) {
	var req indexLibraryRequest
	_ = decodeJSON(r, &req) // algorithm is optional; a missing/empty body defaults to exact
	if err := h.store.IndexLibrary(pathParam(r, "libraryID"), req.Algorithm); err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	lib, err := h.store.GetLibrary(pathParam(r, "libraryID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lib)
}

func (h *handler) chunkCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.ChunkCount(pathParam(r, "libraryID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int{"count": count})
}

func (h *handler) listLibraryChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.store.ListChunks(pathParam(r, "libraryID"), "")
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"chunks": chunks})
}
