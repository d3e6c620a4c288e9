package web

import (
	"net/http"

	"github.com/vecbase/vecbase/internal/store"
)

type bulkCreateChunksRequest struct {
	Chunks []chunkRequest `json:"chunks"`
}

type updateChunkRequest struct {
	Text      string         `json:"text"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

func (h *handler) createChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	chunk, err := h.store.CreateChunk(pathParam(r, "libraryID"), pathParam(r, "documentID"), req.toInput())
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusCreated, chunk)
}

func (h *handler) bulkCreateChunks(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateChunksRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	inputs := make([]store.ChunkInput, len(req.Chunks))
	for i, c := range req.Chunks {
		inputs[i] = c.toInput()
	}
	chunks, err := h.store.BulkCreateChunks(pathParam(r, "libraryID"), pathParam(r, "documentID"), inputs)
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusCreated, map[string]any{"chunks": chunks})
}

func (h *handler) listDocumentChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.store.ListChunks(pathParam(r, "libraryID"), pathParam(r, "documentID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"chunks": chunks})
}

func (h *handler) getChunk(w http.ResponseWriter, r *http.Request) {
	chunk, err := h.store.GetChunk(pathParam(r, "libraryID"), pathParam(r, "chunkID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, chunk)
}

func (h *handler) updateChunk(w http.ResponseWriter, r *http.Request) {
	var req updateChunkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	chunk, err := h.store.UpdateChunk(pathParam(r, "libraryID"), pathParam(r, "chunkID"), req.Text, req.Embedding, store.Metadata(req.Metadata))
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusOK, chunk)
}

func (h *handler) deleteChunk(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteChunk(pathParam(r, "libraryID"), pathParam(r, "chunkID")); err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	w.WriteHeader(http.StatusNoContent)
}
