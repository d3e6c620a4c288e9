package web

import (
	"net/http"

	"github.com/vecbase/vecbase/internal/store"
)

type chunkRequest struct {
	ChunkID   string         `json:"chunk_id"`
	Text      string         `json:"text"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
}

func (c chunkRequest) toInput() store.ChunkInput {
	return store.ChunkInput{ID: c.ChunkID, Text: c.Text, Embedding: c.Embedding, Metadata: store.Metadata(c.Metadata)}
}

type createDocumentRequest struct {
	DocumentID string         `json:"document_id"`
	Title      string         `json:"title"`
	Metadata   map[string]any `json:"metadata"`
	Chunks     []chunkRequest `json:"chunks"`
}

type updateDocumentRequest struct {
	Title    string         `json:"title"`
	Metadata map[string]any `json:"metadata"`
}

func (h *handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	inputs := make([]store.ChunkInput, len(req.Chunks))
	for i, c := range req.Chunks {
		inputs[i] = c.toInput()
	}
	doc, chunks, err := h.store.CreateDocument(pathParam(r, "libraryID"), req.DocumentID, req.Title, store.Metadata(req.Metadata), inputs)
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusCreated, map[string]any{"document": doc, "chunks": chunks})
}

func (h *handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.GetDocument(pathParam(r, "libraryID"), pathParam(r, "documentID"))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, doc)
}

func (h *handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	doc, err := h.store.UpdateDocument(pathParam(r, "libraryID"), pathParam(r, "documentID"), req.Title, store.Metadata(req.Metadata))
	if err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	jsonResponse(w, http.StatusOK, doc)
}

func (h *handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDocument(pathParam(r, "libraryID"), pathParam(r, "documentID")); err != nil {
		jsonError(w, err)
		return
	}
	h.markDirty()
	w.WriteHeader(http.StatusNoContent)
}
