package web

import (
	"net/http"

	"github.com/vecbase/vecbase/internal/store"
	"github.com/vecbase/vecbase/internal/vecerr"
)

type searchRequest struct {
	Embedding      []float64      `json:"embedding"`
	K              int            `json:"k"`
	MetadataFilter map[string]any `json:"metadata_filter"`
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err)
		return
	}
	k := req.K
	if k == 0 {
		k = 1
	}
	if k < 0 {
		jsonError(w, vecerr.New(vecerr.InvalidArgument, "web.search", "k must be positive"))
		return
	}
	results, err := h.store.Search(pathParam(r, "libraryID"), req.Embedding, k, store.Metadata(req.MetadataFilter))
	if err != nil {
		jsonError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}
