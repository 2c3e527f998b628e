package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/library"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

type LibraryListResponse struct {
	Items []*media.MediaItem `json:"items"`
	Total int                `json:"total"`
}

type SelectionResponse struct {
	IDs          []string             `json:"ids"`
	Capabilities library.Capabilities `json:"capabilities"`
	InProgress   []library.Operation  `json:"inProgress"`
	Items        []*media.MediaItem   `json:"items"`
}

// SelectionRequest toggles ID, or empties the selection when Clear is set.
type SelectionRequest struct {
	ID    string `json:"id"`
	Clear bool   `json:"clear"`
}

type BatchOperationRequest struct {
	IDs []string `json:"ids"`
}

// parseGame reads an app filter: empty and ALL mean every game.
func parseGame(raw string) (games.Name, error) {
	g := games.Name(strings.TrimSpace(raw))
	if g == "" || g == games.AllGames || games.Valid(g) {
		return g, nil
	}
	return "", &validation.Error{Code: validation.CodeInvalidField, Field: "app", Message: fmt.Sprintf("unknown game %q", raw)}
}

// ListLibraryHandler returns library items matching ?search=&type=&app=.
func (h *APIHandler) ListLibraryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	game, err := parseGame(q.Get("app"))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	t := media.MediaType(strings.ToUpper(q.Get("type")))
	if t != "" && t != media.TypeAll && !t.Valid() {
		respondWithErr(w, r, &validation.Error{Code: validation.CodeInvalidField, Field: "type", Message: "must be one of: ALL VIDEO IMAGE PLAYABLE_AD"})
		return
	}
	items := h.Library.Filter(media.Filter{Search: q.Get("search"), Type: t, Game: game})
	respondWithJSON(w, http.StatusOK, LibraryListResponse{Items: items, Total: h.Library.Len()})
}

// AddLibraryItemHandler stores a posted item. Id and createdAt are filled in when absent.
func (h *APIHandler) AddLibraryItemHandler(w http.ResponseWriter, r *http.Request) {
	var item media.MediaItem
	if err := decodeJSON(w, r, &item); err != nil {
		respondWithErr(w, r, err)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = h.now().UTC()
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if err := validation.Struct(item); err != nil {
		respondWithErr(w, r, err)
		return
	}
	h.Library.Add(&item)
	respondWithJSON(w, http.StatusCreated, item)
}

func (h *APIHandler) DeleteLibraryItemHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.Library.Get(id); !ok {
		respondWithErr(w, r, fmt.Errorf("%s: %w", id, errItemNotFound))
		return
	}
	h.Library.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) selectionResponse() SelectionResponse {
	ids := h.Processor.Selection().IDs()
	return SelectionResponse{
		IDs:          ids,
		Capabilities: h.Processor.Capabilities(),
		InProgress:   h.Processor.InProgress(),
		Items:        h.Library.Resolve(ids),
	}
}

func (h *APIHandler) GetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.selectionResponse())
}

// UpdateSelectionHandler toggles one item in the batch selection, or clears it.
func (h *APIHandler) UpdateSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	switch {
	case req.Clear:
		h.Processor.Selection().Clear()
	case req.ID == "":
		respondWithErr(w, r, &validation.Error{Code: validation.CodeInvalidField, Field: "id", Message: "is required"})
		return
	default:
		if _, ok := h.Library.Get(req.ID); !ok {
			respondWithErr(w, r, fmt.Errorf("%s: %w", req.ID, errItemNotFound))
			return
		}
		h.Processor.Selection().Toggle(req.ID)
	}
	respondWithJSON(w, http.StatusOK, h.selectionResponse())
}

// StartBatchOperationHandler starts merge, extend or remove-background. Without ids in the
// body the current selection is used. The job outlives the request.
func (h *APIHandler) StartBatchOperationHandler(w http.ResponseWriter, r *http.Request) {
	op := library.Operation(mux.Vars(r)["op"])
	if !op.Valid() {
		respondWithErr(w, r, &validation.Error{Code: validation.CodeInvalidField, Field: "op", Message: "must be one of: merge extend remove-background"})
		return
	}
	var req BatchOperationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	ids := req.IDs
	if len(ids) == 0 {
		ids = h.Processor.Selection().IDs()
	}
	job, err := h.Processor.Start(context.WithoutCancel(r.Context()), op, ids)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/library/jobs/"+job.ID)
	respondWithJSON(w, http.StatusAccepted, job.Snapshot())
}

func (h *APIHandler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := h.Processor.Job(mux.Vars(r)["jobId"])
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, job.Snapshot())
}

// CancelJobHandler cancels a running job and waits for it to settle.
func (h *APIHandler) CancelJobHandler(w http.ResponseWriter, r *http.Request) {
	job, err := h.Processor.Cancel(mux.Vars(r)["jobId"])
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	select {
	case <-job.Done():
	case <-r.Context().Done():
	}
	respondWithJSON(w, http.StatusOK, job.Snapshot())
}
