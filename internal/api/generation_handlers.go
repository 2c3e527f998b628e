package api

import (
	"net/http"

	"github.com/superleo/marketingops/backend/internal/generation"
)

type ModelsResponse struct {
	Models   map[generation.Kind][]generation.Model `json:"models"`
	Defaults map[generation.Kind]string             `json:"defaults"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

func (h *APIHandler) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	catalog := h.Generation.Catalog()
	resp := ModelsResponse{
		Models:   make(map[generation.Kind][]generation.Model, len(generation.Kinds)),
		Defaults: make(map[generation.Kind]string, len(generation.Kinds)),
	}
	for _, k := range generation.Kinds {
		resp.Models[k] = catalog.Models(k)
		if m, ok := catalog.Default(k); ok {
			resp.Defaults[k] = m.ID
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, BalanceResponse{Balance: h.Generation.Balance()})
}

// GenerateHandler runs one generation. Provider failures still answer 200 with a placeholder
// and fallback set.
func (h *APIHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	res, err := h.Generation.Generate(r.Context(), req)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// SaveGenerationHandler stores a generation result in the library.
func (h *APIHandler) SaveGenerationHandler(w http.ResponseWriter, r *http.Request) {
	var res generation.Result
	if err := decodeJSON(w, r, &res); err != nil {
		respondWithErr(w, r, err)
		return
	}
	item, err := h.Generation.SaveToLibrary(&res)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, item)
}
