package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/superleo/marketingops/backend/internal/apps"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// AppView adds the derived A/B test display values to an app entry.
type AppView struct {
	*apps.AppDetails
	DaysRunning int                `json:"daysRunning"`
	BarWidths   map[string]float64 `json:"barWidths,omitempty"`
}

type LaunchABTestRequest struct {
	ImageIDs []string `json:"imageIds"`
}

func (h *APIHandler) appView(a *apps.AppDetails) AppView {
	v := AppView{AppDetails: a}
	if t := a.ActiveABTest; t != nil {
		v.DaysRunning = apps.DaysRunning(t, h.now())
		v.BarWidths = make(map[string]float64, len(t.Variants))
		for _, variant := range t.Variants {
			v.BarWidths[variant.ID] = apps.PerformanceBarWidth(variant)
		}
	}
	return v
}

func (h *APIHandler) ListAppsHandler(w http.ResponseWriter, r *http.Request) {
	list := h.Apps.List()
	out := make([]AppView, 0, len(list))
	for _, a := range list {
		out = append(out, h.appView(a))
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (h *APIHandler) GetAppHandler(w http.ResponseWriter, r *http.Request) {
	a, err := h.Apps.Get(games.Name(mux.Vars(r)["name"]))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.appView(a))
}

// ListImagesHandler returns the library images that can become challengers.
func (h *APIHandler) ListImagesHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.Library.AvailableImages())
}

// LaunchABTestHandler replaces the app's active test with one built from the posted images.
func (h *APIHandler) LaunchABTestHandler(w http.ResponseWriter, r *http.Request) {
	var req LaunchABTestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	seen := make(map[string]bool, len(req.ImageIDs))
	for _, id := range req.ImageIDs {
		if seen[id] {
			respondWithErr(w, r, validation.New(validation.CodeInvalidChallengerSelection, "image %q is selected twice", id))
			return
		}
		seen[id] = true
	}
	challengers := h.Library.Resolve(req.ImageIDs)
	if len(challengers) != len(req.ImageIDs) {
		respondWithErr(w, r, validation.New(validation.CodeInvalidChallengerSelection, "some images are no longer in the library"))
		return
	}
	test, err := h.Apps.LaunchABTest(games.Name(mux.Vars(r)["name"]), challengers, h.now())
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, test)
}
