package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/superleo/marketingops/backend/internal/campaigns"
	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

type CampaignListResponse struct {
	Campaigns []*campaigns.Campaign `json:"campaigns"`
	Summary   campaigns.Summary     `json:"summary"`
}

type UpdateCampaignStatusRequest struct {
	Status campaigns.CampaignStatus `json:"status"`
}

// ApplyPresetRequest carries the draft being edited. A missing draft starts from the defaults.
type ApplyPresetRequest struct {
	PresetID string           `json:"presetId"`
	Draft    *campaigns.Draft `json:"draft,omitempty"`
}

func parsePlatform(raw string) (campaigns.Platform, error) {
	switch p := campaigns.Platform(strings.TrimSpace(raw)); p {
	case "", campaigns.PlatformAll, campaigns.PlatformGoogle, campaigns.PlatformFacebook, campaigns.PlatformTikTok:
		return p, nil
	}
	return "", &validation.Error{Code: validation.CodeInvalidField, Field: "platform", Message: fmt.Sprintf("unknown platform %q", raw)}
}

func campaignFilter(r *http.Request) (campaigns.Filter, error) {
	q := r.URL.Query()
	game, err := parseGame(q.Get("app"))
	if err != nil {
		return campaigns.Filter{}, err
	}
	platform, err := parsePlatform(q.Get("platform"))
	if err != nil {
		return campaigns.Filter{}, err
	}
	return campaigns.Filter{Game: game, Platform: platform}, nil
}

// ListCampaignsHandler returns the campaigns matching ?app=&platform= with their totals.
func (h *APIHandler) ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	f, err := campaignFilter(r)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	list := h.CampaignMgr.List(f)
	respondWithJSON(w, http.StatusOK, CampaignListResponse{Campaigns: list, Summary: campaigns.Summarize(list)})
}

func (h *APIHandler) CampaignSummaryHandler(w http.ResponseWriter, r *http.Request) {
	f, err := campaignFilter(r)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.CampaignMgr.Summary(f))
}

// CreateCampaignHandler launches a campaign from a draft.
func (h *APIHandler) CreateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	draft := campaigns.NewDraft()
	if err := decodeJSON(w, r, &draft); err != nil {
		respondWithErr(w, r, err)
		return
	}
	c, err := h.CampaignMgr.Create(draft)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *APIHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.CampaignMgr.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

// CampaignCreativesHandler resolves a campaign's creative ids, skipping items deleted since.
func (h *APIHandler) CampaignCreativesHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.CampaignMgr.Get(mux.Vars(r)["id"])
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.Library.Resolve(c.CreativeIDs))
}

func (h *APIHandler) UpdateCampaignStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req UpdateCampaignStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	c, err := h.CampaignMgr.UpdateStatus(mux.Vars(r)["id"], req.Status)
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *APIHandler) ListPresetsHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, campaigns.Presets())
}

// NewDraftHandler returns the creation form defaults.
func (h *APIHandler) NewDraftHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, campaigns.NewDraft())
}

func (h *APIHandler) ApplyPresetHandler(w http.ResponseWriter, r *http.Request) {
	var req ApplyPresetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err)
		return
	}
	p, ok := campaigns.PresetByID(req.PresetID)
	if !ok {
		respondWithErr(w, r, &validation.Error{Code: validation.CodeInvalidField, Field: "presetId", Message: fmt.Sprintf("unknown preset %q", req.PresetID)})
		return
	}
	draft := campaigns.NewDraft()
	if req.Draft != nil {
		draft = *req.Draft
	}
	draft.ApplyPreset(p, h.now())
	respondWithJSON(w, http.StatusOK, draft)
}

// AvailableCreativesHandler lists the items a campaign for ?app= may use.
func (h *APIHandler) AvailableCreativesHandler(w http.ResponseWriter, r *http.Request) {
	game, err := parseGame(r.URL.Query().Get("app"))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	if game == "" || game == games.AllGames {
		game = games.Default()
	}
	items := h.Library.AvailableCreatives(game)
	if items == nil {
		items = []*media.MediaItem{}
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *APIHandler) ListAlertsHandler(w http.ResponseWriter, r *http.Request) {
	game, err := parseGame(r.URL.Query().Get("app"))
	if err != nil {
		respondWithErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.CampaignMgr.Alerts(game))
}

func (h *APIHandler) DismissAlertHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithErr(w, r, &validation.Error{Code: validation.CodeInvalidField, Field: "id", Message: "must be an integer"})
		return
	}
	h.CampaignMgr.DismissAlert(id)
	w.WriteHeader(http.StatusNoContent)
}
