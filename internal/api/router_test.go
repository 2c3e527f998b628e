package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/superleo/marketingops/backend/internal/assistant"
	"github.com/superleo/marketingops/backend/internal/config"
	"github.com/superleo/marketingops/backend/internal/events"
	"github.com/superleo/marketingops/backend/internal/generation"
	"github.com/superleo/marketingops/backend/internal/library"
	"github.com/superleo/marketingops/backend/internal/memorystore"
	"github.com/superleo/marketingops/backend/internal/validation"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T, balance float64) (http.Handler, *events.Bus) {
	t.Helper()
	now := time.Now()
	bus := events.NewBus(16)
	lib := memorystore.NewInMemoryLibraryStore(bus, memorystore.SeedLibrary(now)...)
	proc, err := library.NewProcessor(lib, bus, library.ProcessorOptions{
		MergeDelay:            10 * time.Millisecond,
		ExtendDelay:           10 * time.Millisecond,
		RemoveBackgroundDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	gen := generation.NewService(&generation.MockGateway{}, nil, generation.NewWallet(balance, bus), lib)
	chat, err := assistant.NewService(gen, lib, 8)
	if err != nil {
		t.Fatalf("assistant.NewService() error = %v", err)
	}
	cfg := config.Default()
	cfg.Server.APIKey = testAPIKey
	router := NewRouter(cfg, Services{
		Library:    lib,
		Processor:  proc,
		Campaigns:  memorystore.NewInMemoryCampaignStore(bus, memorystore.SeedCampaigns(now), memorystore.SeedAlerts()),
		Apps:       memorystore.NewInMemoryAppRegistry(bus, memorystore.SeedApps(now)),
		Generation: gen,
		Assistant:  chat,
		Events:     bus,
	})
	return router, bus
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestPingAndAuth(t *testing.T) {
	h, _ := newTestRouter(t, 10)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rr.Code != http.StatusOK || rr.Header().Get(requestIDHeader) == "" {
		t.Fatalf("ping = %d, request id %q", rr.Code, rr.Header().Get(requestIDHeader))
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "malformed", header: testAPIKey},
		{name: "wrong key", header: "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/library", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
		})
	}
}

func TestLibraryFilterAndDelete(t *testing.T) {
	h, _ := newTestRouter(t, 10)

	rr := do(t, h, http.MethodGet, "/api/v1/library?type=video", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	list := decode[LibraryListResponse](t, rr)
	if len(list.Items) != 1 || list.Items[0].ID != "demo-2" || list.Total != 5 {
		t.Fatalf("list = %+v", list)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/library", map[string]any{"id": "dup", "type": "IMAGE", "url": "u", "title": "A", "tags": []string{}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", rr.Code, rr.Body)
	}
	if added := decode[map[string]any](t, rr); added["id"] != "dup" || added["createdAt"] == float64(0) {
		t.Fatalf("added = %v", added)
	}
	if list := decode[LibraryListResponse](t, do(t, h, http.MethodGet, "/api/v1/library?search=A&type=image", nil)); list.Total != 6 || list.Items[0].ID != "dup" {
		t.Fatalf("after add = %+v", list)
	}

	if rr := do(t, h, http.MethodGet, "/api/v1/library?app=Tetris", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown app status = %d, want 400", rr.Code)
	}
	if rr := do(t, h, http.MethodDelete, "/api/v1/library/demo-1", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodDelete, "/api/v1/library/demo-1", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rr.Code)
	}
}

func TestBatchOperationLifecycle(t *testing.T) {
	h, _ := newTestRouter(t, 10)

	rr := do(t, h, http.MethodPost, "/api/v1/library/operations/merge", BatchOperationRequest{IDs: []string{"demo-2"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("merge of one item = %d, want 422", rr.Code)
	}
	if got := decode[errorResponse](t, rr); got.Code != validation.CodeInvalidBatchSelection {
		t.Fatalf("code = %s", got.Code)
	}

	do(t, h, http.MethodPost, "/api/v1/library/selection", SelectionRequest{ID: "demo-2"})
	sel := decode[SelectionResponse](t, do(t, h, http.MethodGet, "/api/v1/library/selection", nil))
	if !sel.Capabilities.Extend || sel.Capabilities.Merge {
		t.Fatalf("capabilities = %+v", sel.Capabilities)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/library/operations/extend", nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("extend status = %d: %s", rr.Code, rr.Body)
	}
	job := decode[library.JobSnapshot](t, rr)

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := decode[library.JobSnapshot](t, do(t, h, http.MethodGet, "/api/v1/library/jobs/"+job.ID, nil))
		if snap.Status == library.JobSucceeded {
			if len(snap.CreatedIDs) != 1 {
				t.Fatalf("created = %v", snap.CreatedIDs)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job still %s", snap.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/library/jobs/nope", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown job status = %d", rr.Code)
	}
}

func TestGenerationEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, 0.05)

	models := decode[ModelsResponse](t, do(t, h, http.MethodGet, "/api/v1/generation/models", nil))
	if models.Defaults[generation.KindImage] != "imagen-4.0-generate-001" || len(models.Models[generation.KindVideo]) != 6 {
		t.Fatalf("models = %+v", models.Defaults)
	}

	rr := do(t, h, http.MethodPost, "/api/v1/generation", generation.Request{Kind: generation.KindImage, Prompt: "fish", Model: "mock-flux", Game: "Fish Idle"})
	if rr.Code != http.StatusOK {
		t.Fatalf("generate status = %d: %s", rr.Code, rr.Body)
	}
	res := decode[generation.Result](t, rr)
	if res.Fallback || res.Cost != 0.03 || res.Balance != 0.02 {
		t.Fatalf("result = %+v", res)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/generation", generation.Request{Kind: generation.KindImage, Prompt: "fish", Model: "mock-midjourney"})
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("over budget status = %d, want 402", rr.Code)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/generation/save", res)
	if rr.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rr.Code, rr.Body)
	}

	bal := decode[BalanceResponse](t, do(t, h, http.MethodGet, "/api/v1/balance", nil))
	if bal.Balance != 0.02 {
		t.Fatalf("balance = %v", bal.Balance)
	}
}

func TestCampaignEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, 10)

	rr := do(t, h, http.MethodPost, "/api/v1/campaigns", map[string]any{"name": "Empty"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("create without creatives = %d, want 422", rr.Code)
	}
	if got := decode[errorResponse](t, rr); got.Code != validation.CodeMissingCreatives {
		t.Fatalf("code = %s", got.Code)
	}

	rr = do(t, h, http.MethodPost, "/api/v1/campaigns/draft/preset", ApplyPresetRequest{PresetID: "ww-usa-ab"})
	if rr.Code != http.StatusOK {
		t.Fatalf("apply preset = %d: %s", rr.Code, rr.Body)
	}
	draft := decode[map[string]any](t, rr)
	draft["creativeIds"] = []string{"demo-1"}

	rr = do(t, h, http.MethodPost, "/api/v1/campaigns", draft)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rr.Code, rr.Body)
	}
	created := decode[map[string]any](t, rr)
	if created["platform"] != "tiktok" || created["status"] != "active" {
		t.Fatalf("created = %v", created)
	}

	list := decode[CampaignListResponse](t, do(t, h, http.MethodGet, "/api/v1/campaigns?platform=tiktok", nil))
	if len(list.Campaigns) != 2 || list.Summary.Campaigns != 2 {
		t.Fatalf("tiktok campaigns = %d", len(list.Campaigns))
	}

	if rr := do(t, h, http.MethodGet, "/api/v1/campaigns/missing", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("missing campaign = %d, want 404", rr.Code)
	}
	if rr := do(t, h, http.MethodPut, "/api/v1/campaigns/1/status", UpdateCampaignStatusRequest{Status: "archived"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad status = %d, want 400", rr.Code)
	}

	before := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/v1/alerts", nil))
	if rr := do(t, h, http.MethodPost, "/api/v1/alerts/1/dismiss", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("dismiss = %d", rr.Code)
	}
	after := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/v1/alerts", nil))
	if len(after) != len(before)-1 {
		t.Fatalf("alerts %d -> %d", len(before), len(after))
	}
}

func TestLaunchABTest(t *testing.T) {
	h, _ := newTestRouter(t, 10)

	rr := do(t, h, http.MethodPost, "/api/v1/apps/Evolution/abtests", LaunchABTestRequest{ImageIDs: []string{"demo-icon-1", "demo-icon-2"}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("launch = %d: %s", rr.Code, rr.Body)
	}
	app := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/v1/apps/Evolution", nil))
	test, ok := app["activeAbTest"].(map[string]any)
	if !ok || len(test["variants"].([]any)) != 3 {
		t.Fatalf("active test = %v", app["activeAbTest"])
	}

	four := []string{"demo-1", "demo-icon-1", "demo-icon-2", "demo-icon-3"}
	if rr := do(t, h, http.MethodPost, "/api/v1/apps/Evolution/abtests", LaunchABTestRequest{ImageIDs: four}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("four challengers = %d, want 422", rr.Code)
	}
	rr = do(t, h, http.MethodPost, "/api/v1/apps/Evolution/abtests", LaunchABTestRequest{ImageIDs: []string{"demo-icon-1", "demo-icon-1"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("repeated challenger = %d, want 422", rr.Code)
	}
	if got := decode[errorResponse](t, rr); got.Code != validation.CodeInvalidChallengerSelection {
		t.Fatalf("code = %s", got.Code)
	}
	app = decode[map[string]any](t, do(t, h, http.MethodGet, "/api/v1/apps/Evolution", nil))
	if test := app["activeAbTest"].(map[string]any); len(test["variants"].([]any)) != 3 {
		t.Fatalf("rejected launch replaced the test: %v", test)
	}
	if rr := do(t, h, http.MethodGet, "/api/v1/apps/Tetris", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown app = %d, want 404", rr.Code)
	}
}

func TestChatWithoutProvider(t *testing.T) {
	h, _ := newTestRouter(t, 10)
	if rr := do(t, h, http.MethodPost, "/api/v1/chat/sessions", nil); rr.Code != http.StatusBadGateway {
		t.Fatalf("open chat = %d, want 502", rr.Code)
	}
	if rr := do(t, h, http.MethodPost, "/api/v1/chat/sessions/nope/messages", SendChatMessageRequest{Text: "hi"}); rr.Code != http.StatusNotFound {
		t.Fatalf("send to unknown session = %d, want 404", rr.Code)
	}
}

func TestEventStream(t *testing.T) {
	h, bus := newTestRouter(t, 10)
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events?api_key=" + testAPIKey
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for bus.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := do(t, h, http.MethodPost, "/api/v1/library", map[string]any{"type": "IMAGE", "url": "https://cdn.example/x.png", "title": "x"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", rr.Code, rr.Body)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if ev.Type != events.LibraryItemAdded {
		t.Fatalf("event type = %q, want %q", ev.Type, events.LibraryItemAdded)
	}
}
