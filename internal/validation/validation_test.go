package validation

import (
	"errors"
	"fmt"
	"testing"
)

type sampleDraft struct {
	Game     string  `json:"appName" validate:"game"`
	Budget   float64 `json:"budget" validate:"gte=0"`
	Platform string  `json:"platform" validate:"oneof=google facebook tiktok"`
}

func TestErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("create campaign: %w", New(CodeMissingCreatives, "pick a creative"))
	if !errors.Is(err, ErrMissingCreatives) {
		t.Fatalf("errors.Is(%v, ErrMissingCreatives) = false", err)
	}
	if errors.Is(err, ErrInvalidBatchSelection) {
		t.Fatalf("missing creatives must not match invalid batch selection")
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        sampleDraft
		wantField string
	}{
		{name: "valid", in: sampleDraft{Game: "Fish Idle", Budget: 10, Platform: "google"}},
		{name: "unknown game", in: sampleDraft{Game: "Tetris", Budget: 10, Platform: "google"}, wantField: "appName"},
		{name: "negative budget", in: sampleDraft{Game: "Evolution", Budget: -1, Platform: "tiktok"}, wantField: "budget"},
		{name: "bad platform", in: sampleDraft{Game: "Evolution", Budget: 1, Platform: "myspace"}, wantField: "platform"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() error = %v, want *Error", err)
			}
			if verr.Code != CodeInvalidField || verr.Field != tt.wantField {
				t.Fatalf("Struct() = %+v, want field %q", verr, tt.wantField)
			}
		})
	}
}
