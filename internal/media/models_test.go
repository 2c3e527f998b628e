package media

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestCloneDoesNotAlias(t *testing.T) {
	orig := &MediaItem{
		ID:         "a",
		Tags:       []string{"x"},
		CPIMetrics: &CPIMetrics{WW: 0.3, USA: 1.2},
		Metadata:   &Metadata{Model: "veo"},
	}
	c := orig.Clone()
	c.Tags[0] = "changed"
	c.CPIMetrics.WW = 9
	c.Metadata.Model = "other"

	if orig.Tags[0] != "x" || orig.CPIMetrics.WW != 0.3 || orig.Metadata.Model != "veo" {
		t.Fatalf("Clone aliases the original: %+v", orig)
	}
}

func TestHasTag(t *testing.T) {
	item := &MediaItem{Tags: []string{"No-BG"}}
	if !item.HasTag(TagNoBackground) {
		t.Fatalf("HasTag(%q) = false", TagNoBackground)
	}
	if item.HasTag(TagMerged) {
		t.Fatalf("HasTag(%q) = true", TagMerged)
	}
}

func TestMediaItemJSONCreatedAtMillis(t *testing.T) {
	at := time.UnixMilli(1700000000123).UTC()
	item := MediaItem{ID: "a", Type: TypeImage, URL: "u", Title: "t", CreatedAt: at, Tags: []string{}}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"createdAt":1700000000123`) {
		t.Fatalf("Marshal() = %s, want createdAt in millis", data)
	}

	var back MediaItem
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.CreatedAt.Equal(at) || back.ID != "a" || back.Type != TypeImage {
		t.Fatalf("Unmarshal() = %+v", back)
	}
}

func TestMediaItemUnmarshalClientBody(t *testing.T) {
	body := `{"id":"dup","type":"VIDEO","url":"u","title":"A","tags":["x"],"appName":"Fish Idle","cpiMetrics":{"ww":0.4,"usa":1.1},"metadata":{"model":"veo"}}`

	var item MediaItem
	if err := json.Unmarshal([]byte(body), &item); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if item.ID != "dup" || item.Type != TypeVideo || item.Game != "Fish Idle" || len(item.Tags) != 1 {
		t.Fatalf("Unmarshal() = %+v", item)
	}
	if item.CPIMetrics == nil || item.CPIMetrics.USA != 1.1 || item.Metadata == nil || item.Metadata.Model != "veo" {
		t.Fatalf("nested fields lost: %+v %+v", item.CPIMetrics, item.Metadata)
	}
	if !item.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt = %v, want zero without createdAt", item.CreatedAt)
	}

	var items []*MediaItem
	if err := json.Unmarshal([]byte("["+body+"]"), &items); err != nil || len(items) != 1 {
		t.Fatalf("Unmarshal(slice) = %v, %v", items, err)
	}
}
