package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordGenerationCountsFallbacks(t *testing.T) {
	before := testutil.ToFloat64(GenerationFallbacks.WithLabelValues("image"))
	RecordGeneration("image", "fallback", time.Second)
	RecordGeneration("image", "success", time.Second)

	if got := testutil.ToFloat64(GenerationFallbacks.WithLabelValues("image")); got != before+1 {
		t.Fatalf("fallbacks = %v, want %v", got, before+1)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/library", "200"))
	RecordAPIRequest("GET", "/api/v1/library", "200", 10*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/library", "200")); got != before+1 {
		t.Fatalf("requests = %v, want %v", got, before+1)
	}
}

func TestRecordBatchJob(t *testing.T) {
	RecordBatchJob("merge", "succeeded")
	if got := testutil.ToFloat64(BatchJobs.WithLabelValues("merge", "succeeded")); got < 1 {
		t.Fatalf("batch jobs = %v", got)
	}
}
