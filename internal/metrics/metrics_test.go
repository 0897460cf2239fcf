package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDatasetLoad(t *testing.T) {
	before := testutil.ToFloat64(DatasetLoads.WithLabelValues("csv", "success"))
	RecordDatasetLoad("csv", 42, time.Millisecond, nil)
	if got := testutil.ToFloat64(DatasetLoads.WithLabelValues("csv", "success")); got != before+1 {
		t.Fatalf("success loads = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(DatasetRows); got != 42 {
		t.Fatalf("DatasetRows = %v, want 42", got)
	}

	beforeErr := testutil.ToFloat64(DatasetLoads.WithLabelValues("csv", "error"))
	RecordDatasetLoad("csv", 0, time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(DatasetLoads.WithLabelValues("csv", "error")); got != beforeErr+1 {
		t.Fatalf("error loads = %v, want %v", got, beforeErr+1)
	}
	if got := testutil.ToFloat64(DatasetRows); got != 42 {
		t.Fatalf("failed load changed DatasetRows to %v", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(DatasetCacheHits)
	misses := testutil.ToFloat64(DatasetCacheMisses)
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	if testutil.ToFloat64(DatasetCacheHits) != hits+1 || testutil.ToFloat64(DatasetCacheMisses) != misses+2 {
		t.Fatal("cache counters not updated")
	}
}

func TestRecordHTTPRequestAndPublish(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/zipcode", "200"))
	RecordHTTPRequest("GET", "/zipcode", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/zipcode", "200")); got != before+1 {
		t.Fatalf("requests = %v, want %v", got, before+1)
	}

	RecordPublish(7, nil)
	if got := testutil.ToFloat64(DatasetVersion); got != 7 {
		t.Fatalf("DatasetVersion = %v, want 7", got)
	}
}

func TestMetricsLint(t *testing.T) {
	RecordFilter("address", 10)
	RecordConsume("processed")
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		if len(p.Metric) > 8 && p.Metric[:8] == "trashday" {
			t.Errorf("lint problem in %s: %s", p.Metric, p.Text)
		}
	}
}
