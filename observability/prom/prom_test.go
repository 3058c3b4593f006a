package prom

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blockberries/cfdate/observability"
)

func TestConvertObserverExportsMetrics(t *testing.T) {
	reg := NewRegistry()
	obs := NewConvertObserver(reg)

	obs.Call(observability.OpConvert, observability.ResultOK, "ok", 5*time.Millisecond)
	obs.Call(observability.OpConvert, observability.ResultError, "non_finite", time.Millisecond)
	obs.Elements("360_day", 8, 2)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		`cfdate_calls_total{kind="ok",op="convert",result="ok"} 1`,
		`cfdate_calls_total{kind="non_finite",op="convert",result="error"} 1`,
		`cfdate_elements_total{calendar="360_day"} 8`,
		`cfdate_masked_elements_total{calendar="360_day"} 2`,
		`cfdate_call_latency_seconds_count{op="convert"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in scrape output", want)
		}
	}
}
