package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestRecordSignup_IncrementsCounter はサインアップカウンタが増加することを検証する。
func TestRecordSignup_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup()
	c.RecordSignup()

	if got := counterValue(t, reg, "edugram_signups_total"); got != 2 {
		t.Errorf("signups_total = %v, want 2", got)
	}
}

// TestRecordSignin_IncrementsCounter はサインインカウンタが増加することを検証する。
func TestRecordSignin_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignin()

	if got := counterValue(t, reg, "edugram_signins_total"); got != 1 {
		t.Errorf("signins_total = %v, want 1", got)
	}
}

// TestRecordPostCreated_LabelsByMediaType は投稿作成カウンタがメディア種別
// ラベルごとに増加することを検証する。
func TestRecordPostCreated_LabelsByMediaType(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPostCreated("image")
	c.RecordPostCreated("image")
	c.RecordPostCreated("video")

	if got := counterValue(t, reg, "edugram_posts_created_total"); got != 3 {
		t.Errorf("posts_created_total = %v, want 3", got)
	}
}

// TestRecordEngagement_IncrementsCounter はエンゲージメントカウンタが
// 種別ラベルごとに増加することを検証する。
func TestRecordEngagement_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEngagement("like")
	c.RecordEngagement("comment")

	if got := counterValue(t, reg, "edugram_engagements_total"); got != 2 {
		t.Errorf("engagements_total = %v, want 2", got)
	}
}

// TestRecordHTTPStatus_IncrementsCounter はHTTPステータスカウンタが増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := counterValue(t, reg, "edugram_http_status_total"); got != 2 {
		t.Errorf("http_status_total = %v, want 2", got)
	}
}

// TestRecordRequestDuration_Observes はリクエスト時間ヒストグラムに
// 観測値が記録されることを検証する。
func TestRecordRequestDuration_Observes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestDuration(120 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range metrics {
		if mf.GetName() == "edugram_request_duration_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("edugram_request_duration_seconds metric not found")
	}
}

// TestHandler_ServesPrometheusFormat は/metricsハンドラーがPrometheus
// テキストフォーマットでメトリクスを返すことを検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "edugram_signups_total") {
		t.Error("response should contain edugram_signups_total")
	}
}
