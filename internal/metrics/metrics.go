// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordSignup()
	RecordSignin()
	RecordPostCreated(mediaType string)
	RecordEngagement(kind string)
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups         prometheus.Counter
	signins         prometheus.Counter
	postsCreated    *prometheus.CounterVec
	engagements     *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edugram_signups_total",
			Help: "ユーザー登録の合計数",
		}),
		signins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edugram_signins_total",
			Help: "サインイン成功の合計数",
		}),
		postsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edugram_posts_created_total",
			Help: "メディア種別ごとの投稿作成数",
		}, []string{"media_type"}),
		engagements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edugram_engagements_total",
			Help: "種別（like, unlike, comment, follow, unfollow）ごとのエンゲージメント数",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edugram_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "edugram_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.signups,
		c.signins,
		c.postsCreated,
		c.engagements,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordSignup はユーザー登録を記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordSignin はサインイン成功を記録する。
func (c *Collector) RecordSignin() {
	c.signins.Inc()
}

// RecordPostCreated は投稿作成を記録する。
func (c *Collector) RecordPostCreated(mediaType string) {
	c.postsCreated.WithLabelValues(mediaType).Inc()
}

// RecordEngagement はエンゲージメント操作を記録する。
func (c *Collector) RecordEngagement(kind string) {
	c.engagements.WithLabelValues(kind).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
