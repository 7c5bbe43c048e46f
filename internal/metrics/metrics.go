// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 認証サービス・ノートサービス・ロギングミドルウェアから利用する。
type Collector struct {
	loginSuccess    prometheus.Counter
	newUsers        prometheus.Counter
	authFailures    prometheus.Counter
	notesCreated    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		newUsers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_new_users_total",
			Help: "初回ログインで作成されたユーザーの合計数",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_auth_failures_total",
			Help: "トークン検証失敗の合計数",
		}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_notes_created_total",
			Help: "作成されたノートの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "noteman_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.newUsers,
		c.authFailures,
		c.notesCreated,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordNewUser は新規ユーザー作成を記録する。
func (c *Collector) RecordNewUser() {
	c.newUsers.Inc()
}

// RecordAuthFailure はトークン検証失敗を記録する。
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Inc()
}

// RecordNoteCreated はノート作成を記録する。
func (c *Collector) RecordNoteCreated() {
	c.notesCreated.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
