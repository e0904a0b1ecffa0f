// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// ハンドラー層とミドルウェアから利用する。
type Recorder interface {
	RecordDraw(cardCount int)
	RecordDrawError()
	RecordDrawLatency(duration time.Duration)
	RecordSpreadSaved()
	RecordSpreadConflict()
	RecordLogin(result string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	drawsTotal      prometheus.Counter
	drawErrors      prometheus.Counter
	cardsDrawn      prometheus.Counter
	drawLatency     prometheus.Histogram
	spreadsSaved    prometheus.Counter
	spreadConflicts prometheus.Counter
	logins          *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		drawsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarotman_draws_total",
			Help: "カードドローの合計回数",
		}),
		drawErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarotman_draw_errors_total",
			Help: "失敗したカードドローの合計回数",
		}),
		cardsDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarotman_cards_drawn_total",
			Help: "引かれたカードの合計枚数",
		}),
		drawLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tarotman_draw_latency_seconds",
			Help:    "ドロー処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		spreadsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarotman_spreads_saved_total",
			Help: "保存されたスプレッドの合計数",
		}),
		spreadConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarotman_spread_conflicts_total",
			Help: "1日1回制限により拒否された保存の合計数",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tarotman_logins_total",
			Help: "ログイン結果別の合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tarotman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.drawsTotal,
		c.drawErrors,
		c.cardsDrawn,
		c.drawLatency,
		c.spreadsSaved,
		c.spreadConflicts,
		c.logins,
		c.httpStatus,
	)

	return c
}

// RecordDraw はドローの実行と引かれた枚数を記録する。
func (c *Collector) RecordDraw(cardCount int) {
	c.drawsTotal.Inc()
	c.cardsDrawn.Add(float64(cardCount))
}

// RecordDrawError はドローの失敗を記録する。
func (c *Collector) RecordDrawError() {
	c.drawErrors.Inc()
}

// RecordDrawLatency はドロー処理のレイテンシを記録する。
func (c *Collector) RecordDrawLatency(duration time.Duration) {
	c.drawLatency.Observe(duration.Seconds())
}

// RecordSpreadSaved はスプレッド保存の成功を記録する。
func (c *Collector) RecordSpreadSaved() {
	c.spreadsSaved.Inc()
}

// RecordSpreadConflict は1日1回制限による保存拒否を記録する。
func (c *Collector) RecordSpreadConflict() {
	c.spreadConflicts.Inc()
}

// RecordLogin はログイン結果（created/updated/denied）を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop は何も記録しないRecorder。テストおよびメトリクス無効時に使う。
type Noop struct{}

func (Noop) RecordDraw(int)                  {}
func (Noop) RecordDrawError()                {}
func (Noop) RecordDrawLatency(time.Duration) {}
func (Noop) RecordSpreadSaved()              {}
func (Noop) RecordSpreadConflict()           {}
func (Noop) RecordLogin(string)              {}
func (Noop) RecordHTTPStatus(int)            {}

// compile-time interface check
var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Noop{}
)
