package middleware

import "net/http"

// StatusRecorderFunc はレスポンスのステータスコードを受け取るコールバック。
type StatusRecorderFunc func(statusCode int)

// NewMetricsMiddleware はレスポンスのステータスコードをメトリクスとして
// 記録するミドルウェアを返す。
func NewMetricsMiddleware(record StatusRecorderFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(rec, r)
			record(rec.statusCode)
		})
	}
}
