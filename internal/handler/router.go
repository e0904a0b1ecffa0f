package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/tarotman/internal/metrics"
	"github.com/hitoshi/tarotman/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBの部分集合として定義する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// サービス
	DrawService   DrawServiceInterface
	UserService   UserServiceInterface
	SpreadService SpreadServiceInterface

	// 運用系
	HealthChecker HealthChecker
	Metrics       metrics.Recorder
	Gatherer      prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Metrics → Logging → Identity（ソフト検証）
//
// ドローは匿名で利用できるため、認証必須のルートのみRequireIdentityを重ねる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(recorder.RecordHTTPStatus))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewIdentityMiddleware(deps.TokenVerifier))

	cardHandler := NewCardHandler(deps.DrawService, recorder)
	authHandler := NewAuthHandler(deps.UserService, recorder)
	spreadHandler := NewSpreadHandler(deps.SpreadService, recorder)

	// --- 運用系ルート ---

	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証不要のルート ---

	// カードドロー（匿名利用可）
	r.With(deps.RateLimiter.GeneralMiddleware()).
		Get("/api/cards/{count}", cardHandler.Draw)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRequireIdentityMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/api/login", authHandler.Login)

		r.Route("/api/spreads", func(r chi.Router) {
			// PUT /api/spreads - スプレッド保存（保存専用レート制限を追加）
			r.With(deps.RateLimiter.SaveMiddleware()).Put("/", spreadHandler.Save)
			r.Get("/", spreadHandler.ListPast)
		})
	})

	return r
}

// healthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
