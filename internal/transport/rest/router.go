// Package rest
package rest

import (
	"net/http"

	"xtra-telemetry/internal/config"
	"xtra-telemetry/internal/logger"
	"xtra-telemetry/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Ws        http.HandlerFunc
	Auth      *AuthHandler
	Telemetry *TelemetryHandler
}

func NewRouter(cfg *config.Config, log logger.Logger, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New().
		Use(middleware.Logging(log)).
		Use(middleware.CORS(cfg))

	userStack := middleware.New().Use(middleware.JWT(cfg))

	// HEALTH
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WEBSOCKET
	if deps.Ws != nil {
		mux.HandleFunc("GET /ws", deps.Ws)
	}

	// AUTH
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)

	// TELEMETRY
	mux.Handle("GET /telemetry", userStack.ThenFunc(deps.Telemetry.Snapshot))
	mux.Handle("GET /telemetry/cpu", userStack.ThenFunc(deps.Telemetry.CPU))
	mux.Handle("GET /telemetry/gpu", userStack.ThenFunc(deps.Telemetry.GPU))
	mux.Handle("GET /telemetry/battery", userStack.ThenFunc(deps.Telemetry.Battery))
	mux.Handle("GET /telemetry/battery/apps", userStack.ThenFunc(deps.Telemetry.BatteryApps))
	mux.Handle("GET /telemetry/system", userStack.ThenFunc(deps.Telemetry.System))

	// BATTERY HISTORY
	mux.Handle("GET /battery/current", userStack.ThenFunc(deps.Telemetry.CurrentHistory))

	return globalMw.Then(mux)
}
