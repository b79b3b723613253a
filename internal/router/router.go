// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"net/http"
	"strings"

	"macrolog/internal/handler"
	"macrolog/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Estimate *handler.EstimateHandler
	Food     *handler.FoodHandler
	Log      *handler.LogHandler
	Frequent *handler.FrequentHandler
	Template *handler.TemplateHandler
	Cache    *handler.CacheHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/estimate", h.Estimate.Estimate)

	// Food routes. /api/foods/frequent and /api/foods/search are fixed
	// segments; everything else under /api/foods/ is a name for DELETE.
	foodRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/foods" || r.URL.Path == "/api/foods/":
			switch r.Method {
			case http.MethodGet:
				h.Food.List(w, r)
			case http.MethodPost:
				h.Food.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		case r.URL.Path == "/api/foods/search":
			h.Food.Search(w, r)
		case r.URL.Path == "/api/foods/frequent":
			h.Frequent.List(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/foods/frequent/"):
			h.Frequent.UpdateServingSize(w, r)
		case r.Method == http.MethodDelete:
			h.Food.Delete(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/foods", foodRouteHandler)
	mux.HandleFunc("/api/foods/", foodRouteHandler)

	// Daily log routes
	logRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/log" || r.URL.Path == "/api/log/":
			switch r.Method {
			case http.MethodGet:
				h.Log.GetByDate(w, r)
			case http.MethodPost:
				h.Log.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
		case r.Method == http.MethodDelete:
			h.Log.Delete(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/log", logRouteHandler)
	mux.HandleFunc("/api/log/", logRouteHandler)

	// Template routes
	templateRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/templates" || r.URL.Path == "/api/templates/" {
			switch r.Method {
			case http.MethodGet:
				h.Template.List(w, r)
			case http.MethodPost:
				h.Template.Create(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.Template.Get(w, r)
		case http.MethodPut:
			h.Template.Update(w, r)
		case http.MethodDelete:
			h.Template.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
	mux.HandleFunc("/api/templates", templateRouteHandler)
	mux.HandleFunc("/api/templates/", templateRouteHandler)

	// Cache routes
	mux.HandleFunc("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Cache.Status(w, r)
		case http.MethodDelete:
			h.Cache.Clear(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/cache/refresh", h.Cache.Refresh)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var root http.Handler = mux
	root = middleware.APIKeyAuth(apiKey, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
