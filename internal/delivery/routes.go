package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(r chi.Router, h *AdminHandler, adminToken string) {
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// --- admin ---
	r.Route("/", func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			httprate.LimitByIP(30, time.Minute),
			AdminAuthMiddleware(adminToken),
		)

		pr.Get("/users", h.ListUsers)
		pr.Get("/stats/{telegram_id}", h.GetStats)
		pr.Delete("/history/{telegram_id}", h.ClearHistory)
	})
}
