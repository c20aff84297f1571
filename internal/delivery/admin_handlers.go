package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/nikron807/gem/internal/conversation"
	"github.com/nikron807/gem/internal/entitlement"
)

// AdminHandler — HTTP-прослойка для оперативного доступа к состоянию бота:
// посмотреть пользователей, квоты, сбросить историю.
type AdminHandler struct {
	entitlement  entitlement.Store
	conversation conversation.Manager
	log          *logger.ZapLogger
}

func NewAdminHandler(
	ent entitlement.Store,
	conv conversation.Manager,
	log *logger.ZapLogger,
) *AdminHandler {
	return &AdminHandler{
		entitlement:  ent,
		conversation: conv,
		log:          log,
	}
}

// GET /users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.entitlement.ListUsers()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(users)
}

// GET /stats/{telegram_id}
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	tgID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.entitlement.StatsFor(tgID))
}

// DELETE /history/{telegram_id}
func (h *AdminHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	tgID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid telegram_id", http.StatusBadRequest)
		return
	}

	h.conversation.ClearHistory(tgID)

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "history cleared for " + chi.URLParam(r, "telegram_id"),
		Service: "gem",
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
