package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/nikron807/gem/internal/ai"
	"github.com/nikron807/gem/internal/conversation"
	"github.com/nikron807/gem/internal/delivery"
	"github.com/nikron807/gem/internal/entitlement"
	"github.com/nikron807/gem/internal/notify"
	"github.com/nikron807/gem/internal/session"
	"github.com/nikron807/gem/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("TELEGRAM_TOKEN") == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	adminChatID, _ := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// STORES (всё состояние живёт в памяти процесса)
	// =========================================================================

	entitlementStore := entitlement.NewStore()
	pendingStore := session.NewStore()

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	errInfra := notify.NewInfra(nil, adminChatID)
	errService := notify.NewService(errInfra)

	// =========================================================================
	// CLIENTS / DOMAIN SERVICES
	// =========================================================================

	geminiClient := ai.NewGeminiClient()

	conversationService := conversation.NewService(
		geminiClient,
		entitlementStore,
		errService,
	)

	// =========================================================================
	// TELEGRAM BOT
	// =========================================================================

	botApp := telegram.NewBotApp(
		entitlementStore,
		conversationService,
		pendingStore,
		errService,
	)

	if err := botApp.InitBot(); err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}

	errInfra.SetBot(botApp.GetBot())

	go botApp.Run()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
	}))

	adminHandler := delivery.NewAdminHandler(entitlementStore, conversationService, zl)
	delivery.RegisterRoutes(r, adminHandler, os.Getenv("ADMIN_TOKEN"))

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if n := pendingStore.CleanupExpired(); n > 0 {
				log.Printf("[cleanup-pending] removed %d stale tier selections", n)
			}
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "gem",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
