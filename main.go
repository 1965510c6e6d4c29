package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-client/internal/chat"
	"chat-client/internal/handlers"
	"chat-client/internal/middleware"
	"chat-client/internal/observability"
	"chat-client/internal/roomservice"
	"chat-client/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverURL := getEnv("ROOM_SERVER_URL", "http://localhost:8080")
	statePath := getEnv("STATE_DB_PATH", "chat-client.db")
	otlpEndpoint := getEnv("OTLP_ENDPOINT", "")

	shutdownTracing, err := observability.SetupTracing(ctx, "chat-client", otlpEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	store, err := session.OpenStore(statePath)
	if err != nil {
		log.Fatalf("failed to open state store: %v", err)
	}
	defer store.Close()

	sessions := session.NewManager(store, func(creds *roomservice.Credentials) roomservice.Service {
		return roomservice.NewHTTPService(serverURL, creds)
	})
	defer sessions.Close()

	// One chat context exists per active session. It is swapped in on
	// login/resume and torn down on logout.
	var mu sync.Mutex
	var chatCtx *chat.Context

	activate := func() {
		mu.Lock()
		defer mu.Unlock()
		if chatCtx != nil {
			chatCtx.Close()
		}
		chatCtx = chat.NewContext(sessions.Adapter())
	}
	deactivate := func() {
		mu.Lock()
		defer mu.Unlock()
		if chatCtx != nil {
			chatCtx.Close()
			chatCtx = nil
		}
	}
	currentChat := func() handlers.ChatAPI {
		mu.Lock()
		defer mu.Unlock()
		if chatCtx == nil {
			return nil
		}
		return chatCtx
	}

	if err := sessions.Resume(ctx); err != nil {
		if !session.IsNoCredentials(err) {
			log.Printf("session resume failed: %v", err)
		}
	} else {
		activate()
		log.Printf("resumed session for %s", sessions.UserID())
	}

	authHandler := handlers.NewAuthHandler(sessions, activate, deactivate)
	roomHandler := handlers.NewRoomHandler(currentChat)
	messageHandler := handlers.NewMessageHandler(currentChat)
	accountHandler := handlers.NewAccountHandler(currentChat)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("chat-client"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/auth/whoami", authHandler.WhoAmI)

	authorized := router.Group("/", middleware.SessionRequired(sessions))

	authorized.POST("/auth/logout", authHandler.Logout)

	authorized.GET("/rooms", roomHandler.ListRooms)
	authorized.POST("/rooms", roomHandler.CreateRoom)
	authorized.POST("/rooms/refresh", roomHandler.RefreshRooms)
	authorized.POST("/rooms/direct", roomHandler.StartDirect)
	authorized.POST("/rooms/:room_id/join", roomHandler.JoinRoom)
	authorized.POST("/rooms/:room_id/leave", roomHandler.LeaveRoom)
	authorized.POST("/rooms/:room_id/accept", roomHandler.AcceptInvitation)
	authorized.POST("/rooms/:room_id/decline", roomHandler.DeclineInvitation)
	authorized.POST("/rooms/:room_id/invite", roomHandler.InviteUser)
	authorized.POST("/rooms/:room_id/kick", roomHandler.KickUser)
	authorized.DELETE("/rooms/:room_id", roomHandler.DeleteRoom)

	authorized.GET("/rooms/:room_id/messages", messageHandler.ListMessages)
	authorized.POST("/rooms/:room_id/messages", messageHandler.SendMessage)
	authorized.DELETE("/rooms/:room_id/messages/:event_id", messageHandler.DeleteMessage)
	authorized.POST("/rooms/:room_id/upload", messageHandler.UploadFile)
	authorized.GET("/media", messageHandler.FetchMedia)

	authorized.GET("/users/search", roomHandler.SearchUsers)

	authorized.POST("/account/password", accountHandler.ChangePassword)
	authorized.POST("/account/display-name", accountHandler.ChangeDisplayName)
	authorized.POST("/account/avatar", accountHandler.ChangeAvatar)

	port := getEnv("PORT", "8090")
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("listening on :%s", port)

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	deactivate()
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
