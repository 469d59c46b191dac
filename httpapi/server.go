// Package httpapi exposes the HTTP and websocket surface of the server.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pairchat/auth"
	"pairchat/errors"
	"pairchat/runtime"
	"pairchat/services"
)

type Server struct {
	log                  *slog.Logger
	engine               *gin.Engine
	hub                  *runtime.Hub
	authService          services.IAuthService
	chatService          services.IChatService
	tokens               *auth.TokenManager
	upgrader             websocket.Upgrader
	connectionBufferSize int
	writeTimeout         time.Duration
}

func NewServer(log *slog.Logger, hub *runtime.Hub, authService services.IAuthService,
	chatService services.IChatService, tokens *auth.TokenManager,
	connectionBufferSize int, writeTimeout time.Duration, assetDir string) *Server {
	s := &Server{
		log:         log,
		hub:         hub,
		authService: authService,
		chatService: chatService,
		tokens:      tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers enforce same-origin for the rest of the API via the
			// cookie; the socket itself is open like the original deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connectionBufferSize: connectionBufferSize,
		writeTimeout:         writeTimeout,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.handleSignup)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/logout", s.handleLogout)

	authProtected := api.Group("/auth")
	authProtected.Use(auth.Middleware(tokens))
	authProtected.GET("/check", s.handleCheckAuth)
	authProtected.PUT("/update-profile", s.handleUpdateProfile)

	messageGroup := api.Group("/message")
	messageGroup.Use(auth.Middleware(tokens))
	messageGroup.GET("/users", s.handleContacts)
	messageGroup.GET("/chats/:id", s.handleGetConversation)
	messageGroup.POST("/send/:id", s.handleSendMessage)

	engine.Static("/assets", assetDir)
	engine.GET("/ws", s.handleSocket)

	s.engine = engine
	return s
}

// Handler returns the root http.Handler for the server lifecycle.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// respondError maps a service error onto its HTTP status. Internal
// failures are logged here, once, instead of at every call site.
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
