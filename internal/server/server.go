package server

import (
	"log/slog"
	"net/http"

	"ctchen222/Starter-Kit/internal/api/controller"
	"ctchen222/Starter-Kit/internal/api/response"
	"ctchen222/Starter-Kit/internal/hub"
	"ctchen222/Starter-Kit/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub             *hub.Hub
	stateController *controller.StateController
	upgrader        websocket.Upgrader
	engine          *gin.Engine
}

func NewServer(h *hub.Hub, stateController *controller.StateController) *Server {
	s := &Server{
		hub:             h,
		stateController: stateController,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.GET("/state", s.stateController.State)
	api.POST("/reset-all", s.stateController.ResetAll)

	counter := api.Group("/counter")
	counter.POST("/increase", s.stateController.Increase)
	counter.POST("/decrease", s.stateController.Decrease)
	counter.POST("/reset", s.stateController.ResetCounter)

	ticTacToe := api.Group("/tictactoe")
	ticTacToe.GET("", s.stateController.TicTacToe)
	ticTacToe.POST("/moves", s.stateController.Move)
	ticTacToe.POST("/reset-round", s.stateController.ResetRound)
	ticTacToe.POST("/reset-stats", s.stateController.ResetStats)
	ticTacToe.GET("/hint", s.stateController.Hint)
}

// Engine returns the gin engine without instrumentation.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped with OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "starter-kit")
}

// handleWebSocket upgrades the connection and hands the player to the hub
// for as long as the connection lives.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
	))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		span.End()
		return
	}

	p := player.NewPlayer(c.Query("playerId"), conn)
	span.SetAttributes(attribute.String("player.id", p.ID))
	span.End()

	s.hub.Serve(ctx, p)
}
