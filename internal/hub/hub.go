package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/Starter-Kit/internal/bot"
	"ctchen222/Starter-Kit/internal/events"
	"ctchen222/Starter-Kit/internal/game"
	"ctchen222/Starter-Kit/internal/player"
	"ctchen222/Starter-Kit/internal/store"
	"ctchen222/Starter-Kit/internal/validator"
	"ctchen222/Starter-Kit/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

const broadcastBufferSize = 64

type directMessage struct {
	player *player.Player
	data   []byte
}

// Hub keeps track of connected players and pushes every store change to
// them. All writes to players go through the Run goroutine.
type Hub struct {
	store      *store.Store
	bot        *bot.MoveCalculator
	difficulty bot.Difficulty

	players    map[string]*player.Player
	register   chan *player.Player
	unregister chan *player.Player
	broadcast  chan []byte
	direct     chan directMessage
	done       chan struct{}
}

// NewHub creates a new hub and subscribes it to st.
func NewHub(st *store.Store, calc *bot.MoveCalculator, difficulty bot.Difficulty) *Hub {
	h := &Hub{
		store:      st,
		bot:        calc,
		difficulty: difficulty,
		players:    make(map[string]*player.Player),
		register:   make(chan *player.Player),
		unregister: make(chan *player.Player),
		broadcast:  make(chan []byte, broadcastBufferSize),
		direct:     make(chan directMessage, broadcastBufferSize),
		done:       make(chan struct{}),
	}
	st.Subscribe(h.onChange)
	return h
}

// Run starts the hub and blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for id, p := range h.players {
				p.Close()
				delete(h.players, id)
			}
			slog.InfoContext(ctx, "Hub stopped")
			return

		case p := <-h.register:
			h.players[p.ID] = p
			slog.InfoContext(ctx, "Player connected", "player.id", p.ID, "players.count", len(h.players))

			snap := h.store.Snapshot()
			data, err := json.Marshal(&proto.ServerToClientMessage{Type: events.State, State: &snap})
			if err != nil {
				slog.ErrorContext(ctx, "Error marshalling initial state", "error", err)
				continue
			}
			h.deliver(ctx, p, data)

		case p := <-h.unregister:
			if _, ok := h.players[p.ID]; ok {
				delete(h.players, p.ID)
				p.Close()
				slog.InfoContext(ctx, "Player disconnected", "player.id", p.ID, "players.count", len(h.players))
			}

		case data := <-h.broadcast:
			for _, p := range h.players {
				h.deliver(ctx, p, data)
			}

		case msg := <-h.direct:
			if _, ok := h.players[msg.player.ID]; ok {
				h.deliver(ctx, msg.player, msg.data)
			}
		}
	}
}

// deliver drops players that cannot keep up.
func (h *Hub) deliver(ctx context.Context, p *player.Player, data []byte) {
	if p.Enqueue(data) {
		return
	}
	slog.WarnContext(ctx, "Player send buffer full, dropping connection", "player.id", p.ID)
	delete(h.players, p.ID)
	p.Close()
}

// Serve registers p, pumps its messages into the store and unregisters it
// when the connection ends. It blocks until then.
func (h *Hub) Serve(ctx context.Context, p *player.Player) {
	go p.WritePump()

	select {
	case h.register <- p:
	case <-h.done:
		p.Close()
		return
	}
	defer func() {
		select {
		case h.unregister <- p:
		case <-h.done:
		}
	}()

	h.ReadPump(ctx, p)
}

// ReadPump reads client messages until the connection fails.
func (h *Hub) ReadPump(ctx context.Context, p *player.Player) {
	for {
		_, raw, err := p.Conn.ReadMessage()
		if err != nil {
			slog.DebugContext(ctx, "Player connection closed", "player.id", p.ID, "error", err)
			return
		}
		h.HandleMessage(ctx, p, raw)
	}
}

// HandleMessage decodes one client message and applies it to the store.
func (h *Hub) HandleMessage(ctx context.Context, p *player.Player, raw []byte) {
	ctx, span := tracer.Start(ctx, "hub.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "Error unmarshalling message", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Reason: events.ReasonMalformed})
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "Invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Reason: err.Error()})
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case events.Move:
		h.handleMove(ctx, p, &message)
	case events.ResetRound:
		h.store.ResetGame(ctx)
	case events.ResetStats:
		h.store.ResetStats(ctx)
	case events.ResetAll:
		h.store.ResetAll(ctx)
	case events.Hint:
		h.handleHint(ctx, p, &message)
	default:
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Reason: events.ReasonUnknownAction})
	}
}

func (h *Hub) handleMove(ctx context.Context, p *player.Player, message *proto.ClientToServerMessage) {
	if message.Cell == nil {
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Reason: events.ReasonCellRequired})
		return
	}

	if _, err := h.store.MakeMove(ctx, *message.Cell); err != nil {
		reason := err.Error()
		if errors.Is(err, game.ErrCorruptState) {
			slog.ErrorContext(ctx, "Move on corrupt state", "player.id", p.ID, "error", err)
		}
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Action: events.Move, Reason: reason})
	}
}

func (h *Hub) handleHint(ctx context.Context, p *player.Player, message *proto.ClientToServerMessage) {
	difficulty := h.difficulty
	if message.Difficulty != "" {
		difficulty = bot.Difficulty(message.Difficulty)
	}

	match := h.store.Snapshot().TicTacToe
	if match.IsOver {
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Action: events.Hint, Reason: game.ErrGameFinished.Error()})
		return
	}

	cell := h.bot.CalculateNextMove(match.Board, match.CurrentPlayer, difficulty)
	if cell < 0 {
		h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Error, Action: events.Hint, Reason: events.ReasonNoEmptyCell})
		return
	}
	h.reply(ctx, p, &proto.ServerToClientMessage{Type: events.Hint, Hint: &cell, Difficulty: string(difficulty)})
}

func (h *Hub) reply(ctx context.Context, p *player.Player, message *proto.ServerToClientMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling reply", "player.id", p.ID, "error", err)
		return
	}

	select {
	case h.direct <- directMessage{player: p, data: data}:
	case <-h.done:
	}
}

// onChange runs under the store lock, so it never waits on the Run loop.
func (h *Hub) onChange(ctx context.Context, change store.Change) {
	snap := change.Snapshot
	data, err := json.Marshal(&proto.ServerToClientMessage{
		Type:   events.State,
		Action: string(change.Action),
		State:  &snap,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling state", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		slog.WarnContext(ctx, "Broadcast buffer full, dropping state update", "store.action", change.Action)
	}
}
