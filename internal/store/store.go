package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ctchen222/Starter-Kit/internal/counter"
	"ctchen222/Starter-Kit/internal/game"
	"ctchen222/Starter-Kit/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("store")
	meter  = otel.Meter("store")
)

// Action names a mutation of the aggregate.
type Action string

const (
	ActionIncrease     Action = "increase"
	ActionDecrease     Action = "decrease"
	ActionResetCounter Action = "reset_counter"
	ActionMove         Action = "move"
	ActionResetGame    Action = "reset_game"
	ActionResetStats   Action = "reset_stats"
	ActionResetAll     Action = "reset_all"
)

// Change is handed to listeners after every accepted mutation.
type Change struct {
	Action   Action
	Snapshot Snapshot
}

// Listener observes accepted mutations. Listeners run while the store is
// locked, so they must not block or call back into the store.
type Listener func(ctx context.Context, change Change)

// Store owns the live aggregate. It serializes every mutation and writes the
// result through to the repository.
type Store struct {
	mu        sync.Mutex
	repo      repository.StateRepository
	state     Snapshot
	listeners []Listener

	moves           metric.Int64Counter
	roundsCompleted metric.Int64Counter
	persistFailures metric.Int64Counter
}

// New creates a store holding the initial aggregate. Call Load to restore
// whatever the repository already holds.
func New(repo repository.StateRepository) (*Store, error) {
	moves, err := meter.Int64Counter("game.moves",
		metric.WithDescription("Moves submitted to the tic-tac-toe game"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	roundsCompleted, err := meter.Int64Counter("game.rounds.completed",
		metric.WithDescription("Rounds that ended in a win or a draw"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rounds counter: %w", err)
	}
	persistFailures, err := meter.Int64Counter("store.persist.failures",
		metric.WithDescription("Snapshots that could not be written to storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to create persist failures counter: %w", err)
	}

	return &Store{
		repo:            repo,
		state:           NewSnapshot(),
		moves:           moves,
		roundsCompleted: roundsCompleted,
		persistFailures: persistFailures,
	}, nil
}

// Load restores the aggregate from the repository. Missing or corrupt data
// leaves the initial aggregate in place. A repository failure is returned
// after falling back to the initial aggregate.
func (s *Store) Load(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Store.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewSnapshot()

	data, err := s.repo.Load(ctx)
	if errors.Is(err, repository.ErrStateNotFound) {
		slog.InfoContext(ctx, "No stored state, starting fresh")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load state")
		return fmt.Errorf("failed to load state: %w", err)
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		slog.WarnContext(ctx, "Stored state is corrupt, starting fresh", "error", err)
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("state.corrupt", true))
		return nil
	}

	s.state = snap
	slog.InfoContext(ctx, "Restored stored state",
		"counter.count", snap.Count,
		"game.played", snap.TicTacToe.GamesPlayed,
	)
	return nil
}

// Subscribe registers l for every accepted mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot returns a copy of the current aggregate.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Increase(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionIncrease, func(snap Snapshot) Snapshot {
		snap.Counter = counter.Increase(snap.Counter)
		return snap
	})
}

func (s *Store) Decrease(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionDecrease, func(snap Snapshot) Snapshot {
		snap.Counter = counter.Decrease(snap.Counter)
		return snap
	})
}

func (s *Store) ResetCounter(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionResetCounter, func(snap Snapshot) Snapshot {
		snap.Counter = counter.Reset(snap.Counter)
		return snap
	})
}

// ResetGame starts a new round and keeps the statistics.
func (s *Store) ResetGame(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionResetGame, func(snap Snapshot) Snapshot {
		snap.TicTacToe = game.ResetRound(snap.TicTacToe)
		return snap
	})
}

// ResetStats clears the statistics and keeps the board.
func (s *Store) ResetStats(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionResetStats, func(snap Snapshot) Snapshot {
		snap.TicTacToe = game.ResetStatistics(snap.TicTacToe)
		return snap
	})
}

// ResetAll resets the round, the statistics and the counter in one step.
func (s *Store) ResetAll(ctx context.Context) Snapshot {
	return s.mutate(ctx, ActionResetAll, func(snap Snapshot) Snapshot {
		snap.TicTacToe = game.ResetStatistics(game.ResetRound(snap.TicTacToe))
		snap.Counter = counter.Reset(snap.Counter)
		return snap
	})
}

// MakeMove plays cell for the current player. A rejected move returns the
// unchanged aggregate together with the reason and is neither stored nor
// announced.
func (s *Store) MakeMove(ctx context.Context, cell int) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Store.MakeMove", trace.WithAttributes(
		attribute.Int("cell.index", cell),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.TicTacToe
	next, err := game.TryMove(before, cell)
	s.moves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("accepted", err == nil)))
	if err != nil {
		slog.DebugContext(ctx, "Move rejected", "cell.index", cell, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.SetStatus(codes.Error, err.Error())
		return s.state, err
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	if next.IsOver {
		s.roundsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(next.Round))))
		slog.InfoContext(ctx, "Round finished", "game.phase", next.Phase(), "game.winner", next.Winner)
	}

	snap := s.state
	snap.TicTacToe = next
	s.commit(ctx, ActionMove, snap)
	return snap, nil
}

func (s *Store) mutate(ctx context.Context, action Action, fn func(Snapshot) Snapshot) Snapshot {
	ctx, span := tracer.Start(ctx, spanName(action))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := fn(s.state)
	s.commit(ctx, action, snap)
	return snap
}

// commit installs snap, persists it and notifies listeners. s.mu must be held.
func (s *Store) commit(ctx context.Context, action Action, snap Snapshot) {
	s.state = snap
	s.persist(ctx, action)

	change := Change{Action: action, Snapshot: snap}
	for _, l := range s.listeners {
		l(ctx, change)
	}
}

func (s *Store) persist(ctx context.Context, action Action) {
	data, err := s.state.Encode()
	if err == nil {
		err = s.repo.Save(ctx, data)
	}
	if err != nil {
		s.persistFailures.Add(ctx, 1)
		slog.ErrorContext(ctx, "Failed to persist state", "store.action", action, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func spanName(action Action) string {
	switch action {
	case ActionIncrease:
		return "Store.Increase"
	case ActionDecrease:
		return "Store.Decrease"
	case ActionResetCounter:
		return "Store.ResetCounter"
	case ActionResetGame:
		return "Store.ResetGame"
	case ActionResetStats:
		return "Store.ResetStats"
	case ActionResetAll:
		return "Store.ResetAll"
	default:
		return "Store." + string(action)
	}
}

func outcome(r game.Round) string {
	switch r.Winner {
	case game.PlayerX:
		return "x"
	case game.PlayerO:
		return "o"
	default:
		return "draw"
	}
}
