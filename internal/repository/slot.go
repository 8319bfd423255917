package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jannathh/Scentify-Project/internal/repository"

// DefaultTimeout bounds a slot call when none is configured.
const DefaultTimeout = 2 * time.Second

// LoadStatus tells a store why Load returned what it did.
type LoadStatus int

const (
	LoadHit LoadStatus = iota
	LoadMissing
	LoadCorrupt
	LoadUnavailable
)

func (s LoadStatus) String() string {
	switch s {
	case LoadHit:
		return "hit"
	case LoadMissing:
		return "missing"
	case LoadCorrupt:
		return "corrupt"
	case LoadUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Slot is one typed JSON document of one client. A nil backend behaves like
// absent storage: loads return the default and saves fail with ErrNoBackend.
type Slot[T any] struct {
	backend Backend
	key     string
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

// SlotOption customises a Slot.
type SlotOption func(*slotOptions)

type slotOptions struct {
	timeout time.Duration
	logger  *slog.Logger
}

// WithTimeout bounds every backend call.
func WithTimeout(d time.Duration) SlotOption {
	return func(o *slotOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) SlotOption {
	return func(o *slotOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewSlot binds the named slot of clientID to backend.
func NewSlot[T any](backend Backend, clientID, name string, opts ...SlotOption) *Slot[T] {
	o := slotOptions{timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Slot[T]{
		backend: backend,
		key:     Key(clientID, name),
		name:    name,
		timeout: o.timeout,
		logger:  o.logger,
	}
}

func (s *Slot[T]) Name() string { return s.name }

// Load reads the slot. It never fails: a missing, corrupt or unreachable slot
// yields def together with the reason.
func (s *Slot[T]) Load(ctx context.Context, def T) (T, LoadStatus) {
	if s.backend == nil {
		recordSlotOp(s.name, "load", LoadUnavailable.String())
		return def, LoadUnavailable
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	ctx, span := s.startSpan(ctx, "load")
	defer span.End()

	data, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return s.loaded(span, def, LoadMissing)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "slot load failed, starting empty",
			slog.String("slot", s.name),
			slog.String("error", err.Error()),
		)
		return s.loaded(span, def, LoadUnavailable)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.WarnContext(ctx, "slot holds malformed JSON, starting empty",
			slog.String("slot", s.name),
			slog.String("error", err.Error()),
		)
		return s.loaded(span, def, LoadCorrupt)
	}
	return s.loaded(span, v, LoadHit)
}

func (s *Slot[T]) loaded(span trace.Span, v T, status LoadStatus) (T, LoadStatus) {
	span.SetAttributes(attribute.String("slot.status", status.String()))
	recordSlotOp(s.name, "load", status.String())
	return v, status
}

// Save writes v. The error is for the owning store to record; callers of the
// store never see it.
func (s *Slot[T]) Save(ctx context.Context, v T) (err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		recordSlotOp(s.name, "save", result)
	}()

	if s.backend == nil {
		return ErrNoBackend
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s slot: %w", s.name, err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	ctx, span := s.startSpan(ctx, "save")
	defer span.End()

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("save %s slot: %w", s.name, err)
	}
	return nil
}

// bound detaches ctx from request cancellation so a write started by a command
// finishes even if the client hangs up, and caps it at the slot timeout.
func (s *Slot[T]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

func (s *Slot[T]) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "slot."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("slot.name", s.name)),
	)
}
