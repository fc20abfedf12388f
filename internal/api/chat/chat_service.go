package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly/go-tour-guide/internal/api/itinerary"
	"github.com/wanderly/go-tour-guide/internal/api/poi"
	"github.com/wanderly/go-tour-guide/internal/types"
)

// maxHistoryTurns bounds the conversation context sent to the model.
const maxHistoryTurns = 10

// ErrSessionBusy is returned while a refinement for the same session is
// still in flight.
var ErrSessionBusy = errors.New("a refinement for this session is already in progress")

var _ Service = (*ServiceImpl)(nil)

// Service defines the conversational refinement contract.
type Service interface {
	RefineItinerary(ctx context.Context, req types.ChatItineraryRequest) (*types.ChatItineraryResponse, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	collector   poi.CollectorService
	model       itinerary.ModelClient
	temperature float32
	poolLimit   int

	// Idle/Applying per session: a session is Applying while its ID is in
	// the set. State lives in process memory only; the pipeline itself is
	// stateless per call.
	mu       sync.Mutex
	applying map[string]struct{}
}

func NewServiceImpl(collector poi.CollectorService, model itinerary.ModelClient, temperature float32, poolLimit int, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		collector:   collector,
		model:       model,
		temperature: temperature,
		poolLimit:   poolLimit,
		applying:    make(map[string]struct{}),
	}
}

// refineEnvelope is the model's expected reply shape.
type refineEnvelope struct {
	Reply     string          `json:"reply"`
	Itinerary json.RawMessage `json:"itinerary"`
}

// RefineItinerary applies one conversational edit. The candidate pool is
// recollected for the destination, the model-or-fallback path runs, and the
// result is repaired; the previous itinerary is discarded wholesale.
func (s *ServiceImpl) RefineItinerary(ctx context.Context, req types.ChatItineraryRequest) (*types.ChatItineraryResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "RefineItinerary", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.Days),
	))
	defer span.End()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	l := s.logger.With(slog.String("session_id", sessionID), slog.String("destination", req.Destination))

	if !s.beginApplying(sessionID) {
		span.SetStatus(codes.Error, "Session busy")
		return nil, ErrSessionBusy
	}
	defer s.endApplying(sessionID)

	days := itinerary.ClampDays(req.Days)
	history := req.Messages
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	pool, err := s.collector.CollectCandidates(ctx, req.Destination, req.Preferences)
	if err != nil {
		l.WarnContext(ctx, "Candidate collection failed during refinement", slog.Any("error", err))
		pool = nil
	}

	result, reply := s.refineWithModel(ctx, l, req, history, pool, days)
	if result == nil {
		result, _ = itinerary.BuildFallback(pool, req.Destination, days, req.StartDate)
		reply = fmt.Sprintf("I could not reach the planner model just now, so I rebuilt the %d-day plan for %s from the places I know are real.", days, req.Destination)
	}

	repaired, dropped := itinerary.Repair(result, pool, req.Destination, days, req.StartDate)

	span.SetAttributes(attribute.Int("repair.dropped", dropped))
	span.SetStatus(codes.Ok, "Itinerary refined")
	l.InfoContext(ctx, "Itinerary refined", slog.Int("dropped_items", dropped))

	return &types.ChatItineraryResponse{
		SessionID: sessionID,
		Reply:     reply,
		Itinerary: repaired,
	}, nil
}

func (s *ServiceImpl) refineWithModel(ctx context.Context, l *slog.Logger, req types.ChatItineraryRequest, history []types.ChatMessage, pool []types.PoiCandidate, days int) (*types.ItineraryResponse, string) {
	if s.model == nil || len(pool) == 0 {
		return nil, ""
	}

	prompt := itinerary.BuildRefinePrompt(req.Itinerary, history, req.Message, req.Destination, days, req.StartDate, pool, s.poolLimit)
	text, err := s.model.GenerateContent(ctx, prompt, itinerary.GenerateConfig(s.temperature))
	if err != nil {
		l.WarnContext(ctx, "Model refinement call failed", slog.Any("error", err))
		return nil, ""
	}

	var envelope refineEnvelope
	if err := json.Unmarshal([]byte(itinerary.CleanModelJSON(text)), &envelope); err != nil {
		l.WarnContext(ctx, "Model refinement payload unparseable", slog.Any("error", err))
		return nil, ""
	}

	result := itinerary.ParseModelItinerary(string(envelope.Itinerary))
	if result == nil {
		return nil, ""
	}
	reply := envelope.Reply
	if reply == "" {
		reply = "I updated the itinerary based on your request."
	}
	return result, reply
}

func (s *ServiceImpl) beginApplying(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.applying[sessionID]; busy {
		return false
	}
	s.applying[sessionID] = struct{}{}
	return true
}

func (s *ServiceImpl) endApplying(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applying, sessionID)
}
