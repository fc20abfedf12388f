package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/wanderly/go-tour-guide/internal/api"
	"github.com/wanderly/go-tour-guide/internal/types"
)

type Handler struct {
	chatService Service
	logger      *slog.Logger
}

func NewHandler(chatService Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatService: chatService,
		logger:      logger,
	}
}

// Refine applies one conversational edit to an itinerary.
func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "Refine", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Refine"))
	l.DebugContext(ctx, "Refine itinerary handler invoked")

	var req types.ChatItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Destination) == "" {
		l.ErrorContext(ctx, "Destination is required")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Destination is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		l.ErrorContext(ctx, "Message is required")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message is required")
		return
	}

	resp, err := h.chatService.RefineItinerary(ctx, req)
	if err != nil {
		if errors.Is(err, ErrSessionBusy) {
			l.WarnContext(ctx, "Refinement already in progress for session")
			api.ErrorResponse(w, r, http.StatusConflict, "A refinement for this session is already in progress")
			return
		}
		l.ErrorContext(ctx, "Failed to refine itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refine itinerary")
		return
	}

	l.InfoContext(ctx, "Itinerary refined successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
