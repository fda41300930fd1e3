package httpapi

import (
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/ai"
	"github.com/foodz/foodz-api/internal/logging"
	"github.com/foodz/foodz-api/internal/requestid"
)

// GenerateReply forwards a message and its context to the AI provider.
// Provider failures surface as 500 with the error text.
func (h *Handler) GenerateReply(w http.ResponseWriter, r *http.Request) {
	var req ai.GenerationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	client := clientID(r)
	allowed, err := h.limiter.Allow(r.Context(), client)
	if err != nil || !allowed {
		wait := h.limiter.RetryAfter(r.Context(), client)
		w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())))
		writeDetail(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	ctx, span := h.tracer.Start(r.Context(), "ai.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request_id", requestid.From(ctx)),
		attribute.Int("context_entries", len(req.Context)),
	)

	result, err := h.ai.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx, h.logger).Error("ai generation failed", zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result.TokensUsed != nil {
		span.SetAttributes(attribute.Int("tokens_used", *result.TokensUsed))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) AIHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ai.Health(r.Context()))
}
