package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todolists/internal/core/port"
)

const tracerName = "todolists"

// OTELProbe implements port.Telemetry on top of OpenTelemetry.
type OTELProbe struct {
	logger *slog.Logger
}

func NewOTELProbe(logger *slog.Logger) port.Telemetry {
	return &OTELProbe{logger: logger}
}

// otelSpan adapts a trace.Span to the generic port.Span surface.
type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toOtelAttrs(attrs)...)
}

func (s *otelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toOtelAttrs(attrs map[string]interface{}) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			out = append(out, attribute.String(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case int64:
			out = append(out, attribute.Int64(key, v))
		case float64:
			out = append(out, attribute.Float64(key, v))
		case bool:
			out = append(out, attribute.Bool(key, v))
		default:
			out = append(out, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return out
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}
	standardAttrs = append(standardAttrs, toOtelAttrs(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &otelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, userID int64, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.Int64("user.id", userID),
		attribute.String("component", "service"),
	}
	standardAttrs = append(standardAttrs, toOtelAttrs(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &otelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	if err != nil && p.logger != nil {
		p.logger.Error("repository operation failed",
			"operation", operation,
			"entity", entity,
			"duration", duration,
			"error", err,
		)
	}
}

func (p *OTELProbe) RecordRepositoryQuery(ctx context.Context, operation string, entity string, query string, args []interface{}) {
	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		span.AddEvent("db.query", trace.WithAttributes(
			attribute.String("db.statement", query),
			attribute.Int("db.args_count", len(args)),
			attribute.String("repository.entity", entity),
			attribute.String("repository.operation", operation),
		))
	}
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, userID int64, duration time.Duration, err error) {
	if err != nil && p.logger != nil {
		p.logger.Error("service operation failed",
			"service", service,
			"operation", operation,
			"user_id", userID,
			"duration", duration,
			"error", err,
		)
	}
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, userID int64, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		attrs := []attribute.KeyValue{
			attribute.String("event", event),
			attribute.String("entity", entity),
			attribute.String("entity.id", entityID),
			attribute.Int64("user.id", userID),
		}
		attrs = append(attrs, toOtelAttrs(metadata)...)
		span.AddEvent(fmt.Sprintf("%s.%s", entity, event), trace.WithAttributes(attrs...))
	}
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		span.RecordError(err)
	}

	if p.logger != nil {
		p.logger.Error("operation error", "operation", operation, "error", err)
	}
}
