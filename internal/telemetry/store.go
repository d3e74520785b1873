package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

const storeScopeName = "github.com/Dworak0/Smart-Issue-Board/store"

// InstrumentedStore wraps store.Store with OTel tracing and metrics.
// Every method gets a span and is counted in sib.store.* metrics.
// Use WrapStore to create one; it returns the original store unchanged when
// telemetry is disabled.
type InstrumentedStore struct {
	inner  store.Store
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapStore returns s decorated with OTel instrumentation.
// When telemetry is disabled, s is returned as-is with zero overhead.
func WrapStore(s store.Store) store.Store {
	if !Enabled() {
		return s
	}
	m := Meter(storeScopeName)
	ops, _ := m.Int64Counter("sib.store.operations",
		metric.WithDescription("Total store operations executed"),
	)
	dur, _ := m.Float64Histogram("sib.store.operation.duration",
		metric.WithDescription("Store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("sib.store.errors",
		metric.WithDescription("Total store operation errors"),
	)
	return &InstrumentedStore{
		inner:  s,
		tracer: Tracer(storeScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and counts the named store operation.
func (s *InstrumentedStore) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("db.operation", name)}, attrs...)
	ctx, span := s.tracer.Start(ctx, "store."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	s.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span and records duration and optional error.
func (s *InstrumentedStore) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	s.dur.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (s *InstrumentedStore) CreateIssue(ctx context.Context, issue *types.Issue) (string, error) {
	ctx, span, start := s.op(ctx, "CreateIssue")
	id, err := s.inner.CreateIssue(ctx, issue)
	s.done(ctx, span, start, err)
	return id, err
}

func (s *InstrumentedStore) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	ctx, span, start := s.op(ctx, "GetIssue", attribute.String("issue.id", id))
	issue, err := s.inner.GetIssue(ctx, id)
	s.done(ctx, span, start, err)
	return issue, err
}

func (s *InstrumentedStore) QueryIssues(ctx context.Context, opts store.QueryOptions) ([]*types.Issue, error) {
	ctx, span, start := s.op(ctx, "QueryIssues", attribute.Int("query.limit", opts.Limit))
	issues, err := s.inner.QueryIssues(ctx, opts)
	s.done(ctx, span, start, err)
	return issues, err
}

func (s *InstrumentedStore) UpdateIssueField(ctx context.Context, id, field, value string) error {
	ctx, span, start := s.op(ctx, "UpdateIssueField",
		attribute.String("issue.id", id),
		attribute.String("issue.field", field),
	)
	err := s.inner.UpdateIssueField(ctx, id, field, value)
	s.done(ctx, span, start, err)
	return err
}

func (s *InstrumentedStore) Changes(ctx context.Context) (<-chan struct{}, error) {
	// No span: the change stream outlives any single operation.
	return s.inner.Changes(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
