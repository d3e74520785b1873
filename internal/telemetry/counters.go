package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

const eventsScopeName = "github.com/Dworak0/Smart-Issue-Board/events"

// Board-level event counters, created lazily on first use. Before Init (or
// with telemetry disabled) the global meter is a no-op, so recording costs
// nothing.
var (
	eventsOnce          sync.Once
	snapshotsDelivered  metric.Int64Counter
	issuesCreated       metric.Int64Counter
	transitionsRejected metric.Int64Counter
)

func eventCounters() {
	eventsOnce.Do(func() {
		m := Meter(eventsScopeName)
		snapshotsDelivered, _ = m.Int64Counter("sib.livesync.snapshots",
			metric.WithDescription("Full snapshots delivered to subscribers"),
		)
		issuesCreated, _ = m.Int64Counter("sib.issues.created",
			metric.WithDescription("Issues created"),
		)
		transitionsRejected, _ = m.Int64Counter("sib.workflow.transitions.rejected",
			metric.WithDescription("Status transitions denied by the workflow guard"),
		)
	})
}

// CountSnapshotDelivered records one delivered live snapshot.
func CountSnapshotDelivered(ctx context.Context) {
	eventCounters()
	snapshotsDelivered.Add(ctx, 1)
}

// CountIssueCreated records one successfully created issue.
func CountIssueCreated(ctx context.Context) {
	eventCounters()
	issuesCreated.Add(ctx, 1)
}

// CountTransitionRejected records one guard-denied status change.
func CountTransitionRejected(ctx context.Context) {
	eventCounters()
	transitionsRejected.Add(ctx, 1)
}
