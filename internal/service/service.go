// Package service implements the claimwise.v1 Connect services on top of the
// lifecycle rules and a storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/events"
	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/locker"
	"github.com/mmynk/claimwise/internal/middleware"
	"github.com/mmynk/claimwise/internal/models"
	"github.com/mmynk/claimwise/internal/observability"
	"github.com/mmynk/claimwise/internal/storage"
)

// Option configures the services.
type Option func(*core)

// WithLocker sets the per-claim lock. Defaults to an in-process locker, which is
// only correct for a single replica.
func WithLocker(l locker.Locker) Option {
	return func(c *core) { c.locker = l }
}

// WithPublisher sets where lifecycle events go. Defaults to the log.
func WithPublisher(p events.Publisher) Option {
	return func(c *core) { c.publisher = p }
}

// WithPolicy sets the coverage policy used to derive payments.
func WithPolicy(p lifecycle.Policy) Option {
	return func(c *core) { c.policy = p }
}

// WithLockTiming sets how long a claim lock lives and how long a request waits for it.
func WithLockTiming(ttl, wait time.Duration) Option {
	return func(c *core) {
		c.lockTTL = ttl
		c.lockWait = wait
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *core) { c.now = now }
}

// core is what every service shares.
type core struct {
	store     storage.Store
	locker    locker.Locker
	publisher events.Publisher
	policy    lifecycle.Policy
	lockTTL   time.Duration
	lockWait  time.Duration
	now       func() time.Time
}

func newCore(store storage.Store, opts []Option) core {
	c := core{
		store:     store,
		locker:    locker.NewLocal(),
		publisher: events.LogPublisher{},
		policy:    lifecycle.DefaultPolicy(),
		lockTTL:   10 * time.Second,
		lockWait:  2 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// requireRole returns the caller when their role is one of roles.
func requireRole(ctx context.Context, roles ...auth.Role) (auth.Actor, error) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		return auth.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	for _, r := range roles {
		if actor.Role == r {
			return actor, nil
		}
	}
	return auth.Actor{}, connect.NewError(connect.CodePermissionDenied,
		fmt.Errorf("role %q may not perform this operation", actor.Role))
}

func permissionDenied(format string, args ...any) error {
	return connect.NewError(connect.CodePermissionDenied, fmt.Errorf(format, args...))
}

// withClaimLock runs fn while holding the claim's lock.
func (c *core) withClaimLock(ctx context.Context, claimID string, fn func(ctx context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, "claim.lock", attribute.String("claim.id", claimID))
	defer span.End()

	key := locker.ClaimKey(claimID)
	token, err := locker.Acquire(ctx, c.locker, key, c.lockTTL, c.lockWait)
	if err != nil {
		return fmt.Errorf("claim %s: %w", claimID, err)
	}
	defer func() {
		if err := c.locker.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			slog.Warn("Failed to release claim lock", "claim_id", claimID, "error", err)
		}
	}()

	return fn(ctx)
}

func (c *core) loadClaim(ctx context.Context, claimID string) (*models.Claim, error) {
	claim, err := c.store.GetClaim(ctx, claimID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &lifecycle.NotFoundError{Entity: lifecycle.EntityClaim, ID: claimID}
	}
	return claim, err
}

func (c *core) loadPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := c.store.GetPayment(ctx, paymentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &lifecycle.NotFoundError{Entity: lifecycle.EntityPayment, ID: paymentID}
	}
	return payment, err
}

// claimPayments returns every payment of a claim by value, as the lifecycle
// functions take them.
func (c *core) claimPayments(ctx context.Context, claimID string) ([]models.Payment, error) {
	payments, err := c.store.ListPayments(ctx, storage.PaymentFilter{ClaimID: claimID})
	if err != nil {
		return nil, err
	}
	out := make([]models.Payment, len(payments))
	for i, p := range payments {
		out[i] = *p
	}
	return out, nil
}

// publish sends an event. Delivery failures are logged; the transition they
// describe has already been committed.
func (c *core) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = c.now().UTC()
	if err := c.publisher.Publish(ctx, event); err != nil {
		slog.Error("Failed to publish event",
			"type", event.Type,
			"claim_id", event.ClaimID,
			"error", err,
		)
	}
}

// canSeeClaim reports whether actor may read the claim. Patients only see their own.
func canSeeClaim(actor auth.Actor, claim *models.Claim) bool {
	return actor.Role != auth.RolePatient || claim.PatientID == actor.ID
}
