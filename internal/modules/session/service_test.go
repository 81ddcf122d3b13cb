package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

func validTrip(km float64) trip.TripRequest {
	return trip.TripRequest{
		Mode:          trip.ModeDistance,
		DistanceKm:    km,
		Vehicle:       trip.VehicleHatchback,
		Fuel:          trip.FuelPetrol,
		DrivingStyle:  trip.StyleNormal,
		RoadCondition: trip.RoadMixed,
	}
}

func resultFor(req trip.TripRequest) *estimate.EstimationResult {
	ve := estimate.VehicleEstimate{VehicleType: string(req.Vehicle), FuelType: string(req.Fuel), EstimatedConsumption: "1 L", EstimatedCost: 100, CO2Emissions: 2, Efficiency: "18 km/L"}
	return &estimate.EstimationResult{
		TripDistanceKm:  req.DistanceKm,
		PrimaryEstimate: ve,
		ComparisonSet:   []estimate.VehicleEstimate{ve, ve, ve},
		Tips:            []string{"a", "b", "c"},
	}
}

type funcEstimator func(ctx context.Context, req trip.TripRequest) (*estimate.EstimationResult, error)

func (f funcEstimator) Estimate(ctx context.Context, req trip.TripRequest) (*estimate.EstimationResult, error) {
	return f(ctx, req)
}

type countingQuota struct {
	mu    sync.Mutex
	left  int
	calls int
}

var errNoTokens = errors.New("insufficient tokens")

func (q *countingQuota) UseToken(context.Context, string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls++
	if q.left <= 0 {
		return errNoTokens
	}
	q.left--
	return nil
}

func echoEstimator() funcEstimator {
	return func(_ context.Context, req trip.TripRequest) (*estimate.EstimationResult, error) {
		return resultFor(req), nil
	}
}

func TestSubmitStoresResult(t *testing.T) {
	svc := NewService(NewMemoryStore(time.Minute), echoEstimator(), nil)
	ctx := context.Background()

	out, err := svc.Submit(ctx, "s1", validTrip(150))
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Seq)
	assert.False(t, out.Superseded)
	require.NotNil(t, out.Result)
	require.NotNil(t, out.Dashboard)
	assert.Equal(t, 150.0, out.Result.TripDistanceKm)

	slot, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, slot.Status)
	assert.Equal(t, int64(1), slot.Seq)
	assert.Equal(t, 150.0, slot.Result.TripDistanceKm)
}

func TestCurrentIdleWhenAbsent(t *testing.T) {
	svc := NewService(NewMemoryStore(time.Minute), echoEstimator(), nil)
	slot, err := svc.Current(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, slot.Status)
	assert.Nil(t, slot.Result)
}

func TestMissingSession(t *testing.T) {
	svc := NewService(NewMemoryStore(time.Minute), echoEstimator(), nil)
	_, err := svc.Submit(context.Background(), " ", validTrip(10))
	assert.ErrorIs(t, err, ErrMissingSession)
	_, err = svc.Current(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestSubmitFailureRecordsMessageWithoutResult(t *testing.T) {
	failing := funcEstimator(func(context.Context, trip.TripRequest) (*estimate.EstimationResult, error) {
		return nil, fmt.Errorf("%w: boom", estimate.ErrTransport)
	})
	svc := NewService(NewMemoryStore(time.Minute), failing, nil)
	ctx := context.Background()

	out, err := svc.Submit(ctx, "s1", validTrip(10))
	assert.ErrorIs(t, err, estimate.ErrTransport)
	assert.Equal(t, int64(1), out.Seq)
	assert.Nil(t, out.Result)

	slot, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, slot.Status)
	assert.Nil(t, slot.Result)
	assert.Equal(t, estimate.UserMessage(estimate.ErrTransport), slot.Message)
}

func TestSubmitValidationSkipsQuotaAndEstimator(t *testing.T) {
	called := false
	est := funcEstimator(func(_ context.Context, req trip.TripRequest) (*estimate.EstimationResult, error) {
		called = true
		return resultFor(req), nil
	})
	q := &countingQuota{left: 5}
	svc := NewService(NewMemoryStore(time.Minute), est, q)

	_, err := svc.Submit(context.Background(), "s1", validTrip(-1))
	var verr *trip.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, called)
	assert.Zero(t, q.calls)
}

func TestQuotaExhaustionBlocksEstimator(t *testing.T) {
	called := 0
	est := funcEstimator(func(_ context.Context, req trip.TripRequest) (*estimate.EstimationResult, error) {
		called++
		return resultFor(req), nil
	})
	q := &countingQuota{left: 1}
	svc := NewService(NewMemoryStore(time.Minute), est, q)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", validTrip(10))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "s1", validTrip(20))
	assert.ErrorIs(t, err, errNoTokens)
	assert.Equal(t, 1, called)

	slot, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, slot.Result.TripDistanceKm)
}

// The first submission is held until the second one has finished; its late
// result must not replace the newer one.
func TestLateResultIsSuperseded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	est := funcEstimator(func(_ context.Context, req trip.TripRequest) (*estimate.EstimationResult, error) {
		if req.DistanceKm == 10 {
			close(started)
			<-release
		}
		return resultFor(req), nil
	})
	svc := NewService(NewMemoryStore(time.Minute), est, nil)
	ctx := context.Background()

	type result struct {
		out Outcome
		err error
	}
	first := make(chan result, 1)
	go func() {
		out, err := svc.Submit(ctx, "s1", validTrip(10))
		first <- result{out, err}
	}()
	<-started

	second, err := svc.Submit(ctx, "s1", validTrip(20))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.False(t, second.Superseded)

	close(release)
	late := <-first
	require.NoError(t, late.err)
	assert.Equal(t, int64(1), late.out.Seq)
	assert.True(t, late.out.Superseded)
	assert.Nil(t, late.out.Result)

	slot, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), slot.Seq)
	assert.Equal(t, StatusSucceeded, slot.Status)
	assert.Equal(t, 20.0, slot.Result.TripDistanceKm)
}

func TestMemoryStoreApplyRule(t *testing.T) {
	testApplyRule(t, NewMemoryStore(time.Minute))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	seq, err := store.NextSeq(ctx, "s1")
	require.NoError(t, err)
	_, err = store.Apply(ctx, "s1", Slot{Seq: seq, Status: StatusSucceeded})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	seq, err = store.NextSeq(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestMemoryStoreLateApplyAfterExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	testLateApplyAfterExpiry(t, store, func(string) { now = now.Add(2 * time.Minute) })
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TRIPSAGE_REDIS_ADDR")
	if addr == "" {
		t.Skip("TRIPSAGE_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStoreApplyRule(t *testing.T) {
	testApplyRule(t, NewRedisStore(redisClient(t), time.Minute))
}

func TestRedisStoreLateApplyAfterExpiry(t *testing.T) {
	rdb := redisClient(t)
	testLateApplyAfterExpiry(t, NewRedisStore(rdb, time.Minute), func(id string) {
		require.NoError(t, rdb.Del(context.Background(), slotKey(id)).Err())
	})
}

// testLateApplyAfterExpiry lets the session expire while submission 3 is
// still running. Its late outcome recreates the slot, and the next
// submission must still be numbered after it.
func testLateApplyAfterExpiry(t *testing.T, store Store, expire func(id string)) {
	t.Helper()
	ctx := context.Background()
	id := fmt.Sprintf("late_apply_%d", time.Now().UnixNano())

	var seq int64
	for i := 0; i < 3; i++ {
		var err error
		seq, err = store.NextSeq(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, int64(3), seq)

	expire(id)

	applied, err := store.Apply(ctx, id, Slot{Seq: seq, Status: StatusSucceeded})
	require.NoError(t, err)
	assert.True(t, applied)

	next, err := store.NextSeq(ctx, id)
	require.NoError(t, err)
	assert.Greater(t, next, seq)

	applied, err = store.Apply(ctx, id, Slot{Seq: next, Status: StatusInFlight})
	require.NoError(t, err)
	assert.True(t, applied, "fresh submission must not be superseded")

	applied, err = store.Apply(ctx, id, Slot{Seq: next, Status: StatusSucceeded})
	require.NoError(t, err)
	assert.True(t, applied)

	slot, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, next, slot.Seq)
}

func testApplyRule(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	id := fmt.Sprintf("apply_rule_%d", time.Now().UnixNano())

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	s1, err := store.NextSeq(ctx, id)
	require.NoError(t, err)
	s2, err := store.NextSeq(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s1+1, s2)

	applied, err := store.Apply(ctx, id, Slot{Seq: s2, Status: StatusInFlight})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.Apply(ctx, id, Slot{Seq: s1, Status: StatusSucceeded})
	require.NoError(t, err)
	assert.False(t, applied, "older outcome must be discarded")

	applied, err = store.Apply(ctx, id, Slot{Seq: s2, Status: StatusSucceeded, Message: "done"})
	require.NoError(t, err)
	assert.True(t, applied, "same seq replaces its own in-flight marker")

	applied, err = store.Apply(ctx, id, Slot{Seq: s2, Status: StatusFailed})
	require.NoError(t, err)
	assert.False(t, applied, "a settled slot is final for its seq")

	slot, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, s2, slot.Seq)
	assert.Equal(t, StatusSucceeded, slot.Status)
	assert.Equal(t, "done", slot.Message)
}
