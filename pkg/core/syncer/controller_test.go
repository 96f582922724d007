package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

type upsertCall struct {
	action  gateway.Action
	request model.ConsultationRequest
}

// fakeGateway is an in-memory remote store. Writes are applied to the remote rows
// immediately unless dropWrites is set.
type fakeGateway struct {
	mu         sync.Mutex
	rows       []model.ConsultationRequest
	fetchErr   error
	fetchCalls int
	upserts    []upsertCall
	upsertOK   bool
	dropWrites bool
	fetchHook  func(call int)
	upsertHook func(request model.ConsultationRequest)
}

func newFakeGateway(rows ...model.ConsultationRequest) *fakeGateway {
	return &fakeGateway{rows: rows, upsertOK: true}
}

func (f *fakeGateway) FetchAll(ctx context.Context) ([]model.ConsultationRequest, error) {
	f.mu.Lock()
	f.fetchCalls++
	call := f.fetchCalls
	hook := f.fetchHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return model.CloneAll(f.rows), nil
}

func (f *fakeGateway) Upsert(ctx context.Context, action gateway.Action, request model.ConsultationRequest) bool {
	f.mu.Lock()
	hook := f.upsertHook
	f.mu.Unlock()

	if hook != nil {
		hook(request)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.upserts = append(f.upserts, upsertCall{action: action, request: request})
	if !f.upsertOK || f.dropWrites {
		return f.upsertOK
	}

	switch action {
	case gateway.ActionAdd:
		f.rows = append(f.rows, request)
	case gateway.ActionUpdate:
		for i := range f.rows {
			if f.rows[i].ID == request.ID {
				f.rows[i] = request
			}
		}
	}
	return true
}

func (f *fakeGateway) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakeGateway) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeGateway) writes() []upsertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upsertCall(nil), f.upserts...)
}

type fakeStore struct {
	snapshot []model.ConsultationRequest
}

func (s *fakeStore) LoadLastKnown(ctx context.Context) []model.ConsultationRequest {
	if s.snapshot == nil {
		return []model.ConsultationRequest{}
	}
	return model.CloneAll(s.snapshot)
}

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return baseTime }
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("req-%d", n)
	}
}

// newTestController disables reconciling refreshes unless a test opts back in
func newTestController(gw gateway.Gateway, store SnapshotLoader, opts ...Option) *Controller {
	base := []Option{
		WithClock(fixedClock()),
		WithIDGenerator(sequentialIDs()),
		WithReconcileDelay(time.Hour),
	}
	return New(gw, store, zap.NewNop(), append(base, opts...)...)
}

func kimDraft() lifecycle.Draft {
	return lifecycle.Draft{
		StudentName:            "Kim",
		StudentClass:           "1-3",
		Subject:                "Math",
		AssignedInstructorName: "Lee",
		RequesterName:          "Park",
		AvailableTimeSlots:     []string{"Mon-1"},
	}
}

func TestRefresh_SortsNewestFirstStable(t *testing.T) {
	gw := newFakeGateway(
		model.ConsultationRequest{ID: "old", CreatedAt: 100},
		model.ConsultationRequest{ID: "tie-1", CreatedAt: 300},
		model.ConsultationRequest{ID: "new", CreatedAt: 500},
		model.ConsultationRequest{ID: "tie-2", CreatedAt: 300},
	)
	c := newTestController(gw, nil)
	defer c.Stop()

	require.NoError(t, c.Refresh(context.Background(), false))

	records := c.Records()
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"new", "tie-1", "tie-2", "old"}, ids)

	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].CreatedAt, records[i].CreatedAt)
	}

	status := c.Status()
	assert.NoError(t, status.Err)
	assert.Equal(t, baseTime, status.LastSync)
	assert.False(t, status.Loading)
}

func TestRefresh_FailureKeepsCollection(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "a", CreatedAt: 1})
	c := newTestController(gw, nil)
	defer c.Stop()

	require.NoError(t, c.Refresh(context.Background(), false))
	before := c.Records()

	gw.setFetchErr(errors.New("connection refused"))
	err := c.Refresh(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrRemoteUnavailable, "raw gateway errors are typed")

	assert.Equal(t, before, c.Records())
	status := c.Status()
	assert.ErrorIs(t, status.Err, gateway.ErrRemoteUnavailable)
	assert.False(t, status.Loading)

	gw.setFetchErr(nil)
	require.NoError(t, c.Refresh(context.Background(), false))
	assert.NoError(t, c.Status().Err, "a successful refresh clears the error flag")
}

func TestRefresh_Idempotent(t *testing.T) {
	completedAt := int64(900)
	gw := newFakeGateway(
		model.ConsultationRequest{ID: "a", CreatedAt: 1, Status: model.StatusPending},
		model.ConsultationRequest{ID: "b", CreatedAt: 2, Status: model.StatusCompleted, CompletedAt: &completedAt, InstructorNotes: "x"},
		model.ConsultationRequest{ID: "c", CreatedAt: 3, Status: model.StatusCompleted, InstructorNotes: "y"},
	)
	c := newTestController(gw, nil)
	defer c.Stop()

	require.NoError(t, c.Refresh(context.Background(), false))
	first := c.Records()

	require.NoError(t, c.Refresh(context.Background(), false))
	assert.Equal(t, first, c.Records())
}

func TestRefresh_CompletedAtFollowsStatus(t *testing.T) {
	stale := int64(123)
	gw := newFakeGateway(
		// completed in the sheet, but the sheet does not keep completedAt
		model.ConsultationRequest{ID: "done", CreatedAt: 2, Status: model.StatusCompleted, InstructorNotes: "x"},
		// not completed, but carries a stamp
		model.ConsultationRequest{ID: "open", CreatedAt: 1, Status: model.StatusInProgress, CompletedAt: &stale},
	)
	c := newTestController(gw, nil)
	defer c.Stop()

	require.NoError(t, c.Refresh(context.Background(), false))

	done, ok := c.Find("done")
	require.True(t, ok)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, baseTime.UnixMilli(), *done.CompletedAt)

	open, ok := c.Find("open")
	require.True(t, ok)
	assert.Nil(t, open.CompletedAt)
}

func TestRefresh_KeepsLocalCompletionStamp(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{
		ID: "a", CreatedAt: 1, Status: model.StatusPending, InstructorNotes: "notes",
		AvailableTimeSlots: []string{"Mon-1"},
	})
	clock := baseTime
	var clockMu sync.Mutex
	c := newTestController(gw, nil, WithClock(func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}))
	defer c.Stop()

	require.NoError(t, c.Refresh(context.Background(), false))
	completed, err := c.Update(context.Background(), "a", model.RoleInstructor, lifecycle.Complete{})
	require.NoError(t, err)
	stamp := *completed.CompletedAt

	// The remote row loses completedAt, as the macro sheet layout does
	require.Eventually(t, func() bool { return len(gw.writes()) == 1 }, time.Second, 5*time.Millisecond)
	gw.mu.Lock()
	gw.rows[0].CompletedAt = nil
	gw.mu.Unlock()

	clockMu.Lock()
	clock = baseTime.Add(time.Hour)
	clockMu.Unlock()

	require.NoError(t, c.Refresh(context.Background(), false))
	got, ok := c.Find("a")
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, stamp, *got.CompletedAt, "completedAt never changes once set")
}

func TestRefresh_LastCompletedWins(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "first", CreatedAt: 1})
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	gw.fetchHook = func(call int) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
		}
	}

	c := newTestController(gw, nil)
	defer c.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Refresh(context.Background(), false)
	}()
	<-firstStarted

	// The second refresh sees a different remote snapshot and completes first
	gw.mu.Lock()
	gw.rows = []model.ConsultationRequest{{ID: "second", CreatedAt: 2}}
	gw.mu.Unlock()
	require.NoError(t, c.Refresh(context.Background(), false))

	// The first refresh reads the rows only once released
	gw.mu.Lock()
	gw.rows = []model.ConsultationRequest{{ID: "third", CreatedAt: 3}}
	gw.mu.Unlock()
	close(releaseFirst)
	wg.Wait()

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "third", records[0].ID)
}

func TestCreate_OptimisticThenReconciled(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil)
	defer c.Stop()

	rec, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, model.StatusPending, records[0].Status)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, baseTime.UnixMilli(), rec.CreatedAt)

	require.Eventually(t, func() bool { return len(gw.writes()) == 1 }, time.Second, 5*time.Millisecond)
	write := gw.writes()[0]
	assert.Equal(t, gateway.ActionAdd, write.action)
	assert.Equal(t, rec, write.request)

	require.NoError(t, c.Refresh(context.Background(), false))
	got, ok := c.Find(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestCreate_PrependsToCollection(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "existing", CreatedAt: baseTime.UnixMilli() - 1000})
	c := newTestController(gw, nil)
	defer c.Stop()
	require.NoError(t, c.Refresh(context.Background(), false))

	rec, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)

	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Equal(t, "existing", records[1].ID)
}

func TestCreate_ValidationRejectsWithoutSideEffects(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil)

	draft := kimDraft()
	draft.AvailableTimeSlots = []string{}

	_, err := c.Create(context.Background(), draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
	assert.Empty(t, c.Records())

	c.Stop()
	assert.Empty(t, gw.writes(), "no gateway call is made")
}

func TestCreate_SchedulesReconcilingRefresh(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil, WithReconcileDelay(10*time.Millisecond))
	defer c.Stop()

	_, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return gw.fetches() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !c.Status().LastSync.IsZero() }, time.Second, 5*time.Millisecond)
}

func TestCreate_ReconcilesEvenWhenWriteFails(t *testing.T) {
	gw := newFakeGateway()
	gw.upsertOK = false
	c := newTestController(gw, nil, WithReconcileDelay(10*time.Millisecond))
	defer c.Stop()

	rec, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return gw.fetches() >= 1 }, time.Second, 5*time.Millisecond)

	// The remote never saw the write, so the reconciling refresh drops it
	require.Eventually(t, func() bool {
		_, ok := c.Find(rec.ID)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestUpdate_CompletionGuard(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil)

	rec, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)

	_, err = c.Update(context.Background(), rec.ID, model.RoleInstructor, lifecycle.Complete{})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	got, ok := c.Find(rec.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)

	c.Stop()
	assert.Len(t, gw.writes(), 1, "only the create was written")
}

func TestUpdate_NotFound(t *testing.T) {
	c := newTestController(newFakeGateway(), nil)
	defer c.Stop()

	_, err := c.Update(context.Background(), "missing", model.RoleInstructor, lifecycle.Accept{})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestUpdate_DoesNotMutatePreviousSnapshots(t *testing.T) {
	c := newTestController(newFakeGateway(), nil)
	defer c.Stop()

	rec, err := c.Create(context.Background(), kimDraft())
	require.NoError(t, err)
	before := c.Records()

	_, err = c.Update(context.Background(), rec.ID, model.RoleInstructor, lifecycle.ProposeTime{Day: "Mon", Time: "14:00"})
	require.NoError(t, err)

	assert.Equal(t, "", before[0].ProposedDay)
}

func TestUpdate_WritesArriveInCallOrder(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{
		ID:                     "req-kim",
		StudentName:            "Kim",
		AssignedInstructorName: "Lee",
		RequesterName:          "Park",
		Status:                 model.StatusPending,
		CreatedAt:              1,
	})
	// a slow first write must still land before the one queued after it
	gw.upsertHook = func(request model.ConsultationRequest) {
		if request.Status == model.StatusInProgress {
			time.Sleep(50 * time.Millisecond)
		}
	}

	c := newTestController(gw, nil)
	ctx := context.Background()
	c.Load(ctx)

	_, err := c.Update(ctx, "req-kim", model.RoleInstructor, lifecycle.Accept{})
	require.NoError(t, err)
	_, err = c.Update(ctx, "req-kim", model.RoleInstructor, lifecycle.Complete{Notes: "Reviewed quadratics"})
	require.NoError(t, err)

	c.Stop()

	writes := gw.writes()
	require.Len(t, writes, 2)
	assert.Equal(t, model.StatusInProgress, writes[0].request.Status)
	assert.Equal(t, model.StatusCompleted, writes[1].request.Status)

	rows, err := gw.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.StatusCompleted, rows[0].Status)
	assert.Equal(t, "Reviewed quadratics", rows[0].InstructorNotes)
	require.NotNil(t, rows[0].CompletedAt)

	// another client loading afterwards sees the final state
	other := newTestController(gw, nil)
	defer other.Stop()
	other.Load(ctx)

	got, ok := other.Find("req-kim")
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestStop_WithoutWritesReturns(t *testing.T) {
	c := newTestController(newFakeGateway(), nil)
	c.Stop()
	c.Stop()

	_, err := c.Create(context.Background(), kimDraft())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestRoundTripScenario(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil)
	ctx := context.Background()

	rec, err := c.Create(ctx, kimDraft())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, baseTime.UnixMilli(), rec.CreatedAt)
	require.Len(t, c.Records(), 1)

	proposed, err := c.Update(ctx, rec.ID, model.RoleInstructor, lifecycle.ProposeTime{Day: "Mon", Time: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, "Mon", proposed.ProposedDay)
	assert.Equal(t, "14:00", proposed.ProposedTime)
	assert.Equal(t, model.StatusPending, proposed.Status)

	confirmed, err := c.Update(ctx, rec.ID, model.RoleHomeroom, lifecycle.ConfirmDelivery{})
	require.NoError(t, err)
	assert.True(t, confirmed.IsDeliveryConfirmed)

	_, err = c.Update(ctx, rec.ID, model.RoleHomeroom, lifecycle.ConfirmDelivery{})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	completed, err := c.Update(ctx, rec.ID, model.RoleInstructor, lifecycle.Complete{Notes: "Discussed study plan"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.Equal(t, "Discussed study plan", completed.InstructorNotes)
	assert.True(t, completed.IsDeliveryConfirmed)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, baseTime.UnixMilli(), *completed.CompletedAt)

	_, err = c.Update(ctx, rec.ID, model.RoleInstructor, lifecycle.Complete{Notes: "again"})
	assert.ErrorIs(t, err, lifecycle.ErrTerminal)

	c.Stop()
	writes := gw.writes()
	require.Len(t, writes, 4)
	assert.Equal(t, gateway.ActionAdd, writes[0].action)
	for _, w := range writes[1:] {
		assert.Equal(t, gateway.ActionUpdate, w.action)
	}
}

func TestLoad_RemoteFailureServesSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.setFetchErr(fmt.Errorf("%w: dial tcp: no route", gateway.ErrRemoteUnavailable))
	store := &fakeStore{snapshot: []model.ConsultationRequest{
		{ID: "older", CreatedAt: 1},
		{ID: "newer", CreatedAt: 2},
	}}

	c := newTestController(gw, store)
	defer c.Stop()

	assert.NotPanics(t, func() { c.Load(context.Background()) })

	records := c.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].ID)
	assert.ErrorIs(t, c.Status().Err, gateway.ErrRemoteUnavailable)
}

func TestLoad_RemoteFailureWithoutSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.setFetchErr(errors.New("boom"))

	c := newTestController(gw, &fakeStore{})
	defer c.Stop()

	c.Load(context.Background())
	assert.NotNil(t, c.Records())
	assert.Empty(t, c.Records())
	assert.Error(t, c.Status().Err)
}

func TestLoad_SeededSkipsSnapshot(t *testing.T) {
	gw := newFakeGateway()
	gw.setFetchErr(errors.New("offline"))
	store := &fakeStore{snapshot: []model.ConsultationRequest{{ID: "from-store"}}}

	c := newTestController(gw, store)
	defer c.Stop()

	c.Seed([]model.ConsultationRequest{{ID: "from-link"}})
	c.Load(context.Background())

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "from-link", records[0].ID)
}

func TestStart_PollsUntilStopped(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "a", CreatedAt: 1})
	c := newTestController(gw, nil, WithPollInterval(time.Second))

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 1, gw.fetches(), "start refreshes immediately")
	assert.Len(t, c.Records(), 1)

	require.Eventually(t, func() bool { return gw.fetches() >= 2 }, 3*time.Second, 20*time.Millisecond)

	c.Stop()
	after := gw.fetches()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, gw.fetches(), "no polling after stop")
}

func TestStop_DiscardsLateRefresh(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "late", CreatedAt: 1})
	release := make(chan struct{})
	started := make(chan struct{})
	gw.fetchHook = func(call int) {
		close(started)
		<-release
	}

	c := newTestController(gw, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Refresh(context.Background(), false) }()
	<-started

	c.Stop()
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStopped)
	assert.Empty(t, c.Records())

	_, err := c.Create(context.Background(), kimDraft())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStop_WaitsForPendingWrites(t *testing.T) {
	gw := newFakeGateway()
	c := newTestController(gw, nil)

	for i := 0; i < 3; i++ {
		_, err := c.Create(context.Background(), kimDraft())
		require.NoError(t, err)
	}

	c.Stop()
	assert.Len(t, gw.writes(), 3)
}

func TestSubscribe_NotifiedAfterRefresh(t *testing.T) {
	gw := newFakeGateway(model.ConsultationRequest{ID: "a", CreatedAt: 1})
	c := newTestController(gw, nil)
	defer c.Stop()

	var got []Status
	c.Subscribe(func(s Status) { got = append(got, s) })

	require.NoError(t, c.Refresh(context.Background(), false))
	gw.setFetchErr(errors.New("down"))
	c.Refresh(context.Background(), false)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Count)
	assert.NoError(t, got[0].Err)
	assert.Error(t, got[1].Err)
}

func TestRoleViews(t *testing.T) {
	done := int64(5)
	gw := newFakeGateway(
		model.ConsultationRequest{ID: "1", CreatedAt: 4, RequesterName: "Park", AssignedInstructorName: "Lee", Status: model.StatusPending},
		model.ConsultationRequest{ID: "2", CreatedAt: 3, RequesterName: "Park", AssignedInstructorName: " Lee ", Status: model.StatusCompleted, CompletedAt: &done, InstructorNotes: "x"},
		model.ConsultationRequest{ID: "3", CreatedAt: 2, RequesterName: "Han", AssignedInstructorName: "Lee", Status: model.StatusInProgress},
		model.ConsultationRequest{ID: "4", CreatedAt: 1, RequesterName: "Han", AssignedInstructorName: "Oh", Status: model.StatusPending},
	)
	c := newTestController(gw, nil)
	defer c.Stop()
	require.NoError(t, c.Refresh(context.Background(), false))

	ids := func(rs []model.ConsultationRequest) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2"}, ids(c.ForRequester("Park")))
	assert.Equal(t, []string{"1", "3"}, ids(c.ForInstructor("Lee", false)))
	assert.Equal(t, []string{"2"}, ids(c.ForInstructor("Lee", true)))
	assert.Empty(t, c.ForInstructor("Nobody", false))
}
