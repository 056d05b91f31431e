package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStatusFixture() (*StatusService, *mockOfficerRepo, *mockComplaintRepo) {
	officers := newMockOfficerRepo()
	complaints := newMockComplaintRepo()
	svc := NewStatusService(complaints, officers, stubTransactor{}, nil)
	return svc, officers, complaints
}

func seedAssigned(t *testing.T, officers *mockOfficerRepo, complaints *mockComplaintRepo) *models.Complaint {
	t.Helper()
	o := newOfficer(1, 13.70, 100.50)
	o.IsAvailable = false
	officers.add(o)

	officerID := uint(1)
	c := &models.Complaint{
		RefID:             "ABCDEF123456",
		Description:       "noise complaint",
		Status:            domain.StatusAssigned,
		AssignedOfficerID: &officerID,
	}
	require.NoError(t, complaints.Create(context.Background(), c))
	return c
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("updates status and appends history", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		updated, err := svc.Transition(ctx, c.ID, domain.StatusInProgress, "officer1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)

		stored := complaints.get(c.ID)
		assert.Equal(t, domain.StatusInProgress, stored.Status)

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		require.NotNil(t, hist[0].OldStatus)
		assert.Equal(t, domain.StatusAssigned, *hist[0].OldStatus)
		assert.Equal(t, domain.StatusInProgress, hist[0].NewStatus)
		assert.Equal(t, "officer1", hist[0].ChangedBy)

		// non-terminal transition keeps the officer busy
		assert.False(t, officers.get(1).IsAvailable)
	})

	t.Run("blank status is rejected", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, "   ", "officer1")
		assert.ErrorIs(t, err, ErrStatusRequired)

		hist, _ := complaints.ListHistory(ctx, c.ID)
		assert.Empty(t, hist)
	})

	t.Run("unknown complaint", func(t *testing.T) {
		svc, _, _ := newStatusFixture()
		_, err := svc.Transition(ctx, 404, domain.StatusResolved, "admin")
		assert.ErrorIs(t, err, ErrComplaintNotFound)
	})

	t.Run("terminal status releases the assigned officer", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, domain.StatusResolved, "officer1")
		require.NoError(t, err)
		assert.True(t, officers.get(1).IsAvailable)
	})

	t.Run("terminal check is case-insensitive", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, "CLOSED", "admin")
		require.NoError(t, err)
		assert.True(t, officers.get(1).IsAvailable)
	})

	t.Run("repeating a terminal transition is safe", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, domain.StatusResolved, "officer1")
		require.NoError(t, err)
		_, err = svc.Transition(ctx, c.ID, domain.StatusClosed, "admin")
		require.NoError(t, err)
		assert.True(t, officers.get(1).IsAvailable)

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, domain.StatusResolved, *hist[1].OldStatus)
		assert.Equal(t, domain.StatusClosed, hist[1].NewStatus)
	})

	t.Run("reopening does not re-claim the officer", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, domain.StatusClosed, "admin")
		require.NoError(t, err)
		require.True(t, officers.get(1).IsAvailable)

		_, err = svc.Transition(ctx, c.ID, domain.StatusInProgress, "admin")
		require.NoError(t, err)
		assert.True(t, officers.get(1).IsAvailable, "reopen leaves the officer available")
	})

	t.Run("unknown status strings are accepted", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		updated, err := svc.Transition(ctx, c.ID, "Pending Review", "admin")
		require.NoError(t, err)
		assert.Equal(t, "Pending Review", updated.Status)
		assert.False(t, officers.get(1).IsAvailable)
	})

	t.Run("terminal transition on unassigned complaint", func(t *testing.T) {
		svc, _, complaints := newStatusFixture()
		c := &models.Complaint{RefID: "FFFFFF000000", Description: "x", Status: domain.StatusNew}
		require.NoError(t, complaints.Create(ctx, c))

		updated, err := svc.Transition(ctx, c.ID, domain.StatusClosed, "admin")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, updated.Status)
	})

	t.Run("retries when the status moves under the transition", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		repo := &interleavedStatusRepo{mockComplaintRepo: complaints}
		svc := NewStatusService(repo, officers, stubTransactor{}, nil)
		c := seedAssigned(t, officers, complaints)

		updated, err := svc.Transition(ctx, c.ID, domain.StatusResolved, "admin")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusResolved, updated.Status)

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		require.NotNil(t, hist[0].OldStatus)
		assert.Equal(t, domain.StatusAssigned, *hist[0].OldStatus)
		assert.Equal(t, domain.StatusInProgress, hist[0].NewStatus)
		require.NotNil(t, hist[1].OldStatus)
		assert.Equal(t, domain.StatusInProgress, *hist[1].OldStatus,
			"retry chains from the concurrent writer's status")
		assert.Equal(t, domain.StatusResolved, hist[1].NewStatus)
	})

	t.Run("exhausted retries surface ErrStatusConflict", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		repo := &stuckStatusRepo{mockComplaintRepo: complaints}
		svc := NewStatusService(repo, officers, stubTransactor{}, nil)
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, domain.StatusResolved, "admin")
		assert.ErrorIs(t, err, ErrStatusConflict)
		assert.Equal(t, maxTransitionAttempts, repo.attempts)

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, hist, "no history entry without a won swap")
		assert.Equal(t, domain.StatusAssigned, complaints.get(c.ID).Status)
	})

	t.Run("concurrent transitions keep the history chain intact", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		const writers = 6
		var wg sync.WaitGroup
		var mu sync.Mutex
		applied := 0
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svc.Transition(ctx, c.ID, fmt.Sprintf("Step %d", i), "officer1")
				if err != nil {
					assert.ErrorIs(t, err, ErrStatusConflict)
					return
				}
				mu.Lock()
				applied++
				mu.Unlock()
			}(i)
		}
		wg.Wait()

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, hist, applied)
		require.GreaterOrEqual(t, applied, 1)

		// whatever order the winners landed in, the entries must form one
		// unbroken chain from the seeded status to the stored one
		next := make(map[string]string, len(hist))
		for _, h := range hist {
			require.NotNil(t, h.OldStatus)
			_, dup := next[*h.OldStatus]
			require.False(t, dup, "two entries chain from %q", *h.OldStatus)
			next[*h.OldStatus] = h.NewStatus
		}
		cur := domain.StatusAssigned
		for i := 0; i < applied; i++ {
			n, ok := next[cur]
			require.True(t, ok, "chain breaks at %q", cur)
			cur = n
		}
		assert.Equal(t, complaints.get(c.ID).Status, cur)
	})

	t.Run("transition fires a push intent to the assigned officer", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		spy := &spyNotifier{}
		svc := NewStatusService(complaints, officers, stubTransactor{}, spy)

		o := newOfficer(1, 13.70, 100.50)
		o.IsAvailable = false
		token := "device-1"
		o.DeviceToken = &token
		officers.add(o)

		officerID := uint(1)
		assignee := officers.get(1)
		c := &models.Complaint{
			RefID:             "ABCDEF123456",
			Description:       "noise complaint",
			Status:            domain.StatusAssigned,
			AssignedOfficerID: &officerID,
			AssignedOfficer:   &assignee,
		}
		require.NoError(t, complaints.Create(ctx, c))

		_, err := svc.Transition(ctx, c.ID, domain.StatusInProgress, "officer1")
		require.NoError(t, err)

		require.Eventually(t, func() bool { return spy.count() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "device-1|Complaint Status Updated", spy.sent()[0])
	})

	t.Run("no push intent when the transition fails", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		spy := &spyNotifier{}
		svc := NewStatusService(complaints, officers, stubTransactor{}, spy)
		c := seedAssigned(t, officers, complaints)

		_, err := svc.Transition(ctx, c.ID, "  ", "officer1")
		require.ErrorIs(t, err, ErrStatusRequired)
		assert.Zero(t, spy.count())
	})

	t.Run("history stays contiguous across transitions", func(t *testing.T) {
		svc, officers, complaints := newStatusFixture()
		c := seedAssigned(t, officers, complaints)

		steps := []string{domain.StatusInProgress, domain.StatusResolved, domain.StatusClosed}
		for _, next := range steps {
			_, err := svc.Transition(ctx, c.ID, next, "officer1")
			require.NoError(t, err)
		}

		hist, err := complaints.ListHistory(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, hist, len(steps))
		prev := domain.StatusAssigned
		for i, h := range hist {
			require.NotNil(t, h.OldStatus)
			assert.Equal(t, prev, *h.OldStatus, "entry %d chains from the previous status", i)
			prev = h.NewStatus
		}
		assert.Equal(t, domain.StatusClosed, prev)
	})
}

// interleavedStatusRepo lands a foreign transition between the read and the
// status swap of the first attempt.
type interleavedStatusRepo struct {
	*mockComplaintRepo
	interleaved bool
}

func (r *interleavedStatusRepo) WithTx(_ *gorm.DB) repositories.ComplaintRepository { return r }

func (r *interleavedStatusRepo) UpdateStatusFrom(ctx context.Context, id uint, oldStatus, newStatus string) (bool, error) {
	if !r.interleaved {
		r.interleaved = true
		prev := oldStatus
		if _, err := r.mockComplaintRepo.UpdateStatusFrom(ctx, id, prev, domain.StatusInProgress); err != nil {
			return false, err
		}
		entry := &models.ComplaintHistory{
			ComplaintID: id,
			OldStatus:   &prev,
			NewStatus:   domain.StatusInProgress,
			ChangedBy:   "officer1",
		}
		if err := r.mockComplaintRepo.AppendHistory(ctx, entry); err != nil {
			return false, err
		}
	}
	return r.mockComplaintRepo.UpdateStatusFrom(ctx, id, oldStatus, newStatus)
}

// stuckStatusRepo loses every status swap.
type stuckStatusRepo struct {
	*mockComplaintRepo
	attempts int
}

func (r *stuckStatusRepo) WithTx(_ *gorm.DB) repositories.ComplaintRepository { return r }

func (r *stuckStatusRepo) UpdateStatusFrom(_ context.Context, _ uint, _, _ string) (bool, error) {
	r.attempts++
	return false, nil
}
