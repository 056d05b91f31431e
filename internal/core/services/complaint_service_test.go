package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newComplaintFixture() (*ComplaintService, *mockOfficerRepo, *mockComplaintRepo) {
	officers := newMockOfficerRepo()
	complaints := newMockComplaintRepo()
	assignSvc := NewAssignmentService(officers, complaints, stubTransactor{}, nil)
	svc := NewComplaintService(complaints, stubTransactor{}, assignSvc, nil)
	return svc, officers, complaints
}

func TestCreateComplaint(t *testing.T) {
	ctx := context.Background()

	t.Run("files complaint with ref code and creation history", func(t *testing.T) {
		svc, _, complaints := newComplaintFixture()

		resp, err := svc.Create(ctx, &CreateComplaintInput{
			ReporterName: "Somchai",
			Email:        "somchai@example.com",
			IncidentType: "Theft",
			Description:  "wallet stolen at the market",
			Location:     "Chatuchak",
		})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{12}$`), resp.RefID)
		assert.Equal(t, domain.StatusNew, resp.Status)

		hist, err := complaints.ListHistory(ctx, resp.ID)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Nil(t, hist[0].OldStatus, "creation entry has no prior status")
		assert.Equal(t, domain.StatusNew, hist[0].NewStatus)
		assert.Equal(t, domain.SystemActor, hist[0].ChangedBy)
	})

	t.Run("description is required", func(t *testing.T) {
		svc, _, _ := newComplaintFixture()
		_, err := svc.Create(ctx, &CreateComplaintInput{Description: "  "})
		assert.ErrorIs(t, err, ErrDescriptionRequired)
	})

	t.Run("auto-assigns when coordinates are present", func(t *testing.T) {
		svc, officers, complaints := newComplaintFixture()
		officers.add(newOfficer(1, 13.7563, 100.5018))

		resp, err := svc.Create(ctx, &CreateComplaintInput{
			Email:       "somchai@example.com",
			Description: "accident on the bridge",
			Latitude:    f64(13.7563),
			Longitude:   f64(100.5018),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAssigned, resp.Status)
		assert.False(t, officers.get(1).IsAvailable)

		hist, err := complaints.ListHistory(ctx, resp.ID)
		require.NoError(t, err)
		require.Len(t, hist, 2, "creation entry plus assignment entry")
	})

	t.Run("defaults maps link from coordinates", func(t *testing.T) {
		svc, _, complaints := newComplaintFixture()

		resp, err := svc.Create(ctx, &CreateComplaintInput{
			Description: "flooding",
			Latitude:    f64(13.75),
			Longitude:   f64(100.5),
		})
		require.NoError(t, err)

		stored := complaints.get(resp.ID)
		assert.Equal(t, "https://maps.google.com/?q=13.75,100.5", stored.MapsLink)
	})

	t.Run("assignment failure still files the complaint", func(t *testing.T) {
		officers := newMockOfficerRepo()
		officers.add(newOfficer(1, 13.7563, 100.5018))
		complaints := newMockComplaintRepo()
		assignSvc := NewAssignmentService(&failingOfficerRepo{officers}, complaints, stubTransactor{}, nil)
		svc := NewComplaintService(complaints, stubTransactor{}, assignSvc, nil)

		resp, err := svc.Create(ctx, &CreateComplaintInput{
			Email:       "somchai@example.com",
			Description: "fire at the warehouse",
			Latitude:    f64(13.7563),
			Longitude:   f64(100.5018),
		})
		require.NoError(t, err, "the committed complaint is returned despite the assignment failure")
		assert.NotEmpty(t, resp.RefID)
		assert.Equal(t, domain.StatusNew, resp.Status)

		stored := complaints.get(resp.ID)
		assert.Nil(t, stored.AssignedOfficerID)

		hist, err := complaints.ListHistory(ctx, resp.ID)
		require.NoError(t, err)
		assert.Len(t, hist, 1, "creation entry only")
	})

	t.Run("confirmation email fires after the complaint committed", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		spy := &spyEmailSender{}
		assignSvc := NewAssignmentService(officers, complaints, stubTransactor{}, nil)
		svc := NewComplaintService(complaints, stubTransactor{}, assignSvc, spy)

		_, err := svc.Create(ctx, &CreateComplaintInput{
			ReporterName: "Somchai",
			Email:        "somchai@example.com",
			Description:  "broken water main",
		})
		require.NoError(t, err)

		require.Eventually(t, func() bool { return spy.count() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, "somchai@example.com|Complaint Registered", spy.sent()[0])
	})

	t.Run("no confirmation email without a reporter address", func(t *testing.T) {
		officers := newMockOfficerRepo()
		complaints := newMockComplaintRepo()
		spy := &spyEmailSender{}
		assignSvc := NewAssignmentService(officers, complaints, stubTransactor{}, nil)
		svc := NewComplaintService(complaints, stubTransactor{}, assignSvc, spy)

		_, err := svc.Create(ctx, &CreateComplaintInput{Description: "anonymous tip"})
		require.NoError(t, err)
		assert.Never(t, func() bool { return spy.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("no coordinates stays unassigned", func(t *testing.T) {
		svc, officers, complaints := newComplaintFixture()
		officers.add(newOfficer(1, 13.7563, 100.5018))

		resp, err := svc.Create(ctx, &CreateComplaintInput{Description: "anonymous tip"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, resp.Status)
		assert.True(t, officers.get(1).IsAvailable)

		stored := complaints.get(resp.ID)
		assert.Nil(t, stored.AssignedOfficerID)
	})
}

func TestComplaintQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("track by ref id", func(t *testing.T) {
		svc, _, _ := newComplaintFixture()
		resp, err := svc.Create(ctx, &CreateComplaintInput{Description: "test", Email: "a@b.c"})
		require.NoError(t, err)

		c, err := svc.Track(ctx, resp.RefID)
		require.NoError(t, err)
		assert.Equal(t, resp.ID, c.ID)

		// lookup is tolerant of case and surrounding whitespace
		c, err = svc.Track(ctx, "  "+strings.ToLower(resp.RefID)+" ")
		require.NoError(t, err)
		assert.Equal(t, resp.ID, c.ID)

		_, err = svc.Track(ctx, "000000000000")
		assert.ErrorIs(t, err, ErrComplaintNotFound)
	})

	t.Run("list by email", func(t *testing.T) {
		svc, _, _ := newComplaintFixture()
		_, err := svc.Create(ctx, &CreateComplaintInput{Description: "one", Email: "mine@example.com"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, &CreateComplaintInput{Description: "two", Email: "mine@example.com"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, &CreateComplaintInput{Description: "other", Email: "other@example.com"})
		require.NoError(t, err)

		mine, err := svc.ListByEmail(ctx, "mine@example.com")
		require.NoError(t, err)
		assert.Len(t, mine, 2)
	})

	t.Run("search pages by ref substring", func(t *testing.T) {
		svc, _, _ := newComplaintFixture()
		var refs []string
		for i := 0; i < 3; i++ {
			resp, err := svc.Create(ctx, &CreateComplaintInput{Description: "test"})
			require.NoError(t, err)
			refs = append(refs, resp.RefID)
		}

		all, total, err := svc.Search(ctx, "", 0, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, all, 3)

		page, total, err := svc.Search(ctx, "", 0, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, page, 2)

		// substring narrows to one
		one, total, err := svc.Search(ctx, refs[0], 0, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, one, 1)
		assert.Equal(t, refs[0], one[0].RefID)
	})

	t.Run("history requires existing complaint", func(t *testing.T) {
		svc, _, _ := newComplaintFixture()
		_, err := svc.History(ctx, 404)
		assert.ErrorIs(t, err, ErrComplaintNotFound)
	})
}

// failingOfficerRepo simulates the officer directory being unreachable.
type failingOfficerRepo struct {
	*mockOfficerRepo
}

func (r *failingOfficerRepo) WithTx(_ *gorm.DB) repositories.OfficerRepository { return r }

func (r *failingOfficerRepo) ListAvailable(_ context.Context) ([]models.User, error) {
	return nil, errors.New("officer directory unavailable")
}
