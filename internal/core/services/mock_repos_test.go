package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/models"
	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"
	"github.com/harshdark/Rapid-Rescue/internal/core/domain"

	"gorm.io/gorm"
)

// stubTransactor runs the unit directly; the mock repos are their own source
// of truth so there is no real transaction to open.
type stubTransactor struct{}

func (stubTransactor) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// ------------------------------------------------------------
// Officer repository mock
// ------------------------------------------------------------

type mockOfficerRepo struct {
	mu       sync.Mutex
	officers map[uint]*models.User
}

func newMockOfficerRepo() *mockOfficerRepo {
	return &mockOfficerRepo{officers: make(map[uint]*models.User)}
}

func (m *mockOfficerRepo) add(o models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Role == "" {
		o.Role = domain.RoleOfficer
	}
	cp := o
	m.officers[o.ID] = &cp
}

func (m *mockOfficerRepo) get(id uint) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.officers[id]
}

func (m *mockOfficerRepo) WithTx(_ *gorm.DB) repositories.OfficerRepository { return m }

func (m *mockOfficerRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.officers[id]
	if !ok || o.Role != domain.RoleOfficer {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOfficerRepo) ListOfficers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, o := range m.officers {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockOfficerRepo) ListAvailable(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, o := range m.officers {
		if o.Role == domain.RoleOfficer && o.IsAvailable {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockOfficerRepo) ClaimAvailable(_ context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.officers[id]
	if !ok || o.Role != domain.RoleOfficer || !o.IsAvailable {
		return false, nil
	}
	o.IsAvailable = false
	return true, nil
}

func (m *mockOfficerRepo) Release(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.officers[id]; ok {
		o.IsAvailable = true
	}
	return nil
}

func (m *mockOfficerRepo) SetAvailability(_ context.Context, id uint, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.officers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.IsAvailable = available
	return nil
}

func (m *mockOfficerRepo) UpdateLocation(_ context.Context, id uint, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.officers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Latitude = &lat
	o.Longitude = &lon
	return nil
}

// ------------------------------------------------------------
// Complaint repository mock
// ------------------------------------------------------------

type mockComplaintRepo struct {
	mu         sync.Mutex
	nextID     uint
	nextHistID uint
	complaints map[uint]*models.Complaint
	history    []models.ComplaintHistory
}

func newMockComplaintRepo() *mockComplaintRepo {
	return &mockComplaintRepo{
		nextID:     1,
		nextHistID: 1,
		complaints: make(map[uint]*models.Complaint),
	}
}

func (m *mockComplaintRepo) get(id uint) models.Complaint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.complaints[id]
}

func (m *mockComplaintRepo) WithTx(_ *gorm.DB) repositories.ComplaintRepository { return m }

func (m *mockComplaintRepo) Create(_ context.Context, complaint *models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	complaint.ID = m.nextID
	m.nextID++
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	cp := *complaint
	m.complaints[complaint.ID] = &cp
	return nil
}

func (m *mockComplaintRepo) GetByID(_ context.Context, id uint) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockComplaintRepo) GetByRefID(_ context.Context, refID string) (*models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.complaints {
		if c.RefID == refID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockComplaintRepo) ListByEmail(_ context.Context, email string) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.Email == email {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockComplaintRepo) ListByAssignedOfficer(_ context.Context, officerID uint) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.AssignedOfficerID != nil && *c.AssignedOfficerID == officerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockComplaintRepo) SearchByRef(_ context.Context, refSubstring string, offset, limit int) ([]models.Complaint, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Complaint
	for _, c := range m.complaints {
		if strings.Contains(c.RefID, refSubstring) {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockComplaintRepo) ListUnassigned(_ context.Context) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.AssignedOfficerID == nil && c.Status == domain.StatusNew {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockComplaintRepo) SetAssignment(_ context.Context, id uint, officerID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if c.AssignedOfficerID != nil {
		return false, nil
	}
	c.AssignedOfficerID = &officerID
	c.Status = domain.StatusAssigned
	return true, nil
}

func (m *mockComplaintRepo) UpdateStatusFrom(_ context.Context, id uint, oldStatus, newStatus string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if c.Status != oldStatus {
		return false, nil
	}
	c.Status = newStatus
	return true, nil
}

func (m *mockComplaintRepo) AppendHistory(_ context.Context, entry *models.ComplaintHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextHistID
	m.nextHistID++
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.history = append(m.history, *entry)
	return nil
}

func (m *mockComplaintRepo) ListHistory(_ context.Context, complaintID uint) ([]models.ComplaintHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ComplaintHistory
	for _, h := range m.history {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

// ------------------------------------------------------------
// Notifier / email spies
// ------------------------------------------------------------

type spyNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *spyNotifier) Notify(deviceToken, title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, deviceToken+"|"+title)
}

func (n *spyNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *spyNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

type spyEmailSender struct {
	mu    sync.Mutex
	calls []string
}

func (e *spyEmailSender) Send(toAddress, subject, _ string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, toAddress+"|"+subject)
}

func (e *spyEmailSender) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *spyEmailSender) sent() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}
