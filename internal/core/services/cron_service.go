package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harshdark/Rapid-Rescue/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the background maintenance jobs
type CronService struct {
	cron             *cron.Cron
	complaintRepo    repositories.ComplaintRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailSender      EmailSender
	digestRecipient  string
}

// NewCronService creates a new cron service
func NewCronService(
	complaintRepo repositories.ComplaintRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailSender EmailSender,
	digestRecipient string,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		complaintRepo:    complaintRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailSender:      emailSender,
		digestRecipient:  digestRecipient,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens nightly
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens); err != nil {
		log.Printf("❌ Failed to schedule token purge: %v", err)
	}

	// Morning digest of complaints still waiting for an officer
	if _, err := s.cron.AddFunc("0 8 * * *", s.sendUnassignedDigest); err != nil {
		log.Printf("❌ Failed to schedule unassigned digest: %v", err)
	}

	s.cron.Start()
	log.Println("🔁 Cron jobs started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron jobs stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Token purge failed: %v", err)
		return
	}
	log.Printf("🔁 Purged %d expired refresh tokens", deleted)
}

func (s *CronService) sendUnassignedDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	complaints, err := s.complaintRepo.ListUnassigned(ctx)
	if err != nil {
		log.Printf("❌ Unassigned digest query failed: %v", err)
		return
	}
	if len(complaints) == 0 || s.emailSender == nil || s.digestRecipient == "" {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Complaints waiting for an officer: %d\n\n", len(complaints))
	for _, c := range complaints {
		fmt.Fprintf(&b, "- %s | %s | %s | filed %s\n",
			c.RefID, c.IncidentType, c.Location, c.CreatedAt.Format("2006-01-02 15:04"))
	}

	s.emailSender.Send(s.digestRecipient, "Unassigned Complaints Digest", b.String())
	log.Printf("📧 Unassigned digest sent (%d complaints)", len(complaints))
}
