package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"accessd/internal/domain"

	"github.com/google/uuid"
)

// LedgerService records physical entry/exit events. Each scan toggles the
// token's presence: absent or checked-out appends check_in, checked-in
// appends check_out. The ledger is strictly append-only; presence is a
// derived read.
type LedgerService struct {
	Apps  ApplicationRepository
	Logs  AccessLogRepository
	Authz domain.Authorizer
	Clock func() time.Time
	NewID func() string
}

func NewLedgerService(apps ApplicationRepository, logs AccessLogRepository, authz domain.Authorizer) *LedgerService {
	return &LedgerService{
		Apps:  apps,
		Logs:  logs,
		Authz: authz,
		Clock: time.Now,
		NewID: uuid.NewString,
	}
}

// Scan resolves a credential token, appends the toggled event, and
// returns what the guard station should display. Unknown tokens fail with
// ErrNotFound and append nothing. Two stations racing over the same token
// lose to ErrConflict rather than double-toggling.
func (s *LedgerService) Scan(ctx context.Context, session domain.Session, token string) (domain.ScanResult, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionLedgerScan); err != nil {
		return domain.ScanResult{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ScanResult{}, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}

	app, err := s.Apps.GetByQRID(ctx, token)
	if err != nil {
		return domain.ScanResult{}, err
	}

	latest, err := s.Logs.LatestByToken(ctx, token)
	if err != nil {
		return domain.ScanResult{}, err
	}
	var expectPrev domain.AccessEventType
	next := domain.EventCheckIn
	if latest != nil {
		expectPrev = latest.EventType
		next = latest.EventType.Toggle()
	}

	entry := domain.AccessLogEntry{
		ID:        s.NewID(),
		QRID:      token,
		EventType: next,
		Timestamp: s.Clock(),
	}
	if _, err := s.Logs.Append(ctx, entry, expectPrev); err != nil {
		return domain.ScanResult{}, err
	}

	return domain.ScanResult{
		ApplicantName: app.ApplicantName,
		EventType:     next,
		Status:        app.Status,
	}, nil
}
