package usecase

import (
	"context"
	"sort"
	"time"

	"accessd/internal/domain"
)

const statDateFormat = "2006-01-02"

// StatsService summarizes the ledger for dashboards. Daily windows are
// computed in Location, the deployment's local zone.
type StatsService struct {
	Apps     ApplicationRepository
	Logs     AccessLogRepository
	Authz    domain.Authorizer
	Clock    func() time.Time
	Location *time.Location
}

func NewStatsService(apps ApplicationRepository, logs AccessLogRepository, authz domain.Authorizer, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		Apps:     apps,
		Logs:     logs,
		Authz:    authz,
		Clock:    time.Now,
		Location: loc,
	}
}

// Daily groups ledger entries by calendar date, counting check-ins and
// check-outs per day, ascending. Dates without events are omitted.
func (s *StatsService) Daily(ctx context.Context, from, to time.Time) ([]domain.DailyStat, error) {
	entries, err := s.Logs.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*domain.DailyStat)
	for _, e := range entries {
		date := e.Timestamp.In(s.Location).Format(statDateFormat)
		stat, ok := byDate[date]
		if !ok {
			stat = &domain.DailyStat{Date: date}
			byDate[date] = stat
		}
		switch e.EventType {
		case domain.EventCheckIn:
			stat.Entered++
		case domain.EventCheckOut:
			stat.Exited++
		}
	}
	out := make([]domain.DailyStat, 0, len(byDate))
	for _, stat := range byDate {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// OnSiteNow counts tokens whose latest ledger entry over all time is a
// check-in. The reduction is not windowed: someone who checked in
// yesterday and never left is still on site.
func (s *StatsService) OnSiteNow(ctx context.Context) (int, error) {
	latest, err := s.Logs.LatestPerToken(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range latest {
		if e.EventType == domain.EventCheckIn {
			count++
		}
	}
	return count, nil
}

// ExitedToday counts tokens whose latest entry is a check-out that falls
// within today's local-day window.
func (s *StatsService) ExitedToday(ctx context.Context) (int, error) {
	latest, err := s.Logs.LatestPerToken(ctx)
	if err != nil {
		return 0, err
	}
	dayStart, dayEnd := s.dayWindow(s.Clock())
	count := 0
	for _, e := range latest {
		if e.EventType != domain.EventCheckOut {
			continue
		}
		ts := e.Timestamp.In(s.Location)
		if !ts.Before(dayStart) && ts.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

// Dashboard assembles the admin landing-page numbers. A zero range
// defaults to the last seven local days including today.
func (s *StatsService) Dashboard(ctx context.Context, session domain.Session, from, to time.Time) (domain.DashboardStats, error) {
	if err := s.Authz.Require(ctx, session, domain.ActionDashboardRead); err != nil {
		return domain.DashboardStats{}, err
	}
	if from.IsZero() || to.IsZero() {
		dayStart, dayEnd := s.dayWindow(s.Clock())
		from = dayStart.AddDate(0, 0, -6)
		to = dayEnd
	}
	daily, err := s.Daily(ctx, from, to)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	onSite, err := s.OnSiteNow(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	exited, err := s.ExitedToday(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	counts, err := s.Apps.CountByStatus(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return domain.DashboardStats{
		Daily:        daily,
		OnSiteNow:    onSite,
		ExitedToday:  exited,
		StatusCounts: counts,
	}, nil
}

// dayWindow returns [local midnight, next local midnight) around t.
func (s *StatsService) dayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(s.Location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location)
	return start, start.AddDate(0, 0, 1)
}
