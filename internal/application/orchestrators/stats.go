package orchestrators

import (
	"context"

	"github.com/saren-devv/mexxus-arena-sub001/internal/application/viewcache"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// EnrollmentStoreForStats defines the enrollment store interface needed by AcademyStats.
type EnrollmentStoreForStats interface {
	ListByAcademy(ctx context.Context, academyID string) ([]enrollment.Enrollment, error)
}

// EventStoreForStats defines the event store interface needed by AcademyStats.
type EventStoreForStats interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

// AcademyStats summarizes one academy's participation.
type AcademyStats struct {
	TotalAthletes      int `json:"totalAthletes"`
	EventsParticipated int `json:"eventsParticipated"`
	UpcomingEvents     int `json:"upcomingEvents"`
}

// AcademyStatsDeps holds dependencies for AcademyStats.
type AcademyStatsDeps struct {
	EnrollmentStore EnrollmentStoreForStats
	EventStore      EventStoreForStats
	Now             Clock
}

// ExecuteAcademyStats computes the dashboard statistics for one academy from
// its enrollments across all events, past and future.
// POST: Counts cover every stored enrollment of the academy
func ExecuteAcademyStats(ctx context.Context, academyID string, deps AcademyStatsDeps) (AcademyStats, error) {
	enrollments, err := deps.EnrollmentStore.ListByAcademy(ctx, academyID)
	if err != nil {
		return AcademyStats{}, err
	}

	now := deps.Now()
	stats := AcademyStats{}
	seen := make(map[string]bool)
	for _, enr := range enrollments {
		stats.TotalAthletes += len(enr.Athletes)
		if seen[enr.EventID] {
			continue
		}
		seen[enr.EventID] = true
		stats.EventsParticipated++

		ev, err := deps.EventStore.GetByID(ctx, enr.EventID)
		if err != nil {
			// Orphan enrollment; counts as participation but never as upcoming.
			continue
		}
		if ev.IsUpcoming(now) {
			stats.UpcomingEvents++
		}
	}
	return stats, nil
}

// AdminStats summarizes the whole federation for the admin panel.
type AdminStats struct {
	TotalAcademies int `json:"totalAcademies"`
	TotalEvents    int `json:"totalEvents"`
	UpcomingEvents int `json:"upcomingEvents"`
	TotalEnrolled  int `json:"totalEnrolled"`
}

// AdminStatsDeps holds dependencies for AdminStats.
type AdminStatsDeps struct {
	Admin *viewcache.AdminManager
	Now   Clock
}

// ExecuteAdminStats computes the general statistics from the admin manager's
// cached snapshot, so repeated panel loads do not re-read storage.
func ExecuteAdminStats(ctx context.Context, deps AdminStatsDeps) (AdminStats, error) {
	data, err := deps.Admin.Data(ctx)
	if err != nil {
		return AdminStats{}, err
	}

	now := deps.Now()
	stats := AdminStats{
		TotalAcademies: len(data.Academies),
		TotalEvents:    len(data.Events),
	}
	for _, ev := range data.Events {
		if ev.IsUpcoming(now) {
			stats.UpcomingEvents++
		}
	}
	for _, enr := range data.Enrollments {
		stats.TotalEnrolled += len(enr.Athletes)
	}
	return stats, nil
}
