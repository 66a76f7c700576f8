package viewcache

import (
	"log/slog"

	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// EventSummary is the per-event view-model served to dashboards: the event
// itself, how many athletes are enrolled across all academies, and the
// requesting academy's own enrollment when it has one.
type EventSummary struct {
	Event            event.Event
	TotalEnrolled    int
	MyEnrollment     *enrollment.Enrollment
	MyEnrollmentSize int
}

// Aggregate joins events with enrollments and computes one EventSummary per
// event, preserving the input event order. principalID selects the "my
// enrollment" fields; empty means no principal (public view).
//
// TotalEnrolled sums athlete counts over every enrollment referencing the
// event. Enrollments referencing an event id absent from events contribute
// nothing. Multiple enrollments for one (event, academy) pair are a
// data-integrity violation: a warning is logged and the most recently
// updated one is treated as canonical, later scan position winning ties.
func Aggregate(events []event.Event, enrollments []enrollment.Enrollment, principalID string) []EventSummary {
	summaries := make([]EventSummary, 0, len(events))
	for _, ev := range events {
		s := EventSummary{Event: ev}
		for i := range enrollments {
			en := &enrollments[i]
			if en.EventID != ev.ID {
				continue
			}
			s.TotalEnrolled += len(en.Athletes)
			if principalID == "" || en.AcademyID != principalID {
				continue
			}
			if s.MyEnrollment != nil {
				slog.Warn("duplicate_enrollment",
					"event_id", ev.ID,
					"academy_id", principalID,
					"kept", canonicalOf(s.MyEnrollment, en).ID,
					"discarded", otherOf(s.MyEnrollment, en).ID)
			}
			if s.MyEnrollment == nil || !en.UpdatedAt.Before(s.MyEnrollment.UpdatedAt) {
				s.MyEnrollment = en
			}
		}
		if s.MyEnrollment != nil {
			s.MyEnrollmentSize = len(s.MyEnrollment.Athletes)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func canonicalOf(current, candidate *enrollment.Enrollment) *enrollment.Enrollment {
	if candidate.UpdatedAt.Before(current.UpdatedAt) {
		return current
	}
	return candidate
}

func otherOf(current, candidate *enrollment.Enrollment) *enrollment.Enrollment {
	if canonicalOf(current, candidate) == current {
		return candidate
	}
	return current
}
