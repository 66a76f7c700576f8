package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/middleware"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/orchestrators"
)

// enrollDeps assembles the shared dependency set for the enrollment
// orchestrators from the package globals.
func enrollDeps() orchestrators.EnrollDeps {
	return orchestrators.EnrollDeps{
		EventStore:      stores.EventStore,
		EnrollmentStore: stores.EnrollmentStore,
		Invalidator:     views.Invalidator,
		Email:           emailSender,
		EmailFrom:       emailFromAddress,
		Now:             timeNow,
	}
}

// enrollmentError maps enrollment orchestrator sentinels to HTTP statuses.
func enrollmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrEnrollmentClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, orchestrators.ErrEnrollmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, orchestrators.ErrNotEnrollmentOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, orchestrators.ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

// athleteRequest is the wire form of one athlete submitted by a delegate.
type athleteRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	DNI       string  `json:"dni"`
	BirthDate string  `json:"birthDate"` // YYYY-MM-DD
	WeightKG  float64 `json:"weightKg"`
	Belt      string  `json:"belt"`
	Sex       string  `json:"sex"`
	Modality  string  `json:"modality"`
}

func (a athleteRequest) toInput() orchestrators.AthleteInput {
	return orchestrators.AthleteInput{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		DNI:       a.DNI,
		BirthDate: a.BirthDate,
		WeightKG:  a.WeightKG,
		Belt:      a.Belt,
		Sex:       a.Sex,
		Modality:  a.Modality,
	}
}

// handleDashboardEvents handles GET /api/dashboard/events.
// Serves the upcoming-events page from the dashboard view cache, with the
// caller's own enrollment attached per event.
func handleDashboardEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	summaries, err := views.Dashboard.EventsFor(r.Context(), sess.AccountID)
	if err != nil {
		cacheError(w, err)
		return
	}

	now := timeNow()
	out := make([]eventJSON, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryToJSON(s, now, true))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// handleDashboardStats handles GET /api/dashboard/stats.
func handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	stats, err := orchestrators.ExecuteAcademyStats(r.Context(), sess.AccountID,
		orchestrators.AcademyStatsDeps{
			EnrollmentStore: stores.EnrollmentStore,
			EventStore:      stores.EventStore,
			Now:             timeNow,
		})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleEnrollments handles /api/enrollments.
// POST adds one athlete to the caller's enrollment for an event, creating
// the enrollment when none exists yet. DELETE cancels a whole enrollment;
// admins may cancel any academy's enrollment.
func handleEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	switch r.Method {
	case "POST":
		if !middleware.IsAcademy(ctx) {
			http.Error(w, "only academies can enroll athletes", http.StatusForbidden)
			return
		}

		var req struct {
			EventID string         `json:"eventId"`
			Athlete athleteRequest `json:"athlete"`
			Notify  bool           `json:"notify"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		input := orchestrators.EnrollAthleteInput{
			EventID: req.EventID,
			Athlete: req.Athlete.toInput(),
		}
		if req.Notify {
			input.NotifyEmail = sess.Email
		}

		enrollmentID, err := orchestrators.ExecuteEnrollAthlete(ctx, input, sess.AccountID, enrollDeps())
		if err != nil {
			enrollmentError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"enrollmentId": enrollmentID})

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		err := orchestrators.ExecuteCancelEnrollment(ctx, id, sess.AccountID, middleware.IsAdmin(ctx), enrollDeps())
		if err != nil {
			enrollmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleEnrollmentAthletes handles /api/enrollments/athletes.
// PUT replaces one athlete in the caller's enrollment, re-deriving the
// competition categories. DELETE removes one athlete; removing the last
// athlete deletes the enrollment itself.
func handleEnrollmentAthletes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	switch r.Method {
	case "PUT":
		var req struct {
			EnrollmentID string         `json:"enrollmentId"`
			Index        int            `json:"index"`
			Athlete      athleteRequest `json:"athlete"`
		}
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		input := orchestrators.UpdateAthleteInput{
			EnrollmentID: req.EnrollmentID,
			AthleteIndex: req.Index,
			Athlete:      req.Athlete.toInput(),
		}
		if err := orchestrators.ExecuteUpdateAthlete(ctx, input, sess.AccountID, enrollDeps()); err != nil {
			enrollmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})

	case "DELETE":
		id := r.URL.Query().Get("id")
		indexStr := r.URL.Query().Get("index")
		if id == "" || indexStr == "" {
			http.Error(w, "id and index are required", http.StatusBadRequest)
			return
		}
		index, err := strconv.Atoi(indexStr)
		if err != nil {
			http.Error(w, "index must be a number", http.StatusBadRequest)
			return
		}

		input := orchestrators.RemoveAthleteInput{EnrollmentID: id, AthleteIndex: index}
		if err := orchestrators.ExecuteRemoveAthlete(ctx, input, sess.AccountID, enrollDeps()); err != nil {
			enrollmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
