package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/blob"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/viewcache"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/enrollment"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/event"
)

// athleteJSON is the wire shape of one roster entry.
type athleteJSON struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DNI            string  `json:"dni"`
	BirthDate      string  `json:"birthDate"` // YYYY-MM-DD
	WeightKG       float64 `json:"weightKg"`
	Belt           string  `json:"belt"`
	Sex            string  `json:"sex"`
	Modality       string  `json:"modality"`
	Age            int     `json:"age"`
	AgeDivision    string  `json:"ageDivision"`
	Level          string  `json:"level"`
	WeightCategory string  `json:"weightCategory"`
}

// enrollmentJSON is the wire shape of one academy's roster for one event.
type enrollmentJSON struct {
	ID        string        `json:"id"`
	EventID   string        `json:"eventId"`
	AcademyID string        `json:"academyId"`
	Athletes  []athleteJSON `json:"athletes"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// eventJSON is the wire shape of one event, optionally with the caller's
// own enrollment attached.
type eventJSON struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Date                 string          `json:"date"`
	RegistrationDeadline string          `json:"registrationDeadline,omitempty"`
	Country              string          `json:"country"`
	City                 string          `json:"city"`
	Venue                string          `json:"venue"`
	Modality             string          `json:"modality"`
	Description          string          `json:"description"`
	DescriptionHTML      string          `json:"descriptionHtml"`
	ImageURL             string          `json:"imageUrl,omitempty"`
	AcceptsEnrollments   bool            `json:"acceptsEnrollments"`
	TotalEnrolled        int             `json:"totalEnrolled"`
	MyEnrollment         *enrollmentJSON `json:"myEnrollment,omitempty"`
	MyEnrollmentSize     int             `json:"myEnrollmentSize"`
}

func athleteToJSON(a enrollment.Athlete) athleteJSON {
	return athleteJSON{
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		DNI:            a.DNI,
		BirthDate:      a.BirthDate.Format("2006-01-02"),
		WeightKG:       a.WeightKG,
		Belt:           a.Belt,
		Sex:            a.Sex,
		Modality:       a.Modality,
		Age:            a.Age,
		AgeDivision:    a.AgeDivision,
		Level:          a.Level,
		WeightCategory: a.WeightCategory,
	}
}

func enrollmentToJSON(e enrollment.Enrollment) *enrollmentJSON {
	athletes := make([]athleteJSON, 0, len(e.Athletes))
	for _, a := range e.Athletes {
		athletes = append(athletes, athleteToJSON(a))
	}
	return &enrollmentJSON{
		ID:        e.ID,
		EventID:   e.EventID,
		AcademyID: e.AcademyID,
		Athletes:  athletes,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func eventToJSON(e event.Event, now time.Time) eventJSON {
	out := eventJSON{
		ID:                 e.ID,
		Name:               e.Name,
		Date:               e.Date.UTC().Format(time.RFC3339),
		Country:            e.Country,
		City:               e.City,
		Venue:              e.Venue,
		Modality:           e.Modality,
		Description:        e.Description,
		DescriptionHTML:    renderMarkdown(e.Description),
		AcceptsEnrollments: e.AcceptsEnrollments(now),
	}
	if !e.RegistrationDeadline.IsZero() {
		out.RegistrationDeadline = e.RegistrationDeadline.UTC().Format(time.RFC3339)
	}
	if e.ImagePath != "" {
		out.ImageURL = "/api/events/image?id=" + url.QueryEscape(e.ID)
	}
	return out
}

func summaryToJSON(s viewcache.EventSummary, now time.Time, includeMine bool) eventJSON {
	out := eventToJSON(s.Event, now)
	out.TotalEnrolled = s.TotalEnrolled
	if includeMine && s.MyEnrollment != nil {
		out.MyEnrollment = enrollmentToJSON(*s.MyEnrollment)
		out.MyEnrollmentSize = s.MyEnrollmentSize
	}
	return out
}

// cacheError maps a view cache failure to an HTTP response.
func cacheError(w http.ResponseWriter, err error) {
	if errors.Is(err, viewcache.ErrUnavailable) {
		http.Error(w, "events are temporarily unavailable, try again", http.StatusServiceUnavailable)
		return
	}
	internalError(w, err)
}

// handlePublicEvents handles GET /api/events.
// Serves the upcoming-events page from the public view cache. No ownership
// data is ever attached here.
func handlePublicEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	summaries, err := views.Public.Events(r.Context())
	if err != nil {
		cacheError(w, err)
		return
	}

	now := timeNow()
	out := make([]eventJSON, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryToJSON(s, now, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// handleEventImage handles GET /api/events/image?id=<event-id>.
// Streams the stored poster for an event.
func handleEventImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	ev, err := stores.EventStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if ev.ImagePath == "" {
		http.Error(w, "no poster for this event", http.StatusNotFound)
		return
	}

	data, err := blobs.Load(ev.ImagePath)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.Error(w, "poster not available", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(data)
}
