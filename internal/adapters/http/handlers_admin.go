package web

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/middleware"
	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/perf"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/listutil"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/orchestrators"
	academyDomain "github.com/saren-devv/mexxus-arena-sub001/internal/domain/academy"
)

// handleAdminEvents handles /api/admin/events.
// GET lists every event with enrollment totals from the admin view cache.
// POST creates or updates an event from a multipart form; a file field named
// "image" replaces the poster. DELETE removes an event and all its
// enrollments.
func handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		summaries, err := views.Admin.Summaries(ctx)
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

	case "POST":
		sess, _ := middleware.GetSessionFromContext(ctx)

		const maxUpload = 6 << 20 // 6 MB to allow for 5 MB poster + form overhead
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, "request too large or malformed", http.StatusBadRequest)
			return
		}

		input := orchestrators.SaveEventInput{
			ID:                   strings.TrimSpace(r.FormValue("id")),
			Name:                 strings.TrimSpace(r.FormValue("name")),
			Date:                 strings.TrimSpace(r.FormValue("date")),
			RegistrationDeadline: strings.TrimSpace(r.FormValue("registrationDeadline")),
			Country:              strings.TrimSpace(r.FormValue("country")),
			City:                 strings.TrimSpace(r.FormValue("city")),
			Venue:                strings.TrimSpace(r.FormValue("venue")),
			Modality:             strings.TrimSpace(r.FormValue("modality")),
			Description:          r.FormValue("description"),
		}

		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			const maxPoster = 5 << 20 // 5 MB
			if header.Size > maxPoster {
				http.Error(w, "poster must be under 5 MB", http.StatusBadRequest)
				return
			}
			ct := header.Header.Get("Content-Type")
			if ct != "image/png" && ct != "image/jpeg" && ct != "image/webp" {
				http.Error(w, "poster must be an image (png, jpeg, webp)", http.StatusBadRequest)
				return
			}
			input.Image = file
		}

		deps := orchestrators.SaveEventDeps{
			EventStore:  stores.EventStore,
			Blobs:       blobs,
			Invalidator: views.Invalidator,
			Now:         timeNow,
		}
		eventID, err := orchestrators.ExecuteSaveEvent(ctx, input, sess.AccountID, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrEventNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		status := http.StatusOK
		if input.ID == "" {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]string{"eventId": eventID})

	case "DELETE":
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}

		deps := orchestrators.DeleteEventDeps{
			EventStore:      stores.EventStore,
			EnrollmentStore: stores.EnrollmentStore,
			Blobs:           blobs,
			Invalidator:     views.Invalidator,
		}
		if err := orchestrators.ExecuteDeleteEvent(ctx, id, deps); err != nil {
			if errors.Is(err, orchestrators.ErrEventNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// rosterEntry is one academy's delegation within an event roster.
type rosterEntry struct {
	EnrollmentID        string        `json:"enrollmentId"`
	AcademyID           string        `json:"academyId"`
	AcademyName         string        `json:"academyName"`
	AcademyAbbreviation string        `json:"academyAbbreviation"`
	Athletes            []athleteJSON `json:"athletes"`
	UpdatedAt           string        `json:"updatedAt"`
}

// handleAdminEventRoster handles GET /api/admin/events/roster?id=<event-id>.
// Returns every academy's delegation for the event, with academy names
// joined in for display.
func handleAdminEventRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	ev, err := stores.EventStore.GetByID(ctx, id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	enrollments, err := stores.EnrollmentStore.ListByEvent(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}

	academies, err := stores.AcademyStore.ListAll(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	type academyName struct{ name, abbreviation string }
	names := make(map[string]academyName, len(academies))
	for _, a := range academies {
		names[a.ID] = academyName{name: a.Name, abbreviation: a.Abbreviation}
	}

	entries := make([]rosterEntry, 0, len(enrollments))
	total := 0
	for _, enr := range enrollments {
		athletes := make([]athleteJSON, 0, len(enr.Athletes))
		for _, a := range enr.Athletes {
			athletes = append(athletes, athleteToJSON(a))
		}
		total += len(enr.Athletes)
		n := names[enr.AcademyID]
		entries = append(entries, rosterEntry{
			EnrollmentID:        enr.ID,
			AcademyID:           enr.AcademyID,
			AcademyName:         n.name,
			AcademyAbbreviation: n.abbreviation,
			Athletes:            athletes,
			UpdatedAt:           enr.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"eventId":       ev.ID,
		"eventName":     ev.Name,
		"totalEnrolled": total,
		"enrollments":   entries,
	})
}

// handleAdminStats handles GET /api/admin/stats.
func handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := orchestrators.ExecuteAdminStats(r.Context(),
		orchestrators.AdminStatsDeps{Admin: views.Admin, Now: timeNow})
	if err != nil {
		cacheError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// academySortColumns are the columns GET /api/admin/academies accepts in
// its sort parameter.
var academySortColumns = []string{"name", "abbreviation", "representative", "registeredAt"}

// handleAdminAcademies handles GET /api/admin/academies.
// Supports q (matches name, abbreviation, or representative), sort, dir,
// page, and per_page query parameters.
func handleAdminAcademies(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	academies, err := stores.AcademyStore.ListAll(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	params := listutil.ParseListParams(r.URL.Query(), academySortColumns, nil)
	if params.Search != "" {
		needle := strings.ToLower(params.Search)
		kept := academies[:0]
		for _, a := range academies {
			if strings.Contains(strings.ToLower(a.Name), needle) ||
				strings.Contains(strings.ToLower(a.Abbreviation), needle) ||
				strings.Contains(strings.ToLower(a.RepresentativeName), needle) {
				kept = append(kept, a)
			}
		}
		academies = kept
	}

	// ListAll already returns name order; re-sort only when asked for
	// another column or direction.
	if params.Sort != "" {
		less := func(a, b academyDomain.Academy) bool {
			switch params.Sort {
			case "abbreviation":
				return a.Abbreviation < b.Abbreviation
			case "representative":
				return a.RepresentativeName < b.RepresentativeName
			case "registeredAt":
				return a.CreatedAt.Before(b.CreatedAt)
			default:
				return a.Name < b.Name
			}
		}
		sort.SliceStable(academies, func(i, j int) bool {
			if params.Dir == "desc" {
				return less(academies[j], academies[i])
			}
			return less(academies[i], academies[j])
		})
	}

	pageInfo := listutil.NewPageInfo(params.Page, params.PerPage, len(academies))
	academies = academies[pageInfo.Offset():pageInfo.EndRow()]

	type academyOut struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		Abbreviation       string `json:"abbreviation"`
		RepresentativeName string `json:"representativeName"`
		RepresentativeDNI  string `json:"representativeDni"`
		Phone              string `json:"phone,omitempty"`
		Email              string `json:"email,omitempty"`
		RegisteredAt       string `json:"registeredAt"`
	}
	out := make([]academyOut, 0, len(academies))
	for _, a := range academies {
		out = append(out, academyOut{
			ID:                 a.ID,
			Name:               a.Name,
			Abbreviation:       a.Abbreviation,
			RepresentativeName: a.RepresentativeName,
			RepresentativeDNI:  a.RepresentativeDNI,
			Phone:              a.Phone,
			Email:              a.Email,
			RegisteredAt:       a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"academies":  out,
		"page":       pageInfo.Page,
		"totalPages": pageInfo.TotalPages,
		"total":      pageInfo.Total,
		"pagination": map[string]any{
			"perPage":     pageInfo.PerPage,
			"startRow":    pageInfo.StartRow(),
			"endRow":      pageInfo.EndRow(),
			"pageNumbers": pageInfo.PageNumbers(),
			"show":        pageInfo.ShowPagination(),
		},
	})
}

// pathStatJSON is one aggregated path or store call in the perf report.
type pathStatJSON struct {
	Path  string  `json:"path"`
	AvgMs float64 `json:"avgMs"`
	MaxMs float64 `json:"maxMs"`
	Count int     `json:"count"`
}

func pathStatsToJSON(stats []perf.PathStat) []pathStatJSON {
	out := make([]pathStatJSON, 0, len(stats))
	for _, s := range stats {
		out = append(out, pathStatJSON{Path: s.Path, AvgMs: s.AvgMs, MaxMs: s.MaxMs, Count: s.Count})
	}
	return out
}

// handleAdminPerf handles GET /api/admin/perf.
// Aggregates the timing ring buffer into request percentiles and the slowest
// handler paths and store calls. minutes bounds the window (default 60),
// top bounds the list lengths (default 10).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "timing data unavailable", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	minutes, _ := strconv.Atoi(q.Get("minutes"))
	if minutes < 1 || minutes > 24*60 {
		minutes = 60
	}
	topN, _ := strconv.Atoi(q.Get("top"))
	if topN < 1 || topN > 50 {
		topN = 10
	}

	snap := perfCollector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), topN)
	writeJSON(w, http.StatusOK, map[string]any{
		"windowMinutes":  minutes,
		"totalRecorded":  snap.TotalRequests,
		"requestP50Ms":   snap.RequestP50Ms,
		"requestP95Ms":   snap.RequestP95Ms,
		"requestP99Ms":   snap.RequestP99Ms,
		"slowestPaths":   pathStatsToJSON(snap.SlowestPaths),
		"slowestQueries": pathStatsToJSON(snap.SlowestQueries),
	})
}
