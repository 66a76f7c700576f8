package web

import (
	"net/http"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/middleware"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
)

// registerRoutes attaches every API route to the mux. Public routes are
// registered bare; academy and admin routes go through the role middleware.
func registerRoutes(mux *http.ServeMux) {
	academyOnly := middleware.RequireRole(account.RoleAcademy)
	adminOnly := middleware.RequireRole(account.RoleAdmin)
	anyRole := middleware.RequireRole(account.RoleAcademy, account.RoleAdmin)

	// Public
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/register", handleRegister)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/events", handlePublicEvents)
	mux.HandleFunc("/api/events/image", handleEventImage)
	mux.Handle("/metrics", http.HandlerFunc(handleMetrics))

	// Academy dashboard
	mux.Handle("/api/dashboard/events", academyOnly(http.HandlerFunc(handleDashboardEvents)))
	mux.Handle("/api/dashboard/stats", academyOnly(http.HandlerFunc(handleDashboardStats)))
	mux.Handle("/api/password", anyRole(http.HandlerFunc(handleChangePassword)))
	mux.Handle("/api/enrollments", anyRole(http.HandlerFunc(handleEnrollments)))
	mux.Handle("/api/enrollments/athletes", academyOnly(http.HandlerFunc(handleEnrollmentAthletes)))

	// Admin panel
	mux.Handle("/api/admin/events", adminOnly(http.HandlerFunc(handleAdminEvents)))
	mux.Handle("/api/admin/events/roster", adminOnly(http.HandlerFunc(handleAdminEventRoster)))
	mux.Handle("/api/admin/stats", adminOnly(http.HandlerFunc(handleAdminStats)))
	mux.Handle("/api/admin/academies", adminOnly(http.HandlerFunc(handleAdminAcademies)))
	mux.Handle("/api/admin/perf", adminOnly(http.HandlerFunc(handleAdminPerf)))
}
