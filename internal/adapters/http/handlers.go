package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/saren-devv/mexxus-arena-sub001/internal/adapters/http/middleware"
	"github.com/saren-devv/mexxus-arena-sub001/internal/application/orchestrators"
	"github.com/saren-devv/mexxus-arena-sub001/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts an event description to HTML, falling back to the
// raw text on renderer errors.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleHealth handles GET /api/health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics serves the Prometheus scrape endpoint.
func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if metricsHandler == nil {
		http.NotFound(w, r)
		return
	}
	metricsHandler.ServeHTTP(w, r)
}

// handleRegister handles POST /api/register.
// Creates the academy's login account and profile in one step and opens a
// session so the delegate lands on the dashboard signed in.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email              string `json:"email"`
		Password           string `json:"password"`
		Name               string `json:"name"`
		Abbreviation       string `json:"abbreviation"`
		RepresentativeName string `json:"representativeName"`
		RepresentativeDNI  string `json:"representativeDni"`
		Phone              string `json:"phone"`
		ContactEmail       string `json:"contactEmail"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterAcademyInput{
		Email:              req.Email,
		Password:           req.Password,
		Name:               req.Name,
		Abbreviation:       req.Abbreviation,
		RepresentativeName: req.RepresentativeName,
		RepresentativeDNI:  req.RepresentativeDNI,
		Phone:              req.Phone,
		ContactEmail:       req.ContactEmail,
	}
	deps := orchestrators.RegisterAcademyDeps{
		AccountStore: stores.AccountStore,
		AcademyStore: stores.AcademyStore,
		Invalidator:  views.Invalidator,
		Email:        emailSender,
		EmailFrom:    emailFromAddress,
		Now:          timeNow,
	}

	accountID, err := orchestrators.ExecuteRegisterAcademy(r.Context(), input, deps)
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrEmailAlreadyExists),
			errors.Is(err, orchestrators.ErrAbbreviationAlreadyExists),
			errors.Is(err, orchestrators.ErrDNIAlreadyExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	token, err := sessions.Create(accountID, req.Email, account.RoleAcademy)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessionMaxAge)

	writeJSON(w, http.StatusCreated, map[string]string{
		"accountId": accountID,
		"role":      account.RoleAcademy,
	})
}

// handleLogin handles POST /api/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(),
		orchestrators.LoginInput{Email: req.Email, Password: req.Password},
		orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessionMaxAge)

	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": result.AccountID,
		"role":      result.Role,
	})
}

// handleChangePassword handles POST /api/password.
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), input,
		orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrCurrentPasswordWrong) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
