package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/service"
)

// QueryServer handles reads of the read model and token issuance.
type QueryServer struct {
	raceService        service.RaceQueryService
	applicationService service.ApplicationQueryService
	userService        service.UserQueryService
	tokenService       service.TokenService
	verifier           auth.Verifier
}

// NewQueryServer creates a new query API server.
func NewQueryServer(
	raceService service.RaceQueryService,
	applicationService service.ApplicationQueryService,
	userService service.UserQueryService,
	tokenService service.TokenService,
	verifier auth.Verifier,
) *QueryServer {
	return &QueryServer{
		raceService:        raceService,
		applicationService: applicationService,
		userService:        userService,
		tokenService:       tokenService,
		verifier:           verifier,
	}
}

// Routes returns the query API handler.
func (s *QueryServer) Routes() http.Handler {
	admin := auth.RequireRole(s.verifier, model.RoleAdministrator)
	anyRole := auth.RequireRole(s.verifier, model.RoleApplicant, model.RoleAdministrator)

	mux := http.NewServeMux()
	mux.Handle("GET /api/v1/races", anyRole(http.HandlerFunc(s.ListRaces)))
	mux.Handle("GET /api/v1/races/{id}", anyRole(http.HandlerFunc(s.GetRace)))
	mux.Handle("GET /api/v1/applications", anyRole(http.HandlerFunc(s.ListApplications)))
	mux.Handle("GET /api/v1/applications/{id}", anyRole(http.HandlerFunc(s.GetApplication)))
	mux.Handle("GET /api/v1/users", admin(http.HandlerFunc(s.ListUsers)))
	mux.HandleFunc("POST /auth/token", s.IssueToken)
	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// ListRaces handles GET /api/v1/races.
func (s *QueryServer) ListRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.raceService.ListRaces(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, races)
}

// GetRace handles GET /api/v1/races/{id}.
func (s *QueryServer) GetRace(w http.ResponseWriter, r *http.Request) {
	race, err := s.raceService.GetRace(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, race)
}

// ListApplications handles GET /api/v1/applications.
func (s *QueryServer) ListApplications(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	apps, err := s.applicationService.ListApplications(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// GetApplication handles GET /api/v1/applications/{id}.
func (s *QueryServer) GetApplication(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	app, err := s.applicationService.GetApplication(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// ListUsers handles GET /api/v1/users.
func (s *QueryServer) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

type tokenRequest struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// IssueToken handles POST /auth/token.
func (s *QueryServer) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.tokenService.IssueToken(r.Context(), req.Email, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "tokenType": "Bearer"})
}
