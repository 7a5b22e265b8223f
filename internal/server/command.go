package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jnst/race-registration/internal/auth"
	"github.com/jnst/race-registration/internal/model"
	"github.com/jnst/race-registration/internal/service"
)

// CommandServer handles write requests. Every accepted write is answered with 202 because the
// read model applies it asynchronously.
type CommandServer struct {
	raceService        service.RaceCommandService
	applicationService service.ApplicationCommandService
	verifier           auth.Verifier
}

// NewCommandServer creates a new command API server.
func NewCommandServer(
	raceService service.RaceCommandService,
	applicationService service.ApplicationCommandService,
	verifier auth.Verifier,
) *CommandServer {
	return &CommandServer{
		raceService:        raceService,
		applicationService: applicationService,
		verifier:           verifier,
	}
}

// Routes returns the command API handler.
func (s *CommandServer) Routes() http.Handler {
	admin := auth.RequireRole(s.verifier, model.RoleAdministrator)
	anyRole := auth.RequireRole(s.verifier, model.RoleApplicant, model.RoleAdministrator)

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/races", admin(http.HandlerFunc(s.CreateRace)))
	mux.Handle("PATCH /api/v1/races/{id}", admin(http.HandlerFunc(s.UpdateRace)))
	mux.Handle("DELETE /api/v1/races/{id}", admin(http.HandlerFunc(s.DeleteRace)))
	mux.Handle("POST /api/v1/applications", anyRole(http.HandlerFunc(s.CreateApplication)))
	mux.Handle("DELETE /api/v1/applications/{id}", anyRole(http.HandlerFunc(s.DeleteApplication)))
	mux.HandleFunc("GET /health", HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// CreateRace handles POST /api/v1/races.
func (s *CommandServer) CreateRace(w http.ResponseWriter, r *http.Request) {
	var params model.CreateRaceParams
	if !decodeJSON(w, r, &params) {
		return
	}

	race, err := s.raceService.CreateRace(r.Context(), &params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, race)
}

// UpdateRace handles PATCH /api/v1/races/{id}.
func (s *CommandServer) UpdateRace(w http.ResponseWriter, r *http.Request) {
	var params model.UpdateRaceParams
	if !decodeJSON(w, r, &params) {
		return
	}

	change, err := s.raceService.UpdateRace(r.Context(), r.PathValue("id"), &params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, change)
}

// DeleteRace handles DELETE /api/v1/races/{id}.
func (s *CommandServer) DeleteRace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.raceService.DeleteRace(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

// CreateApplication handles POST /api/v1/applications.
func (s *CommandServer) CreateApplication(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	var params model.CreateApplicationParams
	if !decodeJSON(w, r, &params) {
		return
	}

	req, err := s.applicationService.CreateApplication(r.Context(), caller, &params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, req)
}

// DeleteApplication handles DELETE /api/v1/applications/{id}.
func (s *CommandServer) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id := r.PathValue("id")

	if err := s.applicationService.DeleteApplication(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}
