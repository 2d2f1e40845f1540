package main

import (
	"net/http"
	"time"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/httputil"
	"github.com/AdamBeresnev/bracket-engine/internal/middleware"
	"github.com/AdamBeresnev/bracket-engine/internal/service"
	"github.com/AdamBeresnev/bracket-engine/internal/store"
	"github.com/AdamBeresnev/bracket-engine/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type deleteRequest struct {
	Remark string `json:"remark"`
}

type winnerRequest struct {
	WinnerID string `json:"winner_id"`
}

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

func newRouter(database, reader *sqlx.DB) http.Handler {
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := service.NewTournamentService(database, tournamentStore)
	participantService := service.NewParticipantService(database, tournamentStore)
	matchService := service.NewMatchService(database, tournamentStore)
	fixtureService := service.NewFixtureService(reader, tournamentStore)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateTournamentInput
		if err := httputil.DecodeJSON(r, &in); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		data, err := tournamentService.CreateTournament(r.Context(), in)
		if err != nil {
			httputil.WriteError(w, "Failed to create tournament", err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, data)
	})

	r.Route("/api/tournaments/{id}", func(r chi.Router) {
		r.Use(middleware.RequireTournamentID("id"))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			data, err := tournamentService.GetTournament(r.Context(), tournamentID(r))
			if err != nil {
				httputil.WriteError(w, "Failed to get tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, data)
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			var req deleteRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			tournament, err := tournamentService.DeleteTournament(r.Context(), tournamentID(r), req.Remark)
			if err != nil {
				httputil.WriteError(w, "Failed to delete tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, tournament)
		})

		r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
			tournament, err := tournamentService.StartTournament(r.Context(), tournamentID(r))
			if err != nil {
				httputil.WriteError(w, "Failed to start tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, tournament)
		})

		r.Post("/restore", func(w http.ResponseWriter, r *http.Request) {
			tournament, err := tournamentService.RestoreTournament(r.Context(), tournamentID(r))
			if err != nil {
				httputil.WriteError(w, "Failed to restore tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, tournament)
		})

		r.Post("/participants", func(w http.ResponseWriter, r *http.Request) {
			var in service.ParticipantInput
			if err := httputil.DecodeJSON(r, &in); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			result, err := participantService.AddParticipant(r.Context(), tournamentID(r), in)
			if err != nil {
				httputil.WriteError(w, "Failed to add participant", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, result)
		})

		r.Delete("/participants/{participantID}", func(w http.ResponseWriter, r *http.Request) {
			participantID, err := uuid.Parse(chi.URLParam(r, "participantID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid participant ID", err)
				return
			}
			result, err := participantService.RemoveParticipant(r.Context(), tournamentID(r), participantID)
			if err != nil {
				httputil.WriteError(w, "Failed to remove participant", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, result)
		})

		r.Post("/matches/{matchID}/winner", func(w http.ResponseWriter, r *http.Request) {
			matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match ID", err)
				return
			}
			var req winnerRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			winnerID, err := uuid.Parse(req.WinnerID)
			if err != nil {
				httputil.BadRequest(w, "Invalid winner ID", err)
				return
			}
			result, err := matchService.ReportWinner(r.Context(), tournamentID(r), matchID, winnerID)
			if err != nil {
				httputil.WriteError(w, "Failed to report winner", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, result)
		})

		r.Put("/matches/{matchID}/schedule", func(w http.ResponseWriter, r *http.Request) {
			matchID, err := uuid.Parse(chi.URLParam(r, "matchID"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match ID", err)
				return
			}
			var req scheduleRequest
			if err := httputil.DecodeJSON(r, &req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if req.ScheduledAt.IsZero() {
				httputil.BadRequest(w, "scheduled_at is required", nil)
				return
			}
			match, err := matchService.ScheduleMatch(r.Context(), tournamentID(r), matchID, req.ScheduledAt)
			if err != nil {
				httputil.WriteError(w, "Failed to schedule match", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, match)
		})

		r.Get("/fixtures", func(w http.ResponseWriter, r *http.Request) {
			side := bracket.BracketSide(r.URL.Query().Get("bracket"))
			fixtures, err := fixtureService.GetFixtures(r.Context(), tournamentID(r), side)
			if err != nil {
				httputil.WriteError(w, "Failed to get fixtures", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, fixtures)
		})
	})

	r.With(middleware.RequireTournamentID("id")).Get("/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		view, err := fixtureService.GetBracketView(r.Context(), tournamentID(r))
		if err != nil {
			httputil.WriteError(w, "Failed to get tournament", err)
			return
		}
		if err := views.Render(w, r, views.BracketPage(views.PrepareBracketData(view.Tournament, view.Brackets))); err != nil {
			httputil.InternalServerError(w, "Failed to render bracket", err)
		}
	})

	return r
}

func tournamentID(r *http.Request) string {
	id, _ := middleware.GetTournamentIDFromContext(r.Context())
	return id
}
