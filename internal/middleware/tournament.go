package middleware

import (
	"context"
	"net/http"

	"github.com/AdamBeresnev/bracket-engine/internal/bracket"
	"github.com/AdamBeresnev/bracket-engine/internal/httputil"
	"github.com/go-chi/chi/v5"
)

type ContextKey string

const TournamentIDKey ContextKey = "tournamentID"

func RequireTournamentID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)
			if !bracket.ValidTournamentID(id) {
				httputil.BadRequest(w, "Invalid tournament ID", nil)
				return
			}

			ctx := context.WithValue(r.Context(), TournamentIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetTournamentIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(TournamentIDKey)
	if val == nil {
		return "", false
	}

	id, ok := val.(string)
	return id, ok
}
