package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dakka24/dakka/internal/client"
	"github.com/dakka24/dakka/internal/gateway"
)

// VideoHandler serves read-only JSON snapshots of the collections. Every call
// goes to the backend; nothing is cached.
type VideoHandler struct {
	Users            gateway.UserRows
	Media            gateway.MediaRows
	Comments         gateway.CommentRows
	LeaderboardLimit int
}

// Feed handles GET /api/v1/videos.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := client.VideoLoader{Rows: h.Media}.Load(r.Context())
	if err != nil {
		respondJSON(r.Context(), w, http.StatusBadGateway, map[string]string{"error": "failed to load videos"})
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]any{"videos": items})
}

// Leaderboard handles GET /api/v1/leaderboard.
func (h VideoHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := client.LeaderboardLoader{Rows: h.Users, Limit: h.LeaderboardLimit}.Load(r.Context())
	if err != nil {
		respondJSON(r.Context(), w, http.StatusBadGateway, map[string]string{"error": "failed to load leaderboard"})
		return
	}
	// Email is private; the leaderboard only needs display fields.
	for i := range users {
		users[i].Email = ""
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]any{"users": users})
}

// CommentList handles GET /api/v1/videos/{id}/comments.
func (h VideoHandler) CommentList(w http.ResponseWriter, r *http.Request) {
	loader := client.CommentLoader{Rows: h.Comments, VideoID: chi.URLParam(r, "id")}
	comments, err := loader.Load(r.Context())
	if err != nil {
		respondJSON(r.Context(), w, http.StatusBadGateway, map[string]string{"error": "failed to load comments"})
		return
	}
	respondJSON(r.Context(), w, http.StatusOK, map[string]any{"comments": comments})
}
