package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/bugnest/bugnest/pkg/domain/interfaces"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/auth"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/go-chi/chi/v5"
)

type feedItemResponse struct {
	ID                string    `json:"id"`
	ContentType       string    `json:"content_type"`
	ContentID         string    `json:"content_id"`
	Label             string    `json:"label"`
	Link              string    `json:"link"`
	MentionedBy       string    `json:"mentioned_by"`
	MentionedByUserID string    `json:"mentioned_by_user_id"`
	Summary           string    `json:"summary"`
	Seen              bool      `json:"seen"`
	CreatedAt         time.Time `json:"created_at"`
}

// feedHandler returns the acting user's notification feed. A disabled store answers
// {"supported": false} so the UI can show its "coming soon" state.
func feedHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	type response struct {
		Supported bool               `json:"supported"`
		Unread    int                `json:"unread"`
		Items     []feedItemResponse `json:"items"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.UserIDFromContext(r.Context())
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		feed, err := uc.FetchFor(r.Context(), actor)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		items := feed.Items()
		resp := response{
			Supported: feed.Supported(),
			Unread:    feed.UnreadCount(),
			Items:     make([]feedItemResponse, len(items)),
		}
		for i, item := range items {
			n := item.Notification
			resp.Items[i] = feedItemResponse{
				ID:                string(n.ID),
				ContentType:       n.ContentType.String(),
				ContentID:         n.ContentID,
				Label:             item.Label,
				Link:              item.Link,
				MentionedBy:       item.MentionedBy,
				MentionedByUserID: string(n.MentionedByUserID),
				Summary:           item.Summary,
				Seen:              n.Seen,
				CreatedAt:         n.CreatedAt,
			}
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

// markSeenHandler marks one of the acting user's notifications seen; repeating the call is
// harmless. Notifications of other users answer 404.
func markSeenHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.UserIDFromContext(r.Context())
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		id := model.NotificationID(chi.URLParam(r, "id"))

		if err := uc.MarkSeen(r.Context(), actor, id); err != nil {
			if errors.Is(err, interfaces.ErrNotificationNotFound) {
				writeError(w, r, http.StatusNotFound, "notification not found")
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// markAllSeenHandler marks every notification of the acting user seen
func markAllSeenHandler(uc *usecase.NotificationUseCase) http.HandlerFunc {
	type response struct {
		Changed int `json:"changed"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.UserIDFromContext(r.Context())
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		changed, err := uc.MarkAllSeen(r.Context(), actor)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, response{Changed: changed})
	}
}
