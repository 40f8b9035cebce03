package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/auth"
	"github.com/bugnest/bugnest/pkg/domain/model/mention"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/service/compose"
	"github.com/bugnest/bugnest/pkg/service/directory"
	"github.com/bugnest/bugnest/pkg/service/render"
	"github.com/bugnest/bugnest/pkg/service/suggest"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/bugnest/bugnest/pkg/utils/async"
	"github.com/bugnest/bugnest/pkg/utils/errutil"
)

type caretRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// suggestHandler runs trigger detection at the caret and returns the candidates
func suggestHandler(engine *suggest.Engine) http.HandlerFunc {
	type response struct {
		Active     bool           `json:"active"`
		Query      string         `json:"query"`
		Start      int            `json:"start"`
		End        int            `json:"end"`
		Candidates []userResponse `json:"candidates"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req caretRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		// anonymous callers get everyone
		actor, _ := auth.UserIDFromContext(r.Context())

		s, ok := engine.Suggest(req.Text, req.Caret, actor)
		if !ok {
			writeJSON(w, r, http.StatusOK, response{Candidates: []userResponse{}})
			return
		}

		writeJSON(w, r, http.StatusOK, response{
			Active:     true,
			Query:      s.Query,
			Start:      s.Start,
			End:        s.End,
			Candidates: toUserResponses(s.Candidates),
		})
	}
}

// commitHandler splices the chosen user into the text at the active trigger
func commitHandler(dir *directory.Cache) http.HandlerFunc {
	type request struct {
		caretRequest
		UserID string `json:"user_id"`
	}
	type response struct {
		Text  string `json:"text"`
		Caret int    `json:"caret"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		trigger, ok := suggest.Detect(req.Text, req.Caret)
		if !ok {
			writeError(w, r, http.StatusUnprocessableEntity, "no active mention at caret")
			return
		}

		user, ok := dir.Get(model.UserID(req.UserID))
		if !ok {
			writeError(w, r, http.StatusNotFound, "user not found in directory")
			return
		}

		edit, err := compose.Splice(req.Text, trigger, user)
		if err != nil {
			if errors.Is(err, mention.ErrEncoding) {
				writeError(w, r, http.StatusUnprocessableEntity, err.Error())
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, http.StatusOK, response{Text: edit.Text, Caret: edit.Caret})
	}
}

// renderHandler returns the display forms of raw text
func renderHandler() http.HandlerFunc {
	type request struct {
		Text string `json:"text"`
	}
	type mentionResponse struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
	}
	type segmentResponse struct {
		Text    string           `json:"text"`
		Mention *mentionResponse `json:"mention,omitempty"`
	}
	type response struct {
		Display  string            `json:"display"`
		HTML     string            `json:"html"`
		Segments []segmentResponse `json:"segments"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		segments := mention.Segments(req.Text)
		resp := response{
			Display:  mention.ToDisplayText(req.Text),
			HTML:     render.HTML(req.Text),
			Segments: make([]segmentResponse, len(segments)),
		}
		for i, seg := range segments {
			resp.Segments[i] = segmentResponse{Text: seg.Text}
			if seg.IsMention() {
				resp.Segments[i].Mention = &mentionResponse{
					UserID:      seg.Mention.UserID,
					DisplayName: seg.Mention.DisplayName,
				}
			}
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

// processHandler stores notifications for content the caller has just saved
func processHandler(uc *usecase.MentionUseCase) http.HandlerFunc {
	type request struct {
		Text        string `json:"text"`
		ContentType string `json:"content_type"`
		ContentID   string `json:"content_id"`
	}
	type outcomeResponse struct {
		UserID         string `json:"user_id"`
		NotificationID string `json:"notification_id,omitempty"`
		Error          string `json:"error,omitempty"`
	}
	type response struct {
		Outcomes  []outcomeResponse `json:"outcomes"`
		Persisted int               `json:"persisted"`
		Failed    int               `json:"failed"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		ct, err := types.ParseContentType(req.ContentType)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		actor, err := auth.UserIDFromContext(r.Context())
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		if preferAsync(r) {
			if req.ContentID == "" {
				writeError(w, r, http.StatusBadRequest, usecase.ErrContentIDRequired.Error())
				return
			}
			async.Dispatch(r.Context(), "process_mentions", func(ctx context.Context) error {
				_, err := uc.Process(ctx, req.Text, ct, req.ContentID, actor)
				return err
			})
			w.WriteHeader(http.StatusAccepted)
			return
		}

		report, err := uc.Process(r.Context(), req.Text, ct, req.ContentID, actor)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidContentType) ||
				errors.Is(err, usecase.ErrContentIDRequired) ||
				errors.Is(err, usecase.ErrUserIDRequired) {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := response{
			Outcomes:  make([]outcomeResponse, len(report.Outcomes)),
			Persisted: len(report.Persisted()),
			Failed:    len(report.Failed()),
		}
		for i, o := range report.Outcomes {
			resp.Outcomes[i] = outcomeResponse{UserID: string(o.UserID)}
			if o.Notification != nil {
				resp.Outcomes[i].NotificationID = string(o.Notification.ID)
			}
			if o.Err != nil {
				resp.Outcomes[i].Error = o.Err.Error()
			}
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

// preferAsync reports whether the client asked for "Prefer: respond-async" (RFC 7240)
func preferAsync(r *http.Request) bool {
	for _, v := range r.Header.Values("Prefer") {
		for _, pref := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(pref), "respond-async") {
				return true
			}
		}
	}
	return false
}
