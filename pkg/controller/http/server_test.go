package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpctrl "github.com/bugnest/bugnest/pkg/controller/http"
	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/bugnest/bugnest/pkg/repository/memory"
	"github.com/bugnest/bugnest/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T, opts ...memory.Option) (*httpctrl.Server, *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	repo := memory.New(opts...)
	gt.NoError(t, repo.User().SaveMany(ctx, []*model.User{
		{ID: "u1", FullName: "Alice Smith", Nickname: "alice", Role: types.RoleAdmin},
		{ID: "u2", Nickname: "Bob", Role: types.RoleDeveloper},
		{ID: "u3", FullName: "Albert Jones", Role: types.RoleUser},
	})).Required()

	uc := usecase.New(repo)
	uc.Init(ctx)
	return httpctrl.New(uc), repo
}

func doJSON(t *testing.T, srv http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(httpctrl.DefaultUserHeader, user)
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestUsers(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/users", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	resp := decode[struct {
		Available bool `json:"available"`
		Users     []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
			Badge       string `json:"badge"`
		} `json:"users"`
	}](t, w)

	gt.Bool(t, resp.Available).True()
	gt.Array(t, resp.Users).Length(3).Required()
	gt.Value(t, resp.Users[0].DisplayName).Equal("Albert Jones")
	gt.Value(t, resp.Users[1].DisplayName).Equal("alice")
	gt.Value(t, resp.Users[1].Badge).Equal("Admin")
	gt.Value(t, resp.Users[2].Badge).Equal("Dev")
}

type suggestResponse struct {
	Active     bool   `json:"active"`
	Query      string `json:"query"`
	Start      int    `json:"start"`
	Candidates []struct {
		ID string `json:"id"`
	} `json:"candidates"`
}

func TestSuggest(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("active mention", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/suggest", "u2", map[string]any{"text": "hello @al", "caret": 9})
		gt.Value(t, w.Code).Equal(http.StatusOK)

		resp := decode[suggestResponse](t, w)
		gt.Bool(t, resp.Active).True()
		gt.Value(t, resp.Query).Equal("al")
		gt.Value(t, resp.Start).Equal(6)
		gt.Array(t, resp.Candidates).Length(2).Required()
		gt.Value(t, resp.Candidates[0].ID).Equal("u3")
		gt.Value(t, resp.Candidates[1].ID).Equal("u1")
	})

	t.Run("acting user is excluded", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/suggest", "u1", map[string]any{"text": "@al", "caret": 3})
		resp := decode[suggestResponse](t, w)
		gt.Array(t, resp.Candidates).Length(1).Required()
		gt.Value(t, resp.Candidates[0].ID).Equal("u3")
	})

	t.Run("no active mention", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/suggest", "", map[string]any{"text": "email@domain", "caret": 12})
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decode[suggestResponse](t, w)
		gt.Bool(t, resp.Active).False()
		gt.Array(t, resp.Candidates).Length(0)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/mentions/suggest", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestCommit(t *testing.T) {
	srv, _ := newTestServer(t)

	type commitResponse struct {
		Text  string `json:"text"`
		Caret int    `json:"caret"`
	}

	w := doJSON(t, srv, http.MethodPost, "/api/mentions/commit", "u2", map[string]any{
		"text": "hi @al", "caret": 6, "user_id": "u1",
	})
	gt.Value(t, w.Code).Equal(http.StatusOK)
	resp := decode[commitResponse](t, w)
	gt.Value(t, resp.Text).Equal("hi @[alice](u1) ")
	gt.Value(t, resp.Caret).Equal(len("hi @[alice](u1) "))

	t.Run("unknown user", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/commit", "u2", map[string]any{
			"text": "hi @al", "caret": 6, "user_id": "nobody",
		})
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("no trigger", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/commit", "u2", map[string]any{
			"text": "hi al", "caret": 5, "user_id": "u1",
		})
		gt.Value(t, w.Code).Equal(http.StatusUnprocessableEntity)
	})
}

func TestRender(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/mentions/render", "", map[string]any{"text": "Thanks @[Bob](u2) for the fix"})
	gt.Value(t, w.Code).Equal(http.StatusOK)

	resp := decode[struct {
		Display  string `json:"display"`
		HTML     string `json:"html"`
		Segments []struct {
			Text    string `json:"text"`
			Mention *struct {
				UserID string `json:"user_id"`
			} `json:"mention"`
		} `json:"segments"`
	}](t, w)

	gt.Value(t, resp.Display).Equal("Thanks @Bob for the fix")
	gt.String(t, resp.HTML).Contains(`data-user-id="u2"`)
	gt.Array(t, resp.Segments).Length(3).Required()
	gt.Value(t, resp.Segments[1].Mention).NotNil().Required()
	gt.Value(t, resp.Segments[1].Mention.UserID).Equal("u2")
	gt.Value(t, resp.Segments[0].Mention).Nil()
}

type processResponse struct {
	Outcomes []struct {
		UserID         string `json:"user_id"`
		NotificationID string `json:"notification_id"`
	} `json:"outcomes"`
	Persisted int `json:"persisted"`
	Failed    int `json:"failed"`
}

type feedResponse struct {
	Supported bool `json:"supported"`
	Unread    int  `json:"unread"`
	Items     []struct {
		ID          string `json:"id"`
		ContentType string `json:"content_type"`
		ContentID   string `json:"content_id"`
		Link        string `json:"link"`
		MentionedBy string `json:"mentioned_by"`
		Seen        bool   `json:"seen"`
	} `json:"items"`
}

func TestMentionToFeed(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/mentions/process", "u1", map[string]any{
		"text":         "Thanks @[Bob](u2) for the fix, @[Bob](u2) again and @[me](u1)",
		"content_type": "bug_comment",
		"content_id":   "bug-42",
	})
	gt.Value(t, w.Code).Equal(http.StatusOK)
	processed := decode[processResponse](t, w)
	gt.Value(t, processed.Persisted).Equal(1)
	gt.Value(t, processed.Failed).Equal(0)
	gt.Array(t, processed.Outcomes).Length(1).Required()
	gt.Value(t, processed.Outcomes[0].UserID).Equal("u2")

	w = doJSON(t, srv, http.MethodGet, "/api/notifications", "u2", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	feed := decode[feedResponse](t, w)
	gt.Bool(t, feed.Supported).True()
	gt.Value(t, feed.Unread).Equal(1)
	gt.Array(t, feed.Items).Length(1).Required()
	gt.Value(t, feed.Items[0].ContentType).Equal("bug_comment")
	gt.Value(t, feed.Items[0].ContentID).Equal("bug-42")
	gt.Value(t, feed.Items[0].Link).Equal("/bugs/bug-42#comments")
	gt.Value(t, feed.Items[0].MentionedBy).Equal("alice")
	gt.Value(t, feed.Items[0].ID).Equal(processed.Outcomes[0].NotificationID)

	t.Run("notification of another user", func(t *testing.T) {
		path := "/api/notifications/" + feed.Items[0].ID + "/seen"
		gt.Value(t, doJSON(t, srv, http.MethodPost, path, "u3", nil).Code).Equal(http.StatusNotFound)

		after := decode[feedResponse](t, doJSON(t, srv, http.MethodGet, "/api/notifications", "u2", nil))
		gt.Value(t, after.Unread).Equal(1)
	})

	t.Run("mark seen without acting user", func(t *testing.T) {
		path := "/api/notifications/" + feed.Items[0].ID + "/seen"
		gt.Value(t, doJSON(t, srv, http.MethodPost, path, "", nil).Code).Equal(http.StatusUnauthorized)
	})

	t.Run("mark seen twice", func(t *testing.T) {
		path := "/api/notifications/" + feed.Items[0].ID + "/seen"
		gt.Value(t, doJSON(t, srv, http.MethodPost, path, "u2", nil).Code).Equal(http.StatusNoContent)
		gt.Value(t, doJSON(t, srv, http.MethodPost, path, "u2", nil).Code).Equal(http.StatusNoContent)

		after := decode[feedResponse](t, doJSON(t, srv, http.MethodGet, "/api/notifications", "u2", nil))
		gt.Value(t, after.Unread).Equal(0)
		gt.Bool(t, after.Items[0].Seen).True()
	})

	t.Run("unknown notification", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/notifications/"+string(model.NewNotificationID())+"/seen", "u2", nil)
		gt.Value(t, w.Code).Equal(http.StatusNotFound)
	})

	t.Run("mark all seen", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/notifications/seen", "u2", nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		resp := decode[struct {
			Changed int `json:"changed"`
		}](t, w)
		gt.Value(t, resp.Changed).Equal(0)
	})
}

func TestProcess_Async(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	body, err := json.Marshal(map[string]any{
		"text": "ping @[Bob](u2)", "content_type": "bug", "content_id": "bug-7",
	})
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/mentions/process", bytes.NewReader(body))
	req.Header.Set(httpctrl.DefaultUserHeader, "u1")
	req.Header.Set("Prefer", "respond-async")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	gt.Value(t, w.Code).Equal(http.StatusAccepted)

	deadline := time.Now().Add(2 * time.Second)
	for {
		list, err := repo.Notification().ListByUser(ctx, "u2", 10)
		gt.NoError(t, err).Required()
		if len(list) == 1 {
			gt.Value(t, list[0].ContentID).Equal("bug-7")
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("notification was not created in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestProcess_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("requires acting user", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/process", "", map[string]any{
			"text": "@[Bob](u2)", "content_type": "bug", "content_id": "bug-1",
		})
		gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("unknown content type", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/process", "u1", map[string]any{
			"text": "@[Bob](u2)", "content_type": "wiki", "content_id": "w-1",
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("missing content ID", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/mentions/process", "u1", map[string]any{
			"text": "@[Bob](u2)", "content_type": "bug",
		})
		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestNotifications_Disabled(t *testing.T) {
	srv, _ := newTestServer(t, memory.WithoutNotifications())

	w := doJSON(t, srv, http.MethodPost, "/api/mentions/process", "u1", map[string]any{
		"text": "@[Bob](u2)", "content_type": "bug", "content_id": "bug-1",
	})
	gt.Value(t, w.Code).Equal(http.StatusOK)
	processed := decode[processResponse](t, w)
	gt.Array(t, processed.Outcomes).Length(0)

	w = doJSON(t, srv, http.MethodGet, "/api/notifications", "u2", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)
	feed := decode[feedResponse](t, w)
	gt.Bool(t, feed.Supported).False()
	gt.Array(t, feed.Items).Length(0)

	t.Run("requires acting user", func(t *testing.T) {
		gt.Value(t, doJSON(t, srv, http.MethodGet, "/api/notifications", "", nil).Code).Equal(http.StatusUnauthorized)
	})
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, memory.WithoutNotifications())
	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	resp := decode[map[string]any](t, w)
	gt.Value(t, resp["directory_available"]).Equal(any(true))
	gt.Value(t, resp["notifications_supported"]).Equal(any(false))
}
