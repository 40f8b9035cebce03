package errutil_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bugnest/bugnest/pkg/utils/errutil"
	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	t.Run("nil error", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
	})

	t.Run("goerr values are logged", func(t *testing.T) {
		buf.Reset()
		src := goerr.New("boom", goerr.V("content_id", "bug-42"))
		err := errutil.Handle(ctx, src, "failed to persist")
		gt.Bool(t, errors.Is(err, src)).True()
		gt.String(t, buf.String()).Contains("failed to persist")
		gt.String(t, buf.String()).Contains("bug-42")
	})
}

func TestHandle_SentryContext(t *testing.T) {
	var events []*sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	gt.NoError(t, err).Required()

	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	errutil.Handle(ctx, goerr.New("boom", goerr.V("content_id", "bug-42")), "failed to persist")

	gt.Array(t, events).Length(1).Required()
	gt.Value(t, events[0].Tags["message"]).Equal("failed to persist")
	values, ok := events[0].Contexts["goerr"]
	gt.Bool(t, ok).True()
	gt.Value(t, values["content_id"]).Equal(any("bug-42"))
}

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, errors.New("bad input"), http.StatusBadRequest)

	gt.Value(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Body.String()).Contains("bad input")
}
