package slack_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
	"github.com/m-mizutani/urlfetch/pkg/infra/slack"
)

func newReport(outcomes ...model.Outcome) *model.BatchReport {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return model.NewBatchReport("batch-1", started, started.Add(2*time.Second), outcomes)
}

func TestNotifier_Notify(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	report := newReport(
		model.Outcome{URL: "http://example.com/a", Body: []byte("hello")},
		model.Outcome{URL: "http://bad.invalid"},
	)

	err := slack.New(server.URL).Notify(context.Background(), report)
	gt.NoError(t, err)
	gt.String(t, received["text"].(string)).Contains("batch-1")
}

func TestNotifier_Notify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := slack.New(server.URL).Notify(context.Background(), newReport())
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to post slack webhook")
}

func TestBuildMessage(t *testing.T) {
	t.Run("all saved", func(t *testing.T) {
		msg := slack.BuildMessage(newReport(model.Outcome{URL: "http://a", Body: []byte("x")}))
		gt.A(t, msg.Attachments).Length(1)
		gt.Equal(t, msg.Attachments[0].Color, "good")
		gt.A(t, msg.Attachments[0].Fields).Length(4)
	})

	t.Run("partial failure lists urls", func(t *testing.T) {
		msg := slack.BuildMessage(newReport(
			model.Outcome{URL: "http://a", Body: []byte("x")},
			model.Outcome{URL: "http://bad.invalid"},
			model.Outcome{URL: ""},
		))
		gt.Equal(t, msg.Attachments[0].Color, "warning")
		fields := msg.Attachments[0].Fields
		gt.A(t, fields).Length(5)
		gt.String(t, fields[4].Value).Contains("http://bad.invalid")
		gt.String(t, fields[4].Value).Contains("(empty line)")
	})

	t.Run("everything failed", func(t *testing.T) {
		msg := slack.BuildMessage(newReport(model.Outcome{URL: "http://bad.invalid"}))
		gt.Equal(t, msg.Attachments[0].Color, "danger")
	})

	t.Run("long failure list is truncated", func(t *testing.T) {
		var outcomes []model.Outcome
		for i := 0; i < 15; i++ {
			outcomes = append(outcomes, model.Outcome{URL: fmt.Sprintf("http://bad%d.invalid", i)})
		}
		msg := slack.BuildMessage(newReport(outcomes...))
		gt.String(t, msg.Attachments[0].Fields[4].Value).Contains("... and 5 more")
	})
}
