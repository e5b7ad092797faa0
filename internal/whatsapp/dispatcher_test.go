package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	path    string
	auth    string
	payload map[string]any
}

func newTestServer(t *testing.T, statuses []int) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		calls = append(calls, recordedCall{
			path:    r.URL.Path,
			auth:    r.Header.Get("Authorization"),
			payload: payload,
		})

		status := http.StatusOK
		if len(calls) <= len(statuses) {
			status = statuses[len(calls)-1]
		}
		if status >= 400 {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"denied"}}`))
		} else if status != http.StatusOK {
			w.WriteHeader(status)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestDispatcher(srv *httptest.Server) (*Dispatcher, *[]time.Duration) {
	var slept []time.Duration
	d := NewDispatcher("919529111760", "12345", "token-abc")
	d.apiBase = srv.URL
	d.client = srv.Client()
	d.sleep = func(dur time.Duration) { slept = append(slept, dur) }
	return d, &slept
}

func TestNotify_MissingConfigSkipsAPI(t *testing.T) {
	srv, calls := newTestServer(t, nil)
	d, _ := newTestDispatcher(srv)
	d.adminNumber = ""
	d.accessToken = ""

	out := d.Notify(context.Background(), Message{Text: "hello"})

	assert.False(t, out.OK)
	assert.Equal(t, ReasonMissingConfig, out.Reason)
	assert.Equal(t, []string{
		"ADMIN_WHATSAPP_NUMBER/WHATSAPP_ADMIN_NUMBER",
		"WA_ACCESS_TOKEN/WHATSAPP_ACCESS_TOKEN",
	}, out.Missing)
	assert.Empty(t, *calls, "no API call may happen without credentials")
}

func TestNotify_DocumentThenText(t *testing.T) {
	srv, calls := newTestServer(t, nil)
	d, _ := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{
		Text:        "New order placed",
		DocumentURL: "http://localhost:3000/order-pdfs/order-1.pdf",
	})

	require.True(t, out.OK)
	require.Len(t, *calls, 2)

	doc := (*calls)[0]
	assert.Equal(t, "/12345/messages", doc.path)
	assert.Equal(t, "Bearer token-abc", doc.auth)
	assert.Equal(t, "whatsapp", doc.payload["messaging_product"])
	assert.Equal(t, "919529111760", doc.payload["to"])
	assert.Equal(t, "document", doc.payload["type"])
	assert.Equal(t, map[string]any{
		"link":     "http://localhost:3000/order-pdfs/order-1.pdf",
		"filename": "order.pdf",
		"caption":  "Order PDF attached",
	}, doc.payload["document"])

	text := (*calls)[1]
	assert.Equal(t, "text", text.payload["type"])
	assert.Equal(t, map[string]any{"body": "New order placed"}, text.payload["text"])
}

func TestNotify_TextOnly(t *testing.T) {
	srv, calls := newTestServer(t, nil)
	d, _ := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{Text: "  status update  "})

	require.True(t, out.OK)
	require.Len(t, *calls, 1)
	assert.Equal(t, map[string]any{"body": "status update"}, (*calls)[0].payload["text"])
}

func TestNotify_EmptyMessageSendsNothing(t *testing.T) {
	srv, calls := newTestServer(t, nil)
	d, _ := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{})

	assert.True(t, out.OK)
	assert.Empty(t, *calls)
}

func TestNotify_RetriesOnceThenSucceeds(t *testing.T) {
	srv, calls := newTestServer(t, []int{http.StatusInternalServerError})
	d, slept := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{Text: "retry me"})

	assert.True(t, out.OK)
	assert.Len(t, *calls, 2)
	assert.Equal(t, []time.Duration{700 * time.Millisecond}, *slept)
}

func TestNotify_APIErrorAfterAllAttempts(t *testing.T) {
	srv, calls := newTestServer(t, []int{http.StatusBadRequest, http.StatusBadRequest})
	d, slept := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{Text: "fail"})

	assert.False(t, out.OK)
	assert.Equal(t, ReasonAPIError, out.Reason)
	assert.Contains(t, out.Details, "denied")
	assert.Len(t, *calls, 2)
	assert.Len(t, *slept, 1, "single delay between the two attempts")
}

func TestNotify_RedirectStatusIsFailure(t *testing.T) {
	srv, calls := newTestServer(t, []int{http.StatusNotModified, http.StatusNotModified})
	d, _ := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{Text: "not modified"})

	assert.False(t, out.OK)
	assert.Equal(t, ReasonAPIError, out.Reason)
	assert.Contains(t, out.Details, "304")
	assert.Len(t, *calls, 2)
}

func TestNotify_DocumentFailureSkipsText(t *testing.T) {
	srv, calls := newTestServer(t, []int{http.StatusBadRequest, http.StatusBadRequest})
	d, _ := newTestDispatcher(srv)

	out := d.Notify(context.Background(), Message{
		Text:        "should not be sent",
		DocumentURL: "http://localhost:3000/order-pdfs/order-2.pdf",
	})

	assert.False(t, out.OK)
	assert.Equal(t, ReasonAPIError, out.Reason)
	require.Len(t, *calls, 2)
	for _, c := range *calls {
		assert.Equal(t, "document", c.payload["type"])
	}
}

func TestChatLink(t *testing.T) {
	d := NewDispatcher("919529111760", "", "")
	assert.Equal(t,
		"https://wa.me/919529111760?text=New+order+%231",
		d.ChatLink("New order #1"))

	d.adminNumber = ""
	assert.Empty(t, d.ChatLink("anything"))
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewDispatcher("1", "2", "3").Configured())
	assert.False(t, NewDispatcher("", "2", "3").Configured())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusReport{Configured: true, Number: "919529111760"},
		NewDispatcher("919529111760", "12345", "token").Status())

	report := NewDispatcher("", "12345", "").Status()
	assert.False(t, report.Configured)
	assert.Equal(t, []string{"ADMIN_WHATSAPP_NUMBER", "WA_ACCESS_TOKEN"}, report.Missing)
}
