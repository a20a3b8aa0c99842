// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package conn

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/toeirei/signwatch/internal/feed"
	"github.com/toeirei/signwatch/internal/model"
	"github.com/toeirei/signwatch/internal/store"
)

// newFeedServer serves a minimal sign list feed: it answers the list request
// with a snapshot, then pushes one record and closes normally.
func newFeedServer(t *testing.T, received chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()

		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		received <- string(data)
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"list","data":[{"cmd":"a","version":"1","path":"/p","uin":"1"}]}`))
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"push","data":{"cmd":"b","version":"2","path":"/p","uin":"2"}}`))
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// wait for the client to go away
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketDialerRoundTrip(t *testing.T) {
	received := make(chan string, 1)
	srv := newFeedServer(t, received)
	defer srv.Close()

	d := WebsocketDialer{HandshakeTimeout: time.Second}
	c, err := d.Dial(context.Background(), wsURL(srv))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.WriteMessage(feed.ListRequest()); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	select {
	case got := <-received:
		if got != `{"type":"list"}` {
			t.Fatalf("server received %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not receive the list request")
	}

	for i := 0; i < 2; i++ {
		data, err := c.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage %d: %v", i, err)
		}
		if _, err := feed.Decode(data); err != nil {
			t.Fatalf("Decode: %v", err)
		}
	}
	if _, err := c.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Fatalf("normal close should read as io.EOF, got %v", err)
	}
}

func TestWebsocketDialerReportsHandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := WebsocketDialer{HandshakeTimeout: time.Second}.Dial(context.Background(), wsURL(srv))
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected handshake error with status, got %v", err)
	}
}

func TestManagerOverWebsocket(t *testing.T) {
	received := make(chan string, 4)
	srv := newFeedServer(t, received)
	defer srv.Close()

	s := store.New()
	cfg := testConfig(time.Hour, time.Hour, 5)
	cfg.Endpoint = wsURL(srv)
	m := New(cfg, WebsocketDialer{HandshakeTimeout: time.Second},
		WithMessageHandler(func(msg feed.Message) { s.Apply(msg) }))
	defer m.Close()

	m.Connect(context.Background())
	eventually(t, "records", func() bool { return s.Len() == 2 })
	eventually(t, "retry after normal close", func() bool { return m.State().Phase == model.PhaseRetrying })
	if st := m.State(); st.Err != nil {
		t.Fatalf("a normal close must not raise the error indicator, got %v", st.Err)
	}
	if got := s.Snapshot(); got[0].Uin != "2" {
		t.Fatalf("push should be prepended, got %+v", got)
	}
}
