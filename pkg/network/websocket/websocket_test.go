package websocket

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/visavis-rtc/visavis/pkg/logger"
)

// TestRoundTrip pushes messages through a real socket pair with an echo
// on the server side and checks they all come back intact.
func TestRoundTrip(t *testing.T) {
	// stays under the send queue capacity so no message is shed
	const n = 20

	connected := make(chan *WS, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := DefaultUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		server, err := NewServerWithConn(conn, logger.Default())
		if err != nil {
			t.Errorf("couldn't make the server socket: %v", err)
			return
		}
		server.SetMessageHandler(func(message []byte, err error) {
			if err == nil {
				server.Write(message)
			}
		})
		server.Listen()
		connected <- server
	}))
	defer ts.Close()

	addr, _ := url.Parse(ts.URL)
	client, err := NewClient(url.URL{Scheme: "ws", Host: addr.Host, Path: "/"}, logger.Default())
	if err != nil {
		t.Fatalf("couldn't connect: %v", err)
	}

	echoed := make(chan string, n)
	client.SetMessageHandler(func(message []byte, err error) {
		if err == nil {
			echoed <- string(message)
		}
	})
	done := client.Listen()

	sent := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		m := fmt.Sprintf("message-%02d", i)
		sent[m] = struct{}{}
		client.Write([]byte(m))
	}

	for i := 0; i < n; i++ {
		select {
		case m := <-echoed:
			if _, ok := sent[m]; !ok {
				t.Fatalf("got a message nobody sent: %q", m)
			}
			delete(sent, m)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out with %v messages missing", len(sent))
		}
	}

	client.Close()
	<-done
	server := <-connected
	server.Close()
	<-server.Done
}

func TestWriteAfterCloseIsDropped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := DefaultUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		server, _ := NewServerWithConn(conn, logger.Default())
		server.Listen()
	}))
	defer ts.Close()

	addr, _ := url.Parse(ts.URL)
	client, err := NewClient(url.URL{Scheme: "ws", Host: addr.Host, Path: "/"}, logger.Default())
	if err != nil {
		t.Fatalf("couldn't connect: %v", err)
	}
	done := client.Listen()

	client.Close()
	client.Close()
	client.Write([]byte("into the void"))
	<-done
}

func TestOriginCheck(t *testing.T) {
	tests := []struct {
		origin  string
		request string
		allowed bool
	}{
		{origin: "*", request: "https://anywhere.example", allowed: true},
		{origin: "https://app.example", request: "https://app.example", allowed: true},
		{origin: "https://app.example", request: "https://evil.example", allowed: false},
	}
	for _, test := range tests {
		u := NewUpgrader(test.origin)
		r := httptest.NewRequest(http.MethodGet, "/ws", strings.NewReader(""))
		r.Header.Set("Origin", test.request)
		if got := u.CheckOrigin(r); got != test.allowed {
			t.Errorf("origin %q against %q: expected %v, got %v", test.request, test.origin, test.allowed, got)
		}
	}
}
