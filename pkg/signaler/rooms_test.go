package signaler

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

func newRoomRig() (http.Handler, *Directory) {
	directory := NewDirectory()
	return NewRoomApi(directory, logger.Default()).Handler("/api/rooms"), directory
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRoomCreate(t *testing.T) {
	h, d := newRoomRig()
	w := call(t, h, http.MethodPost, "/api/rooms/create", "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %v", w.Code)
	}
	var resp roomCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body %s: %v", w.Body, err)
	}
	if len(resp.RoomId) != 8 {
		t.Errorf("expected a short room token, got %q", resp.RoomId)
	}
	if !d.HasRoom(resp.RoomId) {
		t.Error("the room should exist right away")
	}
}

func TestRoomJoin(t *testing.T) {
	h, d := newRoomRig()
	w := call(t, h, http.MethodPost, "/api/rooms/join", `{"roomId":"abc123","participantId":"p1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %v: %s", w.Code, w.Body)
	}
	var resp roomResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body %s: %v", w.Body, err)
	}
	if resp.RoomId != "abc123" || !slices.Equal(resp.Participants, []string{"p1"}) {
		t.Errorf("unexpected response %+v", resp)
	}
	if got := d.RoomsOf("p1"); !slices.Equal(got, []string{"abc123"}) {
		t.Errorf("unexpected directory state %v", got)
	}
}

func TestRoomJoinWithoutId(t *testing.T) {
	h, _ := newRoomRig()
	for _, body := range []string{"", "{}", `{"participantId":"p1"}`, "not json"} {
		if w := call(t, h, http.MethodPost, "/api/rooms/join", body); w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %v", body, w.Code)
		}
	}
}

func TestRoomParticipants(t *testing.T) {
	h, d := newRoomRig()
	d.AddParticipant("abc123", "p1")
	d.AddParticipant("abc123", "p2")

	w := call(t, h, http.MethodGet, "/api/rooms/abc123/participants", "")
	var resp participantsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body %s: %v", w.Body, err)
	}
	if !slices.Equal(resp.Participants, []string{"p1", "p2"}) {
		t.Errorf("unexpected members %v", resp.Participants)
	}

	// an unknown room reads as an empty list, not null
	w = call(t, h, http.MethodGet, "/api/rooms/nothere/participants", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"participants":[]`) {
		t.Errorf("unexpected response %v: %s", w.Code, w.Body)
	}
}

func TestRoomRoutes(t *testing.T) {
	h, _ := newRoomRig()
	if w := call(t, h, http.MethodGet, "/api/rooms/create", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", w.Code)
	}
	if w := call(t, h, http.MethodPost, "/api/rooms/whatever", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", w.Code)
	}
}

func TestRoomCors(t *testing.T) {
	h, _ := newRoomRig()
	w := call(t, h, http.MethodOptions, "/api/rooms/create", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected a preflight pass, got %v", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}
