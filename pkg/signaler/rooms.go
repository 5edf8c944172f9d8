package signaler

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofrs/uuid"
	"github.com/visavis-rtc/visavis/pkg/logger"
)

// RoomApi is the out-of-band HTTP surface for room bookkeeping, a thin
// CRUD over the directory used by pages before they open a socket.
type RoomApi struct {
	directory *Directory
	log       *logger.Logger
}

type (
	roomJoinRequest struct {
		RoomId        string `json:"roomId"`
		ParticipantId string `json:"participantId"`
	}
	roomCreatedResponse struct {
		RoomId string `json:"roomId"`
	}
	roomResponse struct {
		RoomId       string   `json:"roomId"`
		Participants []string `json:"participants"`
	}
	participantsResponse struct {
		Participants []string `json:"participants"`
	}
	errorResponse struct {
		Error string `json:"error"`
	}
)

func NewRoomApi(directory *Directory, log *logger.Logger) *RoomApi {
	return &RoomApi{directory: directory, log: log}
}

// Handler serves the room routes under the given prefix:
//
//	POST {prefix}/create
//	POST {prefix}/join
//	GET  {prefix}/{roomId}/participants
func (a *RoomApi) Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, cors(http.HandlerFunc(a.route)))
}

func (a *RoomApi) route(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	switch {
	case path == "create" && r.Method == http.MethodPost:
		a.createRoom(w)
	case path == "join" && r.Method == http.MethodPost:
		a.joinRoom(w, r)
	case strings.HasSuffix(path, "/participants") && r.Method == http.MethodGet:
		a.participants(w, strings.TrimSuffix(path, "/participants"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (a *RoomApi) createRoom(w http.ResponseWriter) {
	token, err := uuid.NewV4()
	if err != nil {
		respond(w, http.StatusInternalServerError, errorResponse{Error: "couldn't create a room"})
		return
	}
	roomId := a.directory.CreateRoom(token.String()[:8])
	a.log.Debug().Msgf("created room [%v]", roomId)
	respond(w, http.StatusOK, roomCreatedResponse{RoomId: roomId})
}

func (a *RoomApi) joinRoom(w http.ResponseWriter, r *http.Request) {
	var rq roomJoinRequest
	if err := json.NewDecoder(r.Body).Decode(&rq); err != nil || rq.RoomId == "" {
		respond(w, http.StatusBadRequest, errorResponse{Error: "a room id is required"})
		return
	}
	a.directory.AddParticipant(rq.RoomId, rq.ParticipantId)
	respond(w, http.StatusOK, roomResponse{
		RoomId:       rq.RoomId,
		Participants: a.directory.ParticipantsOf(rq.RoomId),
	})
}

func (a *RoomApi) participants(w http.ResponseWriter, roomId string) {
	respond(w, http.StatusOK, participantsResponse{Participants: a.directory.ParticipantsOf(roomId)})
}

func respond(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
