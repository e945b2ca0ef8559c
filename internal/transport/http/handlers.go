package http

import (
	"encoding/json"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"mafia/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomKey    string `json:"roomKey"`
	InviteLink string `json:"inviteLink"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomKey   string                  `json:"roomKey"`
	UserCount int                     `json:"userCount"`
	Phase     int                     `json:"phase"`
	Waiting   bool                    `json:"waiting"`
	Users     []domain.UserChoiceInfo `json:"users"`
	Jobs      []domain.JobCount       `json:"jobs"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms int `json:"activeRooms"`
	TotalUsers  int `json:"totalUsers"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	session, err := s.hub.CreateRoom()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	s.sendSuccess(w, &CreateRoomResponse{
		RoomKey:    session.GetRoomKey(),
		InviteLink: inviteLink(r, session.GetRoomKey()),
	})
}

// handleListRooms handles GET /api/rooms, listing joinable rooms
func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	s.sendSuccess(w, s.hub.ListWaitingRooms())
}

// handleGetRoom handles GET /api/rooms/{roomKey}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomKey := r.PathValue("roomKey")
	if roomKey == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_ROOM_KEY", "Room key is required")
		return
	}

	session, err := s.hub.GetSession(roomKey)
	if err != nil {
		if err == domain.ErrRoomNotFound {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomKey:   session.GetRoomKey(),
		UserCount: session.GetUserCount(),
		Phase:     int(session.GetPhase()),
		Waiting:   session.IsWaiting(),
		Users:     session.Roster(),
		Jobs:      session.JobCounts(),
	})
}

// handleRoomQR handles GET /api/rooms/{roomKey}/qr, serving the invite
// link as a QR code PNG
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomKey := r.PathValue("roomKey")

	if _, err := s.hub.GetSession(roomKey); err != nil {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	png, err := qrcode.Encode(inviteLink(r, roomKey), qrcode.Medium, 256)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms: s.hub.GetSessionCount(),
		TotalUsers:  s.hub.GetTotalUserCount(),
	})
}

// inviteLink builds the join URL a client follows into a room
func inviteLink(r *http.Request, roomKey string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/join/" + roomKey
}

// sendSuccess writes a success response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{Success: true, Data: data})
}

// sendError writes an error response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}
