package server

import (
	"github.com/brensch/snekpath/game"
)

type InfoResponse struct {
	APIVersion string   `json:"apiversion"`
	Author     string   `json:"author"`
	Version    string   `json:"version"`
	Policy     string   `json:"policy"`
	Sources    []string `json:"sources"`
}

// StartRequest opens a session for a board size.
type StartRequest struct {
	Size   int    `json:"size"`
	Policy string `json:"policy,omitempty"`
}

type StartResponse struct {
	SessionID string `json:"session_id"`
}

// MoveRequest carries one tick of state. Without a known session_id the
// decision is made by a fresh controller.
type MoveRequest struct {
	SessionID string       `json:"session_id,omitempty"`
	Size      int          `json:"size"`
	Body      []game.Point `json:"body"`
	Target    game.Point   `json:"target"`
}

func (r MoveRequest) State() *game.State {
	return &game.State{Size: r.Size, Body: r.Body, Target: r.Target}
}

type MoveResponse struct {
	Move      string  `json:"move"`
	Source    string  `json:"source"`
	Mode      string  `json:"mode"`
	Occupancy float64 `json:"occupancy"`
}

type EndRequest struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
