package view

import (
	"time"

	"github.com/2beens/fitweek/internal/weekstats"
)

// Response is the JSON shape of a State.
type Response struct {
	State           string          `json:"state"`
	Message         string          `json:"message,omitempty"`
	VerificationURL string          `json:"verificationUrl,omitempty"`
	UserCode        string          `json:"userCode,omitempty"`
	SnapshotID      string          `json:"snapshotId,omitempty"`
	RefreshedAt     *time.Time      `json:"refreshedAt,omitempty"`
	Week            *weekstats.Week `json:"week,omitempty"`
}

func NewResponse(state State) Response {
	switch s := state.(type) {
	case AwaitingUserCode:
		return Response{
			State:           s.Name(),
			Message:         "Please Visit: " + s.VerificationURL,
			VerificationURL: s.VerificationURL,
			UserCode:        s.UserCode,
		}
	case Authenticated:
		return Response{State: s.Name(), Message: "Authenticated, Loading Data..."}
	case Errored:
		return Response{State: s.Name(), Message: s.Message}
	case Ready:
		week := s.Week
		refreshedAt := s.RefreshedAt
		return Response{
			State:       s.Name(),
			SnapshotID:  s.SnapshotID,
			RefreshedAt: &refreshedAt,
			Week:        &week,
		}
	default:
		return Response{State: StateUnauthenticated}
	}
}
