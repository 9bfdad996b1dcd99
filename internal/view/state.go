package view

import (
	"regexp"
	"strings"
	"time"

	"github.com/2beens/fitweek/internal/weekstats"
)

const (
	StateUnauthenticated  = "unauthenticated"
	StateAwaitingUserCode = "awaiting_user_code"
	StateAuthenticated    = "authenticated"
	StateErrored          = "errored"
	StateReady            = "ready"
)

// State is what the display client renders. Exactly one of the types below.
type State interface {
	Name() string
	isState()
}

type Unauthenticated struct{}

// AwaitingUserCode: the user has to visit VerificationURL and enter UserCode.
type AwaitingUserCode struct {
	VerificationURL string
	UserCode        string
}

// Authenticated means the token is there but no week was loaded yet.
type Authenticated struct{}

type Errored struct {
	Message string
}

type Ready struct {
	Week        weekstats.Week
	SnapshotID  string
	RefreshedAt time.Time
}

func (Unauthenticated) Name() string  { return StateUnauthenticated }
func (AwaitingUserCode) Name() string { return StateAwaitingUserCode }
func (Authenticated) Name() string    { return StateAuthenticated }
func (Errored) Name() string          { return StateErrored }
func (Ready) Name() string            { return StateReady }

func (Unauthenticated) isState()  {}
func (AwaitingUserCode) isState() {}
func (Authenticated) isState()    {}
func (Errored) isState()          {}
func (Ready) isState()            {}

// ErrorFromKind builds the errored state shown for a failed step, e.g. "AUTH_CODE_ERROR".
func ErrorFromKind(kind string) Errored {
	return Errored{Message: Capitalize(kind)}
}

var wordStart = regexp.MustCompile(`\b.`)

// Capitalize turns a notification kind into a display message: "AUTH_CODE_ERROR" -> "Auth Code Error".
func Capitalize(kind string) string {
	s := strings.ToLower(strings.ReplaceAll(kind, "_", " "))
	return wordStart.ReplaceAllStringFunc(s, strings.ToUpper)
}
