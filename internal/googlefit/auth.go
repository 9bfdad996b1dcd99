package googlefit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/2beens/fitweek/internal/telemetry/tracing"
	"github.com/2beens/fitweek/internal/view"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/fitness/v1"
)

type TokenPersister interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
	Delete(ctx context.Context) error
}

type StateSetter interface {
	Set(state view.State)
}

// DeviceAuthenticator runs the OAuth device flow against Google: the user gets a
// code to enter on another device, and we poll until the grant is confirmed.
type DeviceAuthenticator struct {
	oauthConfig     *oauth2.Config
	tokens          TokenPersister
	states          StateSetter
	baseClient      *http.Client
	onAuthenticated func(ctx context.Context)

	mutex       sync.RWMutex
	tokenSource *savingTokenSource
	// signaled when the token got revoked, so the device flow starts again right away
	restart chan struct{}
}

func NewDeviceAuthenticator(
	clientID string,
	clientSecret string,
	tokens TokenPersister,
	states StateSetter,
	baseClient *http.Client,
) *DeviceAuthenticator {
	if baseClient == nil {
		baseClient = http.DefaultClient
	}
	return &DeviceAuthenticator{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				fitness.FitnessActivityReadScope,
				fitness.FitnessBodyReadScope,
			},
		},
		tokens:     tokens,
		states:     states,
		baseClient: baseClient,
		restart:    make(chan struct{}, 1),
	}
}

// WithEndpoint points the authenticator to another OAuth server.
func (a *DeviceAuthenticator) WithEndpoint(endpoint oauth2.Endpoint) *DeviceAuthenticator {
	a.oauthConfig.Endpoint = endpoint
	return a
}

// OnAuthenticated registers a callback fired once a token is available.
func (a *DeviceAuthenticator) OnAuthenticated(f func(ctx context.Context)) {
	a.onAuthenticated = f
}

func (a *DeviceAuthenticator) IsAuthenticated() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.tokenSource != nil
}

// Supervise keeps the service authenticated until ctx is done. Run is started
// again every retryInterval while there is no usable token (the user code expired,
// the user never confirmed it), and right away when the token gets revoked.
func (a *DeviceAuthenticator) Supervise(ctx context.Context, retryInterval time.Duration) {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		if !a.IsAuthenticated() {
			if err := a.Run(ctx); err != nil {
				log.Errorf("google fit authentication: %s", err)
			}
		}

		select {
		case <-ctx.Done():
			log.Debugln("google fit: authentication supervisor stopped")
			return
		case <-a.restart:
			log.Infoln("google fit: token revoked, restarting device flow")
		case <-ticker.C:
		}
	}
}

// Run uses the stored token if there is one, and falls back to the device flow
// otherwise. It blocks until the user confirms the code, the code expires, or
// ctx is done.
func (a *DeviceAuthenticator) Run(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "googlefit.auth.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.baseClient)

	token, err := a.tokens.Load(ctx)
	switch {
	case err == nil:
		log.Debugln("google fit: using stored token")
		a.authenticated(ctx, token)
		return nil
	case errors.Is(err, ErrNoToken):
		log.Debugln("google fit: no stored token, starting device flow")
	default:
		log.Errorf("google fit: load stored token: %s", err)
	}

	deviceAuth, err := a.oauthConfig.DeviceAuth(ctx)
	if err != nil {
		a.states.Set(view.ErrorFromKind("AUTH_CODE_ERROR"))
		return fmt.Errorf("device auth: %w", err)
	}

	log.Infof("google fit: visit %s and enter code %s", deviceAuth.VerificationURI, deviceAuth.UserCode)
	a.states.Set(view.AwaitingUserCode{
		VerificationURL: deviceAuth.VerificationURI,
		UserCode:        deviceAuth.UserCode,
	})

	token, err = a.oauthConfig.DeviceAccessToken(ctx, deviceAuth)
	if err != nil {
		if ctx.Err() == nil {
			a.states.Set(view.ErrorFromKind("AUTH_ERROR"))
		}
		return fmt.Errorf("device access token: %w", err)
	}

	if err := a.tokens.Save(ctx, token); err != nil {
		log.Errorf("google fit: save token: %s", err)
	}

	a.authenticated(ctx, token)
	return nil
}

func (a *DeviceAuthenticator) authenticated(ctx context.Context, token *oauth2.Token) {
	// refreshes outlive the ctx of Run
	tsCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, a.baseClient)

	a.mutex.Lock()
	a.tokenSource = &savingTokenSource{
		ctx:           tsCtx,
		base:          a.oauthConfig.TokenSource(tsCtx, token),
		authenticator: a,
		last:          token.AccessToken,
	}
	a.mutex.Unlock()

	a.states.Set(view.Authenticated{})
	if a.onAuthenticated != nil {
		a.onAuthenticated(ctx)
	}
}

// HTTPClient returns a client that authorizes requests with the current token.
func (a *DeviceAuthenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	if a.tokenSource == nil {
		return nil, ErrNoToken
	}
	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, a.baseClient), a.tokenSource), nil
}

// revoke forgets the token behind source, unless a newer one replaced it meanwhile.
func (a *DeviceAuthenticator) revoke(ctx context.Context, source *savingTokenSource) {
	a.mutex.Lock()
	if a.tokenSource != source {
		a.mutex.Unlock()
		return
	}
	a.tokenSource = nil
	a.mutex.Unlock()

	if err := a.tokens.Delete(ctx); err != nil {
		log.Errorf("google fit: delete revoked token: %s", err)
	}
	a.states.Set(view.Unauthenticated{})

	select {
	case a.restart <- struct{}{}:
	default:
	}
}

// IsInvalidGrant reports whether err comes from the token endpoint refusing the
// refresh token, i.e. the user revoked the access or the token expired for good.
func IsInvalidGrant(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant"
}

// savingTokenSource stores every refreshed token, and drops the stored one once
// google refuses to refresh it.
type savingTokenSource struct {
	ctx           context.Context
	base          oauth2.TokenSource
	authenticator *DeviceAuthenticator

	mutex sync.Mutex
	last  string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		if IsInvalidGrant(err) {
			s.authenticator.revoke(s.ctx, s)
			return nil, fmt.Errorf("%w: %w", ErrNoToken, err)
		}
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		log.Debugln("google fit: token refreshed")
		if err := s.authenticator.tokens.Save(s.ctx, token); err != nil {
			log.Errorf("google fit: save refreshed token: %s", err)
		}
	}
	return token, nil
}
