package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gatelink-protocol/gatelink-go/pkg/log"
	"github.com/gatelink-protocol/gatelink-go/pkg/persistence"
	"github.com/gatelink-protocol/gatelink-go/pkg/scram"
	"github.com/gatelink-protocol/gatelink-go/pkg/transport"
	"github.com/gatelink-protocol/gatelink-go/pkg/wire"
)

// Credentials identify the administrative account. They are immutable for
// the lifetime of one attempt.
type Credentials struct {
	Username string
	Password string
}

// AuthParameters are the challenge inputs to the proof computation. All
// four fields are populated together, atomically, before any proof is
// computed; a partially populated value is never used.
type AuthParameters struct {
	ClientNonce string
	ServerNonce string
	Salt        string
	Iterations  int
}

// Session is the result of a verified login: the final verification token
// required on subsequent authenticated requests.
type Session struct {
	// Token is the session capability to send on authenticated requests.
	Token string

	// AttemptID is the UUID of the attempt that produced the session.
	AttemptID string

	// VerifiedAt is when the gateway identity was verified.
	VerifiedAt time.Time
}

// Config configures an Orchestrator.
type Config struct {
	// Transport talks to the gateway. Required.
	Transport transport.Client

	// Keys stores the trusted gateway key across attempts. When nil an
	// in-memory store is used.
	Keys persistence.KeyStore

	// Logger receives protocol events. When nil events are discarded.
	Logger log.Logger

	// Endpoints overrides the gateway paths. The zero value selects
	// DefaultEndpoints.
	Endpoints Endpoints

	// Gateway is a label (host or base URL) attached to log events.
	Gateway string

	// NewNonce overrides client nonce generation. When nil the CSPRNG
	// nonce from pkg/scram is used. Tests use this for determinism.
	NewNonce func() (string, error)
}

// Orchestrator drives login attempts against a single gateway. It is safe
// for concurrent use; each Login call runs an independent attempt.
type Orchestrator struct {
	transport transport.Client
	keys      persistence.KeyStore
	logger    log.Logger
	endpoints Endpoints
	gateway   string
	newNonce  func() (string, error)
}

// New creates an Orchestrator.
func New(config Config) (*Orchestrator, error) {
	if config.Transport == nil {
		return nil, errors.New("login: transport is required")
	}

	keys := config.Keys
	if keys == nil {
		keys = persistence.NewMemoryKeyStore()
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	endpoints := config.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}

	newNonce := config.NewNonce
	if newNonce == nil {
		newNonce = scram.NewNonce
	}

	return &Orchestrator{
		transport: config.Transport,
		keys:      keys,
		logger:    logger,
		endpoints: endpoints,
		gateway:   config.Gateway,
		newNonce:  newNonce,
	}, nil
}

// Login runs one complete login attempt. It blocks until the state machine
// reaches Verified or Failed and returns the final session or the typed
// failure. No retries are performed; a rate-limited attempt must not be
// repeated before the returned wait time elapses.
func (o *Orchestrator) Login(ctx context.Context, creds Credentials) (*Session, error) {
	a := &attempt{
		o:     o,
		id:    uuid.NewString(),
		creds: creds,
		state: StateIdle,
	}

	session, err := a.run(ctx)
	if err != nil {
		a.fail(err)
		return nil, err
	}
	return session, nil
}

// attempt holds the state of a single login attempt. Attempts are strictly
// sequential: no phase starts before the previous phase's result is in.
type attempt struct {
	o     *Orchestrator
	id    string
	creds Credentials
	state State

	// token is the current verification token, rotated across phases.
	token string

	params AuthParameters
	proof  string
}

func (a *attempt) run(ctx context.Context) (*Session, error) {
	// The client nonce is generated once, up front, and reused by every
	// later derivation of this attempt.
	clientNonce, err := a.o.newNonce()
	if err != nil {
		return nil, failure(KindCrypto, a.state, "failed to generate client nonce", err)
	}

	if err := a.initSession(ctx); err != nil {
		return nil, err
	}
	if err := a.checkCancelled(ctx); err != nil {
		return nil, err
	}

	headerToken, err := a.fetchToken(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.checkCancelled(ctx); err != nil {
		return nil, err
	}

	challenge, err := a.sendChallenge(ctx, headerToken, clientNonce)
	if err != nil {
		return nil, err
	}
	if err := a.checkCancelled(ctx); err != nil {
		return nil, err
	}

	if err := a.computeProof(clientNonce, challenge); err != nil {
		return nil, err
	}

	auth, err := a.sendProof(ctx)
	if err != nil {
		return nil, err
	}

	return a.verify(auth)
}

// initSession issues the root request that makes the gateway set its
// session cookie. The cookie itself is a transport side effect; success is
// judged solely by HTTP status.
func (a *attempt) initSession(ctx context.Context) error {
	a.setState(StateSessionInit)

	resp, err := a.request(ctx, http.MethodGet, a.o.endpoints.Root, nil, nil)
	if err != nil {
		return failure(KindSession, a.state, "could not reach gateway", err)
	}
	if resp.Status < 200 || resp.Status >= 400 {
		return failure(KindSession, a.state,
			fmt.Sprintf("unexpected status %d from gateway root", resp.Status), nil)
	}
	return nil
}

// fetchToken retrieves the anti-forgery token and strips its fixed-length
// prefix; the remainder is the header value for the challenge request.
func (a *attempt) fetchToken(ctx context.Context) (string, error) {
	a.setState(StateTokenFetch)

	resp, err := a.request(ctx, http.MethodGet, a.o.endpoints.Token, nil, nil)
	if err != nil {
		return "", failure(KindSession, a.state, "token request failed", err)
	}

	msg, err := wire.DecodeResponse(resp.Body)
	if err != nil {
		return "", failure(KindProtocol, a.state, "unparseable token response", err)
	}
	tok, ok := msg.(*wire.TokenResponse)
	if !ok {
		return "", failure(KindProtocol, a.state, "missing anti-forgery token", nil)
	}

	// The first 32 characters are protocol noise and must be discarded.
	if len(tok.Token) <= TokenPrefixLen {
		return "", failure(KindProtocol, a.state,
			fmt.Sprintf("anti-forgery token too short (%d chars)", len(tok.Token)), nil)
	}
	return tok.Token[TokenPrefixLen:], nil
}

// sendChallenge posts the phase-one challenge and parses the gateway's
// answer. The response must carry a rotated verification token header; its
// absence is a hard protocol failure.
func (a *attempt) sendChallenge(ctx context.Context, headerToken, clientNonce string) (*wire.ChallengeResponse, error) {
	a.setState(StatePhaseOneSent)

	body := wire.EncodeRequest([]wire.Field{
		{Name: fieldUsername, Value: a.creds.Username},
		{Name: fieldFirstNonce, Value: clientNonce},
		{Name: fieldMode, Value: modeChallenge},
	})
	header := http.Header{transport.VerificationTokenHeader: {headerToken}}

	resp, err := a.request(ctx, http.MethodPost, a.o.endpoints.Challenge, header, body)
	if err != nil {
		return nil, failure(KindProtocol, a.state, "challenge request failed", err)
	}

	token := resp.HeaderValue(transport.VerificationTokenHeader)
	if token == "" {
		return nil, failure(KindProtocol, a.state, "missing verification token", nil)
	}
	a.token = token
	a.setState(StatePhaseOneReceived)

	msg, err := wire.DecodeResponse(resp.Body)
	if err != nil {
		return nil, failure(KindProtocol, a.state, "unparseable challenge response", err)
	}

	switch m := msg.(type) {
	case *wire.ErrorResponse:
		return nil, rateLimited(a.state, m.WaitTime)
	case *wire.ChallengeResponse:
		return m, nil
	default:
		return nil, failure(KindProtocol, a.state,
			fmt.Sprintf("unexpected challenge response %T", msg), nil)
	}
}

// computeProof assembles the auth parameters atomically and derives the
// client proof from them.
func (a *attempt) computeProof(clientNonce string, challenge *wire.ChallengeResponse) error {
	if challenge.ServerNonce == "" || challenge.Salt == "" || challenge.Iterations < 1 {
		return failure(KindProtocol, a.state, "incomplete challenge parameters", nil)
	}
	a.params = AuthParameters{
		ClientNonce: clientNonce,
		ServerNonce: challenge.ServerNonce,
		Salt:        challenge.Salt,
		Iterations:  challenge.Iterations,
	}

	proof, err := scram.ClientProof(
		a.params.ClientNonce, a.params.ServerNonce,
		a.params.Salt, a.params.Iterations, a.creds.Password)
	if err != nil {
		return failure(KindCrypto, a.state, "client proof derivation failed", err)
	}
	a.proof = proof
	a.setState(StateProofComputed)
	return nil
}

// sendProof posts the client proof and parses the gateway's final answer.
func (a *attempt) sendProof(ctx context.Context) (*wire.AuthResponse, error) {
	a.setState(StatePhaseTwoSent)

	body := wire.EncodeRequest([]wire.Field{
		{Name: fieldClientProof, Value: a.proof},
		{Name: fieldFinalNonce, Value: a.params.ServerNonce},
	})
	header := http.Header{transport.VerificationTokenHeader: {a.token}}

	resp, err := a.request(ctx, http.MethodPost, a.o.endpoints.Authenticate, header, body)
	if err != nil {
		return nil, failure(KindProtocol, a.state, "authentication request failed", err)
	}

	// The final response may rotate the token once more through the
	// alternate header variant. If it does, that token becomes the
	// session capability; if not, the phase-one token stays current.
	if alt := resp.HeaderValue(transport.VerificationTokenHeaderOne); alt != "" {
		a.token = alt
	} else if a.token == "" {
		return nil, failure(KindProtocol, a.state, "missing verification token", nil)
	}
	a.setState(StatePhaseTwoReceived)

	msg, err := wire.DecodeResponse(resp.Body)
	if err != nil {
		return nil, failure(KindProtocol, a.state, "unparseable authentication response", err)
	}

	switch m := msg.(type) {
	case *wire.ErrorResponse:
		if m.WaitTime > 0 {
			return nil, rateLimited(a.state, m.WaitTime)
		}
		return nil, failure(KindProtocol, a.state,
			fmt.Sprintf("gateway rejected authentication (code %d)", m.Code), nil)
	case *wire.AuthResponse:
		return m, nil
	default:
		return nil, failure(KindProtocol, a.state,
			fmt.Sprintf("unexpected authentication response %T", msg), nil)
	}
}

// verify checks the gateway's proof and its signature over the advertised
// public key, then persists the key. The trusted key is only ever written
// after both checks pass.
func (a *attempt) verify(auth *wire.AuthResponse) (*Session, error) {
	expectedProof, err := scram.ServerProof(
		a.params.ClientNonce, a.params.ServerNonce,
		a.params.Salt, a.params.Iterations, a.creds.Password)
	if err != nil {
		return nil, failure(KindCrypto, a.state, "server proof derivation failed", err)
	}
	if !scram.Equal(expectedProof, auth.ServerSignature) {
		return nil, failure(KindIdentity, a.state, "server identity unverified", nil)
	}

	expectedSig, err := scram.PublicKeySignature(
		a.params.ClientNonce, a.params.ServerNonce,
		a.params.Salt, a.params.Iterations, a.creds.Password, auth.Modulus)
	if err != nil {
		return nil, failure(KindCrypto, a.state, "public key signature derivation failed", err)
	}
	if !scram.Equal(expectedSig, auth.PubKeySignature) {
		return nil, failure(KindIdentity, a.state, "invalid public key", nil)
	}

	if err := a.o.keys.Save(&persistence.TrustedDeviceKey{
		Modulus:  auth.Modulus,
		Exponent: auth.Exponent,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist trusted device key: %w", err)
	}

	a.setState(StateVerified)
	return &Session{
		Token:      a.token,
		AttemptID:  a.id,
		VerifiedAt: time.Now(),
	}, nil
}

// request issues one transport exchange and logs it.
func (a *attempt) request(ctx context.Context, method, path string, header http.Header, body []byte) (*transport.Response, error) {
	a.o.logger.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: a.id,
		Category:  log.CategoryRequest,
		State:     a.state.String(),
		Gateway:   a.o.gateway,
		Endpoint:  path,
		Detail:    method,
	})

	resp, err := a.o.transport.Do(ctx, method, path, header, body)
	if err != nil {
		return nil, err
	}

	a.o.logger.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: a.id,
		Category:  log.CategoryResponse,
		State:     a.state.String(),
		Gateway:   a.o.gateway,
		Endpoint:  path,
		Status:    resp.Status,
	})
	return resp, nil
}

// checkCancelled aborts the attempt between phases when the context is
// done. Cancellation is never checked mid-derivation.
func (a *attempt) checkCancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("login cancelled in state %s: %w", a.state, err)
	}
	return nil
}

func (a *attempt) setState(state State) {
	a.state = state
	a.o.logger.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: a.id,
		Category:  log.CategoryStateChange,
		State:     state.String(),
		Gateway:   a.o.gateway,
	})
}

func (a *attempt) fail(err error) {
	a.state = StateFailed
	a.o.logger.Log(log.Event{
		Timestamp: time.Now(),
		AttemptID: a.id,
		Category:  log.CategoryError,
		State:     StateFailed.String(),
		Gateway:   a.o.gateway,
		Error:     err.Error(),
	})
}
