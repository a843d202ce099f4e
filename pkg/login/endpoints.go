package login

// TokenPrefixLen is the fixed-length prefix of the anti-forgery token that
// must be discarded before the remainder is used as a header value.
const TokenPrefixLen = 32

// Request body field names and values.
const (
	fieldUsername    = "username"
	fieldFirstNonce  = "firstnonce"
	fieldMode        = "mode"
	fieldClientProof = "clientproof"
	fieldFinalNonce  = "finalnonce"

	// modeChallenge selects the SCRAM challenge login mode.
	modeChallenge = "1"
)

// Endpoints holds the gateway paths the orchestrator talks to. The paths
// are firmware conventions, not owned by this package; override them for
// devices that deviate.
type Endpoints struct {
	// Root establishes the session cookie.
	Root string

	// Token returns the anti-forgery token.
	Token string

	// Challenge is the phase-one SCRAM challenge endpoint.
	Challenge string

	// Authenticate is the phase-two proof exchange endpoint.
	Authenticate string
}

// DefaultEndpoints returns the paths used by stock firmware.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Root:         "/",
		Token:        "/api/webserver/token",
		Challenge:    "/api/user/challenge_login",
		Authenticate: "/api/user/authentication_login",
	}
}
