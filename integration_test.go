package gatelink_test

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gatelink-protocol/gatelink-go/pkg/control"
	"github.com/gatelink-protocol/gatelink-go/pkg/log"
	"github.com/gatelink-protocol/gatelink-go/pkg/login"
	"github.com/gatelink-protocol/gatelink-go/pkg/persistence"
	"github.com/gatelink-protocol/gatelink-go/pkg/scram"
	"github.com/gatelink-protocol/gatelink-go/pkg/transport"
)

const (
	gwPassword   = "integration-pass"
	gwSalt       = "aabbccddeeff00112233445566778899"
	gwIterations = 1000
	gwModulus    = "c3ab8ff13720e8ad9047dd39466b3c8974e592c2fa383d4a3960714caef0c4f2" +
		"c3ab8ff13720e8ad9047dd39466b3c8974e592c2fa383d4a3960714caef0c4f2"
	gwExponent = "010001"

	phaseOneToken = "tok-phase-one-f7c3bc1d808e04732adf679965ccc34c"
	phaseTwoToken = "tok-phase-two-a94a8fe5ccb19ba61c4c0873d391e987"
	sessionToken  = "tok-session-9e107d9d372bb6826bd81d3542a419d6"
)

// gatewayServer simulates a gateway's login and control API on top of
// httptest. It derives its side of the exchange with the same primitives
// the client uses.
type gatewayServer struct {
	mu          sync.Mutex
	clientNonce string
	serverNonce string

	// Failure switches.
	lockoutMinutes int
	skipProofCheck bool
}

type challengeRequest struct {
	XMLName    xml.Name `xml:"request"`
	Username   string   `xml:"username"`
	FirstNonce string   `xml:"firstnonce"`
	Mode       string   `xml:"mode"`
}

type proofRequest struct {
	XMLName     xml.Name `xml:"request"`
	ClientProof string   `xml:"clientproof"`
	FinalNonce  string   `xml:"finalnonce"`
}

func (g *gatewayServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SessionID", Value: "integration"})
		fmt.Fprint(w, "<html></html>")
	})

	mux.HandleFunc("/api/webserver/token", func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.Repeat("0", 32)
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?><response><token>%s%s</token></response>`,
			prefix, phaseOneToken)
	})

	mux.HandleFunc("/api/user/challenge_login", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(transport.VerificationTokenHeader); got != phaseOneToken {
			t.Errorf("challenge_login verification token = %q, want %q", got, phaseOneToken)
		}

		if g.lockoutMinutes > 0 {
			w.Header().Set(transport.VerificationTokenHeader, phaseTwoToken)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?><error><code>108007</code><waittime>%d</waittime></error>`,
				g.lockoutMinutes)
			return
		}

		body, _ := io.ReadAll(r.Body)
		var req challengeRequest
		if err := xml.Unmarshal(body, &req); err != nil {
			t.Errorf("challenge_login body did not parse: %v", err)
		}
		if req.Mode != "1" {
			t.Errorf("challenge_login mode = %q, want %q", req.Mode, "1")
		}

		g.mu.Lock()
		g.clientNonce = req.FirstNonce
		g.serverNonce = req.FirstNonce + strings.Repeat("f0", 32)
		serverNonce := g.serverNonce
		g.mu.Unlock()

		w.Header().Set(transport.VerificationTokenHeader, phaseTwoToken)
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?><response><salt>%s</salt><servernonce>%s</servernonce><iterations>%d</iterations></response>`,
			gwSalt, serverNonce, gwIterations)
	})

	mux.HandleFunc("/api/user/authentication_login", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(transport.VerificationTokenHeader); got != phaseTwoToken {
			t.Errorf("authentication_login verification token = %q, want %q", got, phaseTwoToken)
		}

		body, _ := io.ReadAll(r.Body)
		var req proofRequest
		if err := xml.Unmarshal(body, &req); err != nil {
			t.Errorf("authentication_login body did not parse: %v", err)
		}

		g.mu.Lock()
		clientNonce, serverNonce := g.clientNonce, g.serverNonce
		g.mu.Unlock()

		if req.FinalNonce != serverNonce {
			t.Errorf("finalnonce = %q, want server nonce %q", req.FinalNonce, serverNonce)
		}

		// The gateway always answers with proofs derived from its own
		// password. A client that derived from a different password
		// fails its own server-proof check.
		if !g.skipProofCheck {
			wantProof, err := scram.ClientProof(clientNonce, serverNonce, gwSalt, gwIterations, gwPassword)
			if err != nil {
				t.Fatalf("gateway client proof derivation failed: %v", err)
			}
			if !scram.Equal(wantProof, req.ClientProof) {
				t.Errorf("client proof on the wire does not match gateway derivation")
			}
		}

		serverProof, err := scram.ServerProof(clientNonce, serverNonce, gwSalt, gwIterations, gwPassword)
		if err != nil {
			t.Fatalf("gateway server proof derivation failed: %v", err)
		}
		pubKeySig, err := scram.PublicKeySignature(clientNonce, serverNonce, gwSalt, gwIterations, gwPassword, gwModulus)
		if err != nil {
			t.Fatalf("gateway public key signature derivation failed: %v", err)
		}

		w.Header()[transport.VerificationTokenHeaderOne] = []string{sessionToken}
		fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?><response><serversignature>%s</serversignature><rsapubkeysignature>%s</rsapubkeysignature><rsan>%s</rsan><rsae>%s</rsae></response>`,
			serverProof, pubKeySig, gwModulus, gwExponent)
	})

	mux.HandleFunc("/api/device/control", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(transport.VerificationTokenHeader); got != sessionToken {
			t.Errorf("control verification token = %q, want session token", got)
		}
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?><response>OK</response>`)
	})

	mux.HandleFunc("/api/device/information", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(transport.VerificationTokenHeader); got != sessionToken {
			t.Errorf("information verification token = %q, want session token", got)
		}
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?><response><DeviceName>GW-5000</DeviceName><SerialNumber>SN123456</SerialNumber><HardwareVersion>H1</HardwareVersion><SoftwareVersion>10.0.1</SoftwareVersion></response>`)
	})

	return mux
}

func newStack(t *testing.T, gw *gatewayServer) (*transport.HTTPClient, *login.Orchestrator, persistence.KeyStore, string) {
	t.Helper()

	srv := httptest.NewServer(gw.handler(t))
	t.Cleanup(srv.Close)

	client, err := transport.NewHTTPClient(transport.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("failed to create transport: %v", err)
	}

	dir := t.TempDir()
	keys := persistence.NewFileKeyStore(filepath.Join(dir, "trusted_key.json"))

	eventPath := filepath.Join(dir, "events.cbor")
	fileLog, err := log.NewFileLogger(eventPath)
	if err != nil {
		t.Fatalf("failed to create event log: %v", err)
	}
	t.Cleanup(func() { fileLog.Close() })

	orch, err := login.New(login.Config{
		Transport: client,
		Keys:      keys,
		Logger:    fileLog,
		Gateway:   srv.URL,
	})
	if err != nil {
		t.Fatalf("failed to create orchestrator: %v", err)
	}

	return client, orch, keys, eventPath
}

// TestE2E_LoginAndControl runs a complete login against a simulated
// gateway, then drives control commands with the verified session.
func TestE2E_LoginAndControl(t *testing.T) {
	gw := &gatewayServer{}
	client, orch, keys, eventPath := newStack(t, gw)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := orch.Login(ctx, login.Credentials{Username: "admin", Password: gwPassword})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.Token != sessionToken {
		t.Errorf("session token = %q, want %q", session.Token, sessionToken)
	}
	if session.AttemptID == "" {
		t.Error("session has no attempt ID")
	}

	// The gateway key must be persisted only now, after verification.
	key, err := keys.Load()
	if err != nil {
		t.Fatalf("key store load failed: %v", err)
	}
	if key == nil || key.Modulus != gwModulus || key.Exponent != gwExponent {
		t.Errorf("persisted key = %+v, want modulus %q", key, gwModulus)
	}

	ctrl, err := control.New(client, session)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}

	info, err := ctrl.Information(ctx)
	if err != nil {
		t.Fatalf("Information failed: %v", err)
	}
	if info.DeviceName != "GW-5000" || info.SerialNumber != "SN123456" {
		t.Errorf("device info = %+v", info)
	}

	if err := ctrl.Reboot(ctx); err != nil {
		t.Fatalf("Reboot failed: %v", err)
	}

	// The event log must show the attempt reaching the verified state.
	reader, err := log.NewReader(eventPath)
	if err != nil {
		t.Fatalf("failed to open event log: %v", err)
	}
	defer reader.Close()

	cat := log.CategoryStateChange
	reader.SetFilter(&log.Filter{AttemptID: session.AttemptID, Category: &cat})
	events, err := reader.All()
	if err != nil {
		t.Fatalf("failed to read event log: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("no state change events recorded")
	}
	last := events[len(events)-1]
	if last.State != login.StateVerified.String() {
		t.Errorf("final state = %q, want %q", last.State, login.StateVerified)
	}
}

// TestE2E_WrongPassword checks that a mismatched password surfaces as an
// identity failure and leaves no trusted key behind.
func TestE2E_WrongPassword(t *testing.T) {
	gw := &gatewayServer{skipProofCheck: true}
	_, orch, keys, _ := newStack(t, gw)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := orch.Login(ctx, login.Credentials{Username: "admin", Password: "not-the-password"})
	if err == nil {
		t.Fatal("Login should fail with a wrong password")
	}

	var loginErr *login.Error
	if !errors.As(err, &loginErr) {
		t.Fatalf("error %v is not a *login.Error", err)
	}
	if loginErr.Kind != login.KindIdentity {
		t.Errorf("error kind = %v, want %v", loginErr.Kind, login.KindIdentity)
	}

	key, err := keys.Load()
	if err != nil {
		t.Fatalf("key store load failed: %v", err)
	}
	if key != nil {
		t.Errorf("trusted key persisted despite failed verification: %+v", key)
	}
}

// TestE2E_RateLimited checks that a gateway lockout surfaces the wait time.
func TestE2E_RateLimited(t *testing.T) {
	gw := &gatewayServer{lockoutMinutes: 3}
	_, orch, _, _ := newStack(t, gw)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := orch.Login(ctx, login.Credentials{Username: "admin", Password: gwPassword})
	if err == nil {
		t.Fatal("Login should fail during a lockout")
	}

	var loginErr *login.Error
	if !errors.As(err, &loginErr) {
		t.Fatalf("error %v is not a *login.Error", err)
	}
	if loginErr.Kind != login.KindRateLimit {
		t.Errorf("error kind = %v, want %v", loginErr.Kind, login.KindRateLimit)
	}
	if loginErr.WaitMinutes != 3 {
		t.Errorf("wait minutes = %d, want 3", loginErr.WaitMinutes)
	}
}
