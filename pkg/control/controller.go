package control

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/gatelink-protocol/gatelink-go/pkg/login"
	"github.com/gatelink-protocol/gatelink-go/pkg/transport"
	"github.com/gatelink-protocol/gatelink-go/pkg/wire"
)

// Gateway control endpoints.
const (
	controlEndpoint     = "/api/device/control"
	informationEndpoint = "/api/device/information"
)

// rebootControlCode selects the reboot action on the control endpoint.
const rebootControlCode = "1"

// Control errors.
var (
	ErrCommandRejected = errors.New("gateway rejected control command")
	ErrNoSession       = errors.New("control requires a verified session")
)

// DeviceInfo is the subset of gateway identity fields the information
// endpoint exposes.
type DeviceInfo struct {
	XMLName         xml.Name `xml:"response"`
	DeviceName      string   `xml:"DeviceName"`
	SerialNumber    string   `xml:"SerialNumber"`
	HardwareVersion string   `xml:"HardwareVersion"`
	SoftwareVersion string   `xml:"SoftwareVersion"`
}

// Controller executes control commands against a gateway using a verified
// login session.
type Controller struct {
	transport transport.Client
	session   *login.Session
}

// New creates a Controller for the given session.
func New(client transport.Client, session *login.Session) (*Controller, error) {
	if client == nil {
		return nil, errors.New("control: transport is required")
	}
	if session == nil || session.Token == "" {
		return nil, ErrNoSession
	}
	return &Controller{transport: client, session: session}, nil
}

// Reboot asks the gateway to restart. The session (and its token) is
// invalid once the device goes down.
func (c *Controller) Reboot(ctx context.Context) error {
	body := wire.EncodeRequest([]wire.Field{
		{Name: "Control", Value: rebootControlCode},
	})

	resp, err := c.post(ctx, controlEndpoint, body)
	if err != nil {
		return err
	}

	msg, err := wire.DecodeResponse(resp.Body)
	if err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	switch m := msg.(type) {
	case *wire.StatusResponse:
		return nil
	case *wire.ErrorResponse:
		return fmt.Errorf("%w: code %d", ErrCommandRejected, m.Code)
	default:
		return fmt.Errorf("reboot: unexpected response %T", msg)
	}
}

// Information reads the gateway's device identity fields.
func (c *Controller) Information(ctx context.Context) (*DeviceInfo, error) {
	resp, err := c.transport.Do(ctx, http.MethodGet, informationEndpoint, c.header(), nil)
	if err != nil {
		return nil, fmt.Errorf("information request failed: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("information request failed: status %d", resp.Status)
	}

	info := &DeviceInfo{}
	if err := xml.Unmarshal(resp.Body, info); err != nil {
		return nil, fmt.Errorf("unparseable information response: %w", err)
	}
	return info, nil
}

func (c *Controller) post(ctx context.Context, path string, body []byte) (*transport.Response, error) {
	resp, err := c.transport.Do(ctx, http.MethodPost, path, c.header(), body)
	if err != nil {
		return nil, fmt.Errorf("control request failed: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("control request failed: status %d", resp.Status)
	}
	return resp, nil
}

func (c *Controller) header() http.Header {
	return http.Header{transport.VerificationTokenHeader: {c.session.Token}}
}
