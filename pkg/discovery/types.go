package discovery

import (
	"fmt"
	"time"
)

// Service discovery constants.
const (
	// DefaultServiceType is the DNS-SD service gateways advertise their
	// management interface under.
	DefaultServiceType = "_gatelink._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// BrowseTimeout is the default timeout for Find.
	BrowseTimeout = 10 * time.Second
)

// Gateway describes a discovered gateway management interface.
type Gateway struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised hostname.
	Host string

	// Port is the management interface port.
	Port int

	// Addresses are the IPv4/IPv6 addresses the gateway answered from.
	Addresses []string

	// TXT holds the raw TXT records, if any.
	TXT []string
}

// BaseURL returns the HTTP base URL for the gateway's first address, or
// the empty string when no address was resolved.
func (g *Gateway) BaseURL() string {
	if len(g.Addresses) == 0 {
		return ""
	}
	if g.Port == 0 || g.Port == 80 {
		return fmt.Sprintf("http://%s", g.Addresses[0])
	}
	return fmt.Sprintf("http://%s:%d", g.Addresses[0], g.Port)
}

// Config configures a Browser.
type Config struct {
	// ServiceType overrides the DNS-SD service type to browse for.
	// Empty selects DefaultServiceType.
	ServiceType string

	// Interface restricts browsing to one network interface by name.
	// Empty means all interfaces.
	Interface string

	// Timeout bounds Find. Zero selects BrowseTimeout.
	Timeout time.Duration
}
