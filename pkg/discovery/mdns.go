package discovery

import (
	"context"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// Browser browses for gateway management services via mDNS.
type Browser struct {
	config Config
}

// NewBrowser creates a Browser.
func NewBrowser(config Config) *Browser {
	if config.ServiceType == "" {
		config.ServiceType = DefaultServiceType
	}
	if config.Timeout <= 0 {
		config.Timeout = BrowseTimeout
	}
	return &Browser{config: config}
}

// Browse streams gateways as they are discovered. Entries from multiple
// interfaces are aggregated by instance name so each gateway is emitted
// once. The returned channel is closed when ctx is cancelled.
func (b *Browser) Browse(ctx context.Context) (<-chan *Gateway, error) {
	out := make(chan *Gateway)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]bool)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				gw := entryToGateway(entry)
				if gw == nil || seen[gw.InstanceName] {
					continue
				}
				seen[gw.InstanceName] = true
				select {
				case out <- gw:
				case <-ctx.Done():
					return
				}

			case <-removed:
				// Removals are not surfaced; a login attempt against a
				// vanished gateway fails at the transport anyway.

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, b.config.ServiceType, Domain, entries, removed, b.options()...)
	}()

	return out, nil
}

// Find collects every gateway discovered within the configured timeout.
func (b *Browser) Find(ctx context.Context) ([]*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	ch, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	var gateways []*Gateway
	for gw := range ch {
		gateways = append(gateways, gw)
	}
	return gateways, nil
}

func (b *Browser) options() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.config.Interface != "" {
		if iface, err := net.InterfaceByName(b.config.Interface); err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

// entryToGateway converts a zeroconf entry to a Gateway.
func entryToGateway(entry *zeroconf.ServiceEntry) *Gateway {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Gateway{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         entry.Port,
		Addresses:    addrs,
		TXT:          entry.Text,
	}
}
