// Package discovery finds gateways on the local network via mDNS.
//
// Gateways advertise their web management interface as a DNS-SD service.
// Browse streams gateways as they are found; Find collects everything seen
// within a timeout. Discovery yields the base URL a transport should be
// pointed at; it performs no authentication itself.
package discovery
