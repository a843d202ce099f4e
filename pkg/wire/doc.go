// Package wire implements the XML wire format spoken by GateLink gateways.
//
// Requests are flat XML documents with an ordered list of fields:
//
//	<?xml version="1.0" encoding="utf-8"?>
//	<request><username>admin</username><mode>1</mode></request>
//
// Responses are either a <response> document whose children depend on the
// endpoint, or an <error> document carrying a numeric code and, for login
// lockouts, a wait time in minutes. DecodeResponse returns one concrete
// message type per response shape; callers switch on the returned type.
package wire
