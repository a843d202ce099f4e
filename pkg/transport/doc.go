// Package transport provides the HTTP transport used to talk to a gateway.
//
// Gateways manage a browser-style session: the first request to the device
// root sets a session cookie, and later login phases rotate an anti-forgery
// token through the __RequestVerificationToken header. The transport owns
// the cookie jar as an opaque side effect; callers never inspect cookies
// and only ever see status, headers, and body.
//
// Header names are case-insensitive on read. On write the exact header
// name the firmware expects must be used; see VerificationTokenHeader.
package transport
