// Package control executes device-control commands over an authenticated
// session.
//
// Control commands are outside the login protocol itself: they require a
// verified session token from pkg/login and reuse the same transport and
// XML wire format. Only a small command surface is implemented; anything
// managing the gateway beyond reboot and basic device information belongs
// to the embedding application.
package control
