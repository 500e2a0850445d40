// Package server implements the core session and broadcast engine for the
// partyline chat service.
//
// Clients connect over plain TCP (or through the WebSocket gateway), pick a
// display name, and exchange newline-framed text. The implementation is
// organized into specialized files for the registry, message queue,
// broadcaster, sessions, commands, and the HTTP gateway to keep the codebase
// maintainable and testable as the project grows.
package server
