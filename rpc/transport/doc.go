// Package transport provides the network communication layer of the
// reservation system with pluggable implementations (TCP, unix sockets).
//
// The wire discipline is shared by all implementations: every message is
// carried in one frame consisting of a 4-byte big-endian payload length
// followed by exactly that many payload bytes (see the base subpackage).
// Connections are used strictly request/response: the middleware issues at
// most one outstanding request per backend connection, so no pipelining or
// response reordering occurs on a socket.
package transport
