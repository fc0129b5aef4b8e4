// Package middleware implements the central server of the reservation
// system. It sits between the clients and the three backend resource
// servers (flights, cars, rooms) and is the only component that talks to
// more than one backend.
//
// The package focuses on:
//   - Routing single-backend commands to the backend owning the resource
//     class, forwarding request and response verbatim
//   - Coordinating the cross-backend operations: customer lifecycle fan-out
//     with AND-aggregated results, bill concatenation and bundles
//   - Session management with per-session backend connections
//
// Key Components:
//
//   - IBackendCaller: The coordinator's view of one backend connection,
//     with verbatim forwarding and typed calls. Implemented by backendConn
//     over a client transport, replaceable by fakes in tests.
//
//   - coordinator: Implements the routing table and the cross-backend
//     operations for one session.
//
//   - session: Serves one client connection, strictly one request at a
//     time.
//
//   - NewMiddlewareServer: Factory function creating the accepting server.
//
// Bundles:
//
//	A bundle reserves a sequence of flights plus optionally a car and a
//	room in one operation. Admission checks all availabilities first, the
//	commit phase then issues the individual reservations. There is no
//	rollback if a commit step fails after admission; the partial
//	reservation is kept and logged.
//
// Error Handling:
//
//	Business rejections travel as regular false results. Error responses
//	from a backend are relayed to the client and leave the session open. A
//	broken backend connection or a protocol violation terminates the
//	session after a final error response, it is never masked as a false
//	result.
package middleware
