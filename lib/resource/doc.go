// Package resource implements the in-memory resource manager of the
// reservation system. It manages pools of reservable travel items (flight
// seats, cars and rooms, each keyed by flight number or location) and the
// customers holding reservations on them.
//
// Each backend server embeds one IResourceManager and exposes it over RPC;
// the middleware never touches this package's state directly. The
// implementation is safe for concurrent use: item pools live in a concurrent
// map and are mutated atomically per key, customers carry their own lock.
// There is no cross-item transaction, a reservation touches exactly one item
// pool and one customer.
package resource
