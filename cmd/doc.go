// Package cmd implements the command-line interface for the tRS travel
// reservation system. It provides a hierarchical command structure with
// operations for running the servers and interacting with them as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting the backend resource managers and the
//     middleware
//   - res: Commands for reservation operations (add, query, reserve,
//     customers, bundles)
//   - util: Shared utilities for command-line processing and configuration
//     (internal use)
//
// See trs -help for a list of all commands.
package cmd
