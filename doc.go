// Package ldbc is a type-safe, composable database-program algebra for
// MySQL. It builds SQL fragments from typed values (param.go), describes
// database computations as pure DBIO values (dbio.go) independent of any
// connection, and interprets those programs against a Connection capability
// (capability.go) with a fixed acquire/bind/execute/decode/release/log
// lifecycle (interpreter.go) and a transaction-mode bracket table
// (connector.go).
//
// The package never opens a socket itself; an adapter such as mysqladapter
// supplies the Connection a Connector drives.
package ldbc
