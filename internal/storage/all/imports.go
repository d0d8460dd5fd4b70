// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "mssql"    (csvload/internal/storage/mssql)
//   - "mysql"    (csvload/internal/storage/mysql)
//   - "postgres" (csvload/internal/storage/postgres)
//   - "sqlite"   (csvload/internal/storage/sqlite)
//
// The wiring layer (cmd/csvload) blank-imports this package; everything else
// depends only on the storage abstraction. A binary that should support only
// a subset of backends can import the required backend packages directly
// instead of this one.
package all

import (
	_ "csvload/internal/storage/mssql"
	_ "csvload/internal/storage/mysql"
	_ "csvload/internal/storage/postgres"
	_ "csvload/internal/storage/sqlite"
)
