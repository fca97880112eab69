// Package migrations carries the SQL schema of the postgres store
package migrations

import (
	_ "embed"
)

//go:embed 001_init.sql
var InitSQL string
