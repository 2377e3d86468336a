// Package migrations holds Go migrations whose DDL differs per database
// dialect and so cannot be a single shared SQL file.
package migrations

// dialect is set by the db package before goose.Up runs.
var dialect string

// SetDialect selects the DDL variant used by the Go migrations.
// Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
