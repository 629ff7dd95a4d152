package database

// Dialect carries the few statements that differ between supported engines.
type Dialect struct {
	Name string
	// LockRows is appended to a SELECT to take row locks for the rest of the
	// transaction. Empty when the engine serializes write transactions instead.
	LockRows string
}

var (
	DialectPostgres = Dialect{Name: "postgres", LockRows: "FOR UPDATE"}
	DialectSQLite   = Dialect{Name: "sqlite"}
)

func (d Dialect) SchemaFile() string {
	return "schema/" + d.Name + ".sql"
}
