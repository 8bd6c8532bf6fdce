package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
)

const (
	// SQLiteDriverName is the database/sql driver every SQLite connection
	// of the catalogue goes through.
	SQLiteDriverName = "sqlite3_library"

	// UnicodeLowerFunc folds case for any script. SQLite's built-in LOWER
	// only folds ASCII letters.
	UnicodeLowerFunc = "unicode_lower"
)

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(UnicodeLowerFunc, strings.ToLower, true)
		},
	})
}

// SQLiteDialector opens path through the catalogue driver so the
// connection carries UnicodeLowerFunc.
func SQLiteDialector(path string) *sqlite.Dialector {
	return &sqlite.Dialector{DriverName: SQLiteDriverName, DSN: path}
}
