package repositories

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is the sqlite3 driver with a Unicode-aware LOWER.
const sqliteDriverName = "sqlite3_catalog"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The built-in LOWER only folds ASCII; search terms are folded
			// with strings.ToLower, so both sides must use the same rules.
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// SQLiteDialector returns a GORM dialector for dsn on the catalog's sqlite driver.
func SQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        dsn,
	})
}
