package postgres

import (
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// timestamp scans a created_at column. pgx yields time.Time; SQLite hands back text when the
// column type is unknown to the driver, as it is for RETURNING.
type timestamp struct{ t *time.Time }

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognised format %q", s)
}
