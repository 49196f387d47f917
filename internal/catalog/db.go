package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS channels (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    grp          TEXT NOT NULL DEFAULT '',
    logo         TEXT NOT NULL DEFAULT '',
    catchup      INTEGER NOT NULL DEFAULT 0,
    catchup_days INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_channels_name ON channels(name);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Replace swaps the cached catalog for a fresh provider snapshot and stamps
// the fetch time.
func (d *DB) Replace(channels []Channel, fetchedAt time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM channels"); err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO channels (id, name, grp, logo, catchup, catchup_days) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, ch := range channels {
		catchup := 0
		if ch.Catchup {
			catchup = 1
		}
		if _, err := stmt.Exec(ch.ID, ch.Name, ch.Group, ch.Logo, catchup, ch.CatchupDays); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('fetched_at', ?)",
		strconv.FormatInt(fetchedAt.Unix(), 10),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// FetchedAt returns the time of the last catalog refresh, zero when the cache
// has never been filled.
func (d *DB) FetchedAt() (time.Time, error) {
	var v string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'fetched_at'").Scan(&v)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, nil
	}
	return time.Unix(sec, 0), nil
}

// Stale reports whether the cache is empty or older than ttl.
func (d *DB) Stale(ttl time.Duration, now time.Time) bool {
	fetched, err := d.FetchedAt()
	if err != nil || fetched.IsZero() {
		return true
	}
	return now.Sub(fetched) > ttl
}

func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM channels").Scan(&n)
	return n, err
}

type Options struct {
	Query string // substring match on name or group
	Group string // exact group filter
	Limit int    // 0 = no limit
}

// Filter returns channels matching opts, ordered by group then name.
func (d *DB) Filter(opts Options) ([]Channel, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if opts.Query != "" {
		conditions = append(conditions, "(name LIKE ? OR grp LIKE ?)")
		pat := "%" + opts.Query + "%"
		args = append(args, pat, pat)
	}
	if opts.Group != "" {
		conditions = append(conditions, "grp = ?")
		args = append(args, opts.Group)
	}

	query := fmt.Sprintf(
		"SELECT id, name, grp, logo, catchup, catchup_days FROM channels WHERE %s ORDER BY grp, name",
		strings.Join(conditions, " AND "))
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter channels: %w", err)
	}
	defer rows.Close()

	return scanChannels(rows)
}

// Lookup finds a channel by numeric ID or by case-insensitive name. A name
// matching several channels is an error so playback never guesses.
func (d *DB) Lookup(ref string) (*Channel, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		ch, err := d.byID(id)
		if err != nil || ch != nil {
			return ch, err
		}
		// fall through: an all-digit name is unusual but legal
	}

	rows, err := d.db.Query(
		"SELECT id, name, grp, logo, catchup, catchup_days FROM channels WHERE name LIKE ? COLLATE NOCASE ORDER BY name",
		"%"+ref+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches, err := scanChannels(rows)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	}
	// prefer an exact name match before declaring ambiguity
	for i := range matches {
		if strings.EqualFold(matches[i].Name, ref) {
			return &matches[i], nil
		}
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
		if len(names) == 5 {
			names = append(names, "...")
			break
		}
	}
	return nil, fmt.Errorf("ambiguous channel %q: matches %s", ref, strings.Join(names, ", "))
}

func (d *DB) byID(id int) (*Channel, error) {
	var ch Channel
	var catchup int
	err := d.db.QueryRow(
		"SELECT id, name, grp, logo, catchup, catchup_days FROM channels WHERE id = ?", id,
	).Scan(&ch.ID, &ch.Name, &ch.Group, &ch.Logo, &catchup, &ch.CatchupDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ch.Catchup = catchup != 0
	return &ch, nil
}

// Groups returns the distinct group names in display order.
func (d *DB) Groups() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT grp FROM channels WHERE grp != '' ORDER BY grp")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanChannels(rows *sql.Rows) ([]Channel, error) {
	var channels []Channel
	for rows.Next() {
		var ch Channel
		var catchup int
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Group, &ch.Logo, &catchup, &ch.CatchupDays); err != nil {
			return nil, err
		}
		ch.Catchup = catchup != 0
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}
