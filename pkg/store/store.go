// Package store is the operator-side sqlite cache. The remote API stays the
// source of truth for every entity; this keeps timestamped stats snapshots
// for the dashboard trend view, a log of admin actions taken through the
// console, and the last settings bundle seen.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS stats_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scope TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS action_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity TEXT NOT NULL,
    action TEXT NOT NULL,
    target_id TEXT,
    target_name TEXT,
    outcome TEXT NOT NULL DEFAULT 'ok',
    message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings_cache (
    key TEXT PRIMARY KEY,
    payload TEXT NOT NULL DEFAULT '{}',
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshot_scope ON stats_snapshots(scope);
CREATE INDEX IF NOT EXISTS idx_snapshot_time ON stats_snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_action_time ON action_log(created_at);
CREATE INDEX IF NOT EXISTS idx_action_entity ON action_log(entity);
`

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- Stats Snapshots ----

type Snapshot struct {
	ID        int64     `json:"id"`
	Scope     string    `json:"scope"` // "dashboard","users","mining","referrals"
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) SaveSnapshot(scope string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO stats_snapshots (scope, payload) VALUES (?, ?)`,
		scope, string(data))
	return err
}

func (s *Store) RecentSnapshots(scope string, limit int) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, scope, payload, created_at FROM stats_snapshots
		WHERE scope=? ORDER BY created_at DESC, id DESC LIMIT ?`, scope, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var sn Snapshot
		if err := rows.Scan(&sn.ID, &sn.Scope, &sn.Payload, &sn.CreatedAt); err != nil {
			continue
		}
		snaps = append(snaps, sn)
	}
	return snaps, nil
}

// PruneSnapshots drops snapshots older than the retention window.
func (s *Store) PruneSnapshots(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec(`DELETE FROM stats_snapshots WHERE created_at < ?`, cutoff)
	return err
}

// ---- Action Log ----

type Action struct {
	ID         int64     `json:"id"`
	Entity     string    `json:"entity"` // "kyc","payments","users",...
	Action     string    `json:"action"` // "approve","reject","add-coins",...
	TargetID   string    `json:"target_id"`
	TargetName string    `json:"target_name"`
	Outcome    string    `json:"outcome"` // "ok","error"
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Store) LogAction(a Action) error {
	_, err := s.db.Exec(`
		INSERT INTO action_log (entity, action, target_id, target_name, outcome, message)
		VALUES (?,?,?,?,?,?)`,
		a.Entity, a.Action, a.TargetID, a.TargetName, a.Outcome, a.Message)
	return err
}

func (s *Store) RecentActions(limit int) ([]Action, error) {
	rows, err := s.db.Query(`
		SELECT id, entity, action, COALESCE(target_id,''), COALESCE(target_name,''),
		       outcome, COALESCE(message,''), created_at
		FROM action_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.Entity, &a.Action, &a.TargetID, &a.TargetName,
			&a.Outcome, &a.Message, &a.CreatedAt); err != nil {
			continue
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// ---- Settings Cache ----

func (s *Store) CacheSettings(key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings_cache (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, updated_at=CURRENT_TIMESTAMP`,
		key, string(data))
	return err
}

func (s *Store) CachedSettings(key string, v interface{}) (bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM settings_cache WHERE key=?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("decode cached settings: %w", err)
	}
	return true, nil
}

// ---- Stats ----

func (s *Store) Counts() (map[string]int64, error) {
	counts := map[string]int64{}
	for _, t := range []string{"stats_snapshots", "action_log", "settings_cache"} {
		var n int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&n); err == nil {
			counts[t] = n
		}
	}
	return counts, nil
}
