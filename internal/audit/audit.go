// Package audit implements the role-partitioned audit log.
//
// Every security-relevant action is appended to one of three independent
// partitions (master_admin, admin, user), selected by the role of the
// acting account. Each partition mirrors its in-memory sequence to a JSON
// array file; writes to one partition are serialized by that partition's
// lock while unrelated partitions proceed concurrently.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/authvault/authvault/internal/db/models"
)

const (
	masterAdminLogFile = "master_admin_logs.json"
	adminLogFile       = "admin_logs.json"
	userLogFile        = "user_logs.json"

	fileMode = 0o600
	dirMode  = 0o750
)

// Log is the role-partitioned audit log.
type Log struct {
	masterAdmin partition
	admin       partition
	user        partition
}

type partition struct {
	mu      sync.Mutex
	path    string
	prefix  string
	entries []Entry
}

// New creates the audit log under the given data directory. The directory
// and empty (`[]`) partition files are created if absent, and any existing
// content is loaded into memory.
func New(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, errors.Wrap(err, "failed to create audit log directory")
	}

	l := &Log{
		masterAdmin: partition{path: filepath.Join(dir, masterAdminLogFile), prefix: "master_admin_"},
		admin:       partition{path: filepath.Join(dir, adminLogFile), prefix: "admin_"},
		user:        partition{path: filepath.Join(dir, userLogFile), prefix: ""},
	}

	for _, p := range l.partitions() {
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			if err := os.WriteFile(p.path, []byte("[]"), fileMode); err != nil {
				return nil, errors.Wrap(err, "failed to create audit partition file")
			}
		}
	}

	l.Reload()

	return l, nil
}

func (l *Log) partitions() []*partition {
	return []*partition{&l.masterAdmin, &l.admin, &l.user}
}

// partitionFor selects the partition from the acting account's role.
// Unknown or unauthenticated actors land in the user partition.
func (l *Log) partitionFor(role models.Role) *partition {
	switch role {
	case models.RoleMasterAdmin:
		return &l.masterAdmin
	case models.RoleAdmin:
		return &l.admin
	default:
		return &l.user
	}
}

// Record appends the entry to the partition selected by role and rewrites
// that partition's persisted file. A missing timestamp is assigned at call
// time. Only environment faults (inability to write the file) are reported
// as errors.
func (l *Log) Record(role models.Role, e Entry) error {
	if e.Timestamp == "" {
		e.Timestamp = NowTimestamp()
	}

	p := l.partitionFor(role)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries, e)

	if err := p.write(); err != nil {
		return errors.Wrap(err, "failed to persist audit partition")
	}

	return nil
}

// Entries returns a snapshot of the partition for the given role.
func (l *Log) Entries(role models.Role) []Entry {
	p := l.partitionFor(role)

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Entry, len(p.entries))
	copy(out, p.entries)

	return out
}

// Reload re-reads all partitions from durable storage, discarding the
// current in-memory state. Used to pick up externally modified files.
func (l *Log) Reload() {
	for _, p := range l.partitions() {
		p.mu.Lock()
		p.load()
		p.mu.Unlock()
	}
}

// write mirrors the in-memory sequence to disk. The file is rewritten as a
// whole via a temporary file and an atomic rename so a crash mid-write can
// not truncate the partition. Callers hold the partition lock.
func (p *partition) write() error {
	out := make([]map[string]any, 0, len(p.entries))

	for _, e := range p.entries {
		m, err := e.toMap(p.prefix)
		if err != nil {
			return err
		}

		out = append(out, m)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err //nolint:wrapcheck
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return err //nolint:wrapcheck
	}

	return os.Rename(tmp, p.path) //nolint:wrapcheck
}

// load replaces the in-memory sequence with the persisted one. A missing,
// unreadable or malformed file loads as an empty sequence rather than
// failing. Callers hold the partition lock.
func (p *partition) load() {
	p.entries = nil

	data, err := os.ReadFile(p.path)
	if err != nil {
		return
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Str("path", p.path).Msgf("malformed audit partition, starting empty: %v", err)
		return
	}

	entries := make([]Entry, 0, len(raw))

	for _, m := range raw {
		e, err := entryFromMap(m, p.prefix)
		if err != nil {
			log.Warn().Str("path", p.path).Msgf("malformed audit entry, starting empty: %v", err)
			return
		}

		entries = append(entries, e)
	}

	p.entries = entries
}
