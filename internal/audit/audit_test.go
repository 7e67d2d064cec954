package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authvault/authvault/internal/db/models"
)

func newTestLog(t *testing.T) (*Log, string) {
	t.Helper()

	dir := t.TempDir()

	l, err := New(dir)
	require.NoError(t, err, "failed to create audit log")

	return l, dir
}

func TestNewCreatesEmptyPartitionFiles(t *testing.T) {
	_, dir := newTestLog(t)

	for _, name := range []string{masterAdminLogFile, adminLogFile, userLogFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	}
}

func TestRecordPartitionSelection(t *testing.T) {
	l, _ := newTestLog(t)

	id := "Dr_Smith_1001_abc"
	require.NoError(t, l.Record(models.RoleMasterAdmin, Entry{
		ActorID: &id, Username: "Dr_Smith_1001", Action: ActionLogin, Success: true, Reason: ReasonToken("CREDENTIALS_VALID"),
	}))
	require.NoError(t, l.Record(models.RoleAdmin, Entry{
		Username: "Dr_Brown_1004", Action: ActionLogin, Success: false, Reason: ReasonToken("INVALID_PASSWORD"),
	}))
	require.NoError(t, l.Record(models.RoleUser, Entry{
		Username: "ghost", Action: ActionLogin, Success: false, Reason: ReasonToken("USER_NOT_FOUND"),
	}))
	// unknown roles fall through to the user partition
	require.NoError(t, l.Record(models.Role("intruder"), Entry{
		Username: "ghost", Action: ActionLogin, Success: false, Reason: ReasonToken("USER_NOT_FOUND"),
	}))

	assert.Len(t, l.Entries(models.RoleMasterAdmin), 1)
	assert.Len(t, l.Entries(models.RoleAdmin), 1)
	assert.Len(t, l.Entries(models.RoleUser), 2)
}

func TestRecordAssignsTimestamp(t *testing.T) {
	l, _ := newTestLog(t)

	require.NoError(t, l.Record(models.RoleUser, Entry{Username: "alice", Action: ActionRegister, Success: true}))

	entries := l.Entries(models.RoleUser)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestPartitionFieldPrefixes(t *testing.T) {
	l, dir := newTestLog(t)

	id := "u1"
	e := Entry{ActorID: &id, Username: "x", Action: ActionRegister, Success: true, Reason: ReasonToken("USER_CREATED")}

	require.NoError(t, l.Record(models.RoleMasterAdmin, e))
	require.NoError(t, l.Record(models.RoleAdmin, e))
	require.NoError(t, l.Record(models.RoleUser, e))

	testCases := []struct {
		file   string
		prefix string
	}{
		{masterAdminLogFile, "master_admin_"},
		{adminLogFile, "admin_"},
		{userLogFile, ""},
	}

	for _, tc := range testCases {
		data, err := os.ReadFile(filepath.Join(dir, tc.file))
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, 1)

		for _, key := range []string{"id", "username", "action", "success", "reason"} {
			assert.Contains(t, decoded[0], tc.prefix+key, "file %s", tc.file)
		}

		// timestamp key is shared, never prefixed
		assert.Contains(t, decoded[0], "timestamp", "file %s", tc.file)
	}
}

func TestReloadMirrorsMemory(t *testing.T) {
	l, _ := newTestLog(t)

	id := "u1"

	require.NoError(t, l.Record(models.RoleMasterAdmin, Entry{
		ActorID: &id, Username: "x", Action: ActionRegister, Success: true, Reason: ReasonToken("USER_CREATED"),
	}))
	require.NoError(t, l.Record(models.RoleUser, Entry{
		Username: "y", Action: ActionRegister, Success: false,
		Reason: Reason{"password must contain a digit", "password must contain a special character"},
	}))
	require.NoError(t, l.Record(models.RoleUser, Entry{
		Username: "y", Action: ActionLogin, Success: false, Reason: ReasonToken("USER_NOT_FOUND"),
	}))

	before := map[models.Role][]Entry{
		models.RoleMasterAdmin: l.Entries(models.RoleMasterAdmin),
		models.RoleAdmin:       l.Entries(models.RoleAdmin),
		models.RoleUser:        l.Entries(models.RoleUser),
	}

	l.Reload()

	for role, want := range before {
		assert.Equal(t, want, l.Entries(role), "partition %s", role)
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	l, dir := newTestLog(t)

	external := `[{"id":null,"username":"ghost","action":"login","success":false,"reason":"USER_NOT_FOUND","timestamp":"2026-01-02T03:04:05Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, userLogFile), []byte(external), 0o600))

	l.Reload()

	entries := l.Entries(models.RoleUser)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ActorID)
	assert.Equal(t, "ghost", entries[0].Username)
	assert.Equal(t, ReasonToken("USER_NOT_FOUND"), entries[0].Reason)
	assert.Equal(t, "2026-01-02T03:04:05Z", entries[0].Timestamp)
}

func TestMalformedPartitionLoadsEmpty(t *testing.T) {
	l, dir := newTestLog(t)

	require.NoError(t, l.Record(models.RoleAdmin, Entry{Username: "x", Action: ActionLogin, Success: true}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, adminLogFile), []byte("{not json"), 0o600))

	l.Reload()

	assert.Empty(t, l.Entries(models.RoleAdmin))
}

func TestMissingPartitionLoadsEmpty(t *testing.T) {
	l, dir := newTestLog(t)

	require.NoError(t, os.Remove(filepath.Join(dir, masterAdminLogFile)))

	l.Reload()

	assert.Empty(t, l.Entries(models.RoleMasterAdmin))
}

func TestConcurrentRecord(t *testing.T) {
	l, _ := newTestLog(t)

	const writers = 8

	const perWriter = 10

	var wg sync.WaitGroup

	roles := []models.Role{models.RoleMasterAdmin, models.RoleAdmin, models.RoleUser}

	for w := 0; w < writers; w++ {
		wg.Add(1)

		go func(w int) {
			defer wg.Done()

			for i := 0; i < perWriter; i++ {
				role := roles[w%len(roles)]
				err := l.Record(role, Entry{
					Username: fmt.Sprintf("writer-%d", w),
					Action:   ActionLogin,
					Success:  i%2 == 0,
					Reason:   ReasonToken("CREDENTIALS_VALID"),
				})
				assert.NoError(t, err)
			}
		}(w)
	}

	wg.Wait()

	total := len(l.Entries(models.RoleMasterAdmin)) + len(l.Entries(models.RoleAdmin)) + len(l.Entries(models.RoleUser))
	assert.Equal(t, writers*perWriter, total)

	// persisted state mirrors memory even after contention
	before := l.Entries(models.RoleUser)
	l.Reload()
	assert.Equal(t, before, l.Entries(models.RoleUser))
}

func TestReasonRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		in   Reason
		json string
	}{
		{name: "token", in: ReasonToken("USER_CREATED"), json: `"USER_CREATED"`},
		{name: "feedback list", in: Reason{"too short", "needs a digit"}, json: `["too short","needs a digit"]`},
		{name: "empty", in: Reason{}, json: `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.in)
			require.NoError(t, err)
			assert.JSONEq(t, tc.json, string(data))

			var out Reason
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, tc.in, out)
		})
	}
}
