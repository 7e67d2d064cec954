package audit

import (
	"encoding/json"
	"time"
)

// Action tokens recorded in audit entries.
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionChangePassword = "change_password"
)

// Entry is an immutable audit fact. Entries are appended to a partition,
// never mutated or removed.
type Entry struct {
	// ActorID is nil when the actor is unknown, e.g. a login attempt
	// against a nonexistent username.
	ActorID  *string
	Username string
	Action   string
	Success  bool
	Reason   Reason
	// Timestamp is the ISO-8601 UTC time of the action, assigned at call
	// time. External readers order by it, not by file position.
	Timestamp string
}

// NowTimestamp returns the current UTC time in the audit timestamp format.
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Reason is either a short status token or a list of human-readable policy
// feedback messages. A single element is persisted as a plain JSON string,
// multiple elements as an array; both shapes load back.
type Reason []string

// ReasonToken wraps a single status token.
func ReasonToken(token string) Reason {
	return Reason{token}
}

// MarshalJSON implements json.Marshaler.
func (r Reason) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0]) //nolint:wrapcheck
	}

	return json.Marshal([]string(r)) //nolint:wrapcheck
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Reason) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = Reason{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err //nolint:wrapcheck
	}

	*r = Reason(list)

	return nil
}

// toMap renders the entry with the partition's field-name prefix.
// The timestamp key is shared across partitions.
func (e Entry) toMap(prefix string) (map[string]any, error) {
	reason, err := json.Marshal(e.Reason)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return map[string]any{
		prefix + "id":       e.ActorID,
		prefix + "username": e.Username,
		prefix + "action":   e.Action,
		prefix + "success":  e.Success,
		prefix + "reason":   json.RawMessage(reason),
		"timestamp":         e.Timestamp,
	}, nil
}

// entryFromMap is the inverse of toMap.
func entryFromMap(m map[string]json.RawMessage, prefix string) (Entry, error) {
	var e Entry

	if raw, ok := m[prefix+"id"]; ok {
		if err := json.Unmarshal(raw, &e.ActorID); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	if raw, ok := m[prefix+"username"]; ok {
		if err := json.Unmarshal(raw, &e.Username); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	if raw, ok := m[prefix+"action"]; ok {
		if err := json.Unmarshal(raw, &e.Action); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	if raw, ok := m[prefix+"success"]; ok {
		if err := json.Unmarshal(raw, &e.Success); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	if raw, ok := m[prefix+"reason"]; ok {
		if err := json.Unmarshal(raw, &e.Reason); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	if raw, ok := m["timestamp"]; ok {
		if err := json.Unmarshal(raw, &e.Timestamp); err != nil {
			return Entry{}, err //nolint:wrapcheck
		}
	}

	return e, nil
}
