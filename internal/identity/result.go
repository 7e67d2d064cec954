package identity

import (
	"github.com/authvault/authvault/internal/db/models"
)

// Status codes returned by identity store operations. Callers branch on
// these machine-readable tokens, never on error strings.
const (
	// CodePasswordInvalid is returned when a registration password fails policy.
	CodePasswordInvalid = "PASSWORD_INVALID"
	// CodeUsernameTaken is returned when registering an existing username.
	CodeUsernameTaken = "USERNAME_TAKEN"
	// CodeUserNotFound is returned for operations on unknown usernames.
	CodeUserNotFound = "USER_NOT_FOUND"
	// CodeInvalidPassword is returned on a login credential mismatch.
	CodeInvalidPassword = "INVALID_PASSWORD"
	// CodeInvalidOldPassword is returned when a password change presents the wrong current credential.
	CodeInvalidOldPassword = "INVALID_OLD_PASSWORD"
	// CodePasswordPolicyFailed is returned when a new password fails policy during a change.
	CodePasswordPolicyFailed = "PASSWORD_POLICY_FAILED"

	// CodeUserCreated is the registration success code.
	CodeUserCreated = "USER_CREATED"
	// CodeCredentialsValid is the login success code.
	CodeCredentialsValid = "CREDENTIALS_VALID"
	// CodePasswordChanged is the password change success code.
	CodePasswordChanged = "PASSWORD_CHANGED"
)

// Result is the uniform outcome of every identity store operation.
type Result struct {
	OK   bool   `json:"ok"`
	Code string `json:"code"`
	// Error carries a single reason token or the policy feedback list.
	Error []string `json:"error,omitempty"`
	// Data carries operation-specific payload on success paths.
	Data *Payload `json:"data,omitempty"`
}

// Payload carries the success data of an operation.
type Payload struct {
	ID         string           `json:"id,omitempty"`
	Username   string           `json:"username,omitempty"`
	Role       *models.RoleInfo `json:"role,omitempty"`
	ForceReset *bool            `json:"force_reset,omitempty"`
}

func failure(code string, reasons ...string) Result {
	if len(reasons) == 0 {
		reasons = []string{code}
	}

	return Result{OK: false, Code: code, Error: reasons}
}

func success(code string, data *Payload) Result {
	return Result{OK: true, Code: code, Data: data}
}
