package config

import "errors"

var (
	// ErrStorageDirEmpty is returned when no data directory was configured.
	ErrStorageDirEmpty = errors.New("config Storage.Dir can not be empty")

	// ErrTempPasswordTooShort is returned when the configured generated password
	// length can not satisfy the policy itself.
	ErrTempPasswordTooShort = errors.New("config Policy.TempPasswordLength is below Policy.MinLength")
)
