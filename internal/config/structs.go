package config

import (
	"github.com/authvault/authvault/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode bool // enable dev mode for development
	Title   string
	Log     logger.Log
	Storage Storage
	Hash    Hash
	Policy  Policy
}

// Storage implements durable storage settings.
type Storage struct {
	// Dir is the data directory holding the audit partitions and the
	// temporary password export.
	Dir string `toml:"dir" validate:"required"`
	// DSN for the embedded user database. Defaults to an in-memory database.
	DSN string `toml:"dsn"`
}

// Hash implements the credential hashing work factors.
type Hash struct {
	Memory      uint32 `toml:"memory"` // KiB
	Iterations  uint32 `toml:"iterations"`
	Parallelism uint8  `toml:"parallelism"`
	SaltLength  uint32 `toml:"saltLength"`
	KeyLength   uint32 `toml:"keyLength"`
}

// Policy implements the password policy settings.
type Policy struct {
	MinLength     int  `toml:"minLength" validate:"omitempty,gte=0"`
	RequireUpper  bool `toml:"requireUpper"`
	RequireLower  bool `toml:"requireLower"`
	RequireDigit  bool `toml:"requireDigit"`
	RequireSymbol bool `toml:"requireSymbol"`

	// TempPasswordLength is used when generating roster passwords.
	TempPasswordLength int `toml:"tempPasswordLength" validate:"omitempty,gte=0"`
}
