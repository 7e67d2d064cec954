// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "AUTHVAULT_CONFIG_JSON"

var validate = validator.New() //nolint:gochecknoglobals

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return applyDefaults(c), Validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge config override from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// applyDefaults fills settings a minimal config file may omit.
func applyDefaults(c Config) Config {
	if c.Storage.DSN == "" {
		c.Storage.DSN = ":memory:"
	}

	if c.Policy.MinLength == 0 {
		c.Policy.MinLength = 10
	}

	if c.Policy.TempPasswordLength == 0 {
		c.Policy.TempPasswordLength = 12
	}

	return c
}

// Validate minimal config settings for authvault.
func Validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.Storage.Dir == "" {
		return errors.Wrap(ErrStorageDirEmpty, invalidErrMessage)
	}

	if c.Policy.TempPasswordLength > 0 && c.Policy.TempPasswordLength < c.Policy.MinLength {
		return errors.Wrap(ErrTempPasswordTooShort, invalidErrMessage)
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
