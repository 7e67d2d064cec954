package identity

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/authvault/authvault/internal/db/models"
)

// ExportFileName is the temporary-credential export written by Preload.
// It is the only place a plaintext credential ever reaches durable storage,
// and only for one-time-use temporary credentials: treat it as sensitive
// and ephemeral.
const ExportFileName = "faculty_temp_passwords.csv"

// RosterEntry describes one account of the initial faculty roster.
type RosterEntry struct {
	Username string
	Role     models.RoleInfo
}

// FacultyRoster returns the fixed initial faculty accounts with their roles.
// Preload assigns their passwords from the policy generator.
func FacultyRoster() []RosterEntry {
	return []RosterEntry{
		{Username: "Dr_Smith_1001", Role: models.RoleInfo{Role: models.RoleMasterAdmin, Title: "Dean"}},
		{Username: "Dr_Johnson_1002", Role: models.RoleInfo{Role: models.RoleMasterAdmin, Title: "Registrar"}},
		{Username: "Dr_Williams_1003", Role: models.RoleInfo{Role: models.RoleMasterAdmin, Title: "CIO"}},
		{Username: "Dr_Brown_1004", Role: models.RoleInfo{Role: models.RoleAdmin, Title: "Department_Head"}},
		{Username: "Dr_Jones_1005", Role: models.RoleInfo{Role: models.RoleAdmin, Title: "IT_Admin"}},
		{Username: "Prof_Davis_1006", Role: models.RoleInfo{Role: models.RoleUser, Title: "Professor"}},
		{Username: "TA_Miller_1007", Role: models.RoleInfo{Role: models.RoleUser, Title: "TA"}},
	}
}

// PreloadResult pairs a freshly created roster account with its temporary
// credential.
type PreloadResult struct {
	Username     string
	TempPassword string
	Result       Result
}

// Preload registers every roster account not already present, with a
// generated policy-compliant temporary password and the force-reset flag
// set. Already existing accounts are skipped. With export enabled the
// (username, temporary password) pairs are written once as a CSV file,
// replacing any prior export.
func (s *Store) Preload(roster []RosterEntry, export bool) ([]PreloadResult, error) {
	var results []PreloadResult

	for _, entry := range roster {
		existing, err := s.lookup(entry.Username)
		if err != nil {
			return nil, err
		}

		if existing != nil {
			continue
		}

		tempPassword := s.policy.Generate(s.tempPasswordLen)

		res, err := s.Register(entry.Username, tempPassword, entry.Role)
		if err != nil {
			return nil, err
		}

		if res.OK {
			if err := s.forceReset(entry.Username); err != nil {
				return nil, err
			}
		}

		results = append(results, PreloadResult{
			Username:     entry.Username,
			TempPassword: tempPassword,
			Result:       res,
		})
	}

	if export {
		if err := s.exportTempPasswords(results); err != nil {
			return nil, err
		}
	}

	log.Info().Int("created", len(results)).Msg("roster preload complete")

	return results, nil
}

// forceReset marks an account for a mandatory credential change.
func (s *Store) forceReset(username string) error {
	err := s.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("force_reset", true).Error
	if err != nil {
		return fmt.Errorf("failed to set force reset: %w", err)
	}

	return nil
}

func (s *Store) exportTempPasswords(results []PreloadResult) error {
	path := filepath.Join(s.exportDir, ExportFileName)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create temp password export: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)

	if err := w.Write([]string{"username", "temp_password"}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range results {
		if err := w.Write([]string{r.Username, r.TempPassword}); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}

	log.Warn().Str("path", path).Msg("temporary passwords exported, delete after distribution")

	return nil
}
