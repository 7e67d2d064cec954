// Package console implements the interactive terminal front-end.
//
// It is a thin I/O shell over the identity store: all business rules,
// auditing and permission decisions live in the core packages.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/authvault/authvault/internal/audit"
	"github.com/authvault/authvault/internal/authz"
	"github.com/authvault/authvault/internal/db/models"
	"github.com/authvault/authvault/internal/identity"
)

// Console drives the interactive menus.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	store    *identity.Store
	resolver *authz.Resolver
	audit    *audit.Log
	title    string
}

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer, store *identity.Store, resolver *authz.Resolver, auditLog *audit.Log, title string) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		store:    store,
		resolver: resolver,
		audit:    auditLog,
		title:    title,
	}
}

// Run shows the main menu until the user exits or input ends.
func (c *Console) Run() error {
	for {
		c.printf("\n=== %s ===\n", c.title)
		c.printf("1. Login\n")
		c.printf("2. Exit\n")

		choice, ok := c.prompt("Enter choice: ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			if err := c.login(); err != nil {
				return err
			}
		case "2":
			return nil
		default:
			c.printf("Invalid option.\n")
		}
	}
}

func (c *Console) login() error {
	username, ok := c.prompt("Username: ")
	if !ok {
		return nil
	}

	password, ok := c.prompt("Password: ")
	if !ok {
		return nil
	}

	res, err := c.store.Login(username, password)
	if err != nil {
		return err
	}

	if !res.OK {
		c.printf("Login failed: %s\n", strings.Join(res.Error, "; "))
		return nil
	}

	if res.Data.ForceReset != nil && *res.Data.ForceReset {
		c.printf("A password change is required before continuing.\n")

		if changed, err := c.changePassword(username); err != nil || !changed {
			return err
		}
	}

	log.Info().Str("username", username).Msg("console session started")

	return c.session(username)
}

// session presents the permission-gated action menu for a logged-in user.
func (c *Console) session(username string) error {
	for {
		c.printf("\n--- Menu (%s) ---\n", username)
		c.printf("0. Logout\n")

		idx := 1
		actions := map[string]string{}

		if c.resolver.Can(username, authz.PermCreateUser) {
			c.printf("%d. Register new user\n", idx)
			actions[fmt.Sprint(idx)] = authz.PermCreateUser
			idx++
		}

		if c.resolver.Can(username, authz.PermViewLogs) {
			c.printf("%d. View audit logs\n", idx)
			actions[fmt.Sprint(idx)] = authz.PermViewLogs
			idx++
		}

		c.printf("%d. Change password\n", idx)
		changeIdx := fmt.Sprint(idx)

		choice, ok := c.prompt("Select action: ")
		if !ok {
			return nil
		}

		switch {
		case choice == "0":
			return nil
		case choice == changeIdx:
			if _, err := c.changePassword(username); err != nil {
				return err
			}
		case actions[choice] == authz.PermCreateUser:
			if err := c.registerUser(); err != nil {
				return err
			}
		case actions[choice] == authz.PermViewLogs:
			c.viewLogs()
		default:
			c.printf("Invalid option or insufficient permissions.\n")
		}
	}
}

func (c *Console) registerUser() error {
	username, ok := c.prompt("New username: ")
	if !ok {
		return nil
	}

	password, ok := c.prompt("New password: ")
	if !ok {
		return nil
	}

	role, ok := c.prompt("Role (user/admin/master_admin): ")
	if !ok {
		return nil
	}

	res, err := c.store.Register(username, password, models.RoleInfo{Role: models.Role(role)})
	if err != nil {
		return err
	}

	if !res.OK {
		c.printf("Registration failed: %s\n", strings.Join(res.Error, "; "))
		return nil
	}

	c.printf("%s registered successfully.\n", username)

	return nil
}

func (c *Console) changePassword(username string) (bool, error) {
	oldPassword, ok := c.prompt("Current password: ")
	if !ok {
		return false, nil
	}

	newPassword, ok := c.prompt("New password: ")
	if !ok {
		return false, nil
	}

	res, err := c.store.ChangePassword(username, oldPassword, newPassword)
	if err != nil {
		return false, err
	}

	if !res.OK {
		c.printf("Password change failed: %s\n", strings.Join(res.Error, "; "))
		return false, nil
	}

	c.printf("Password changed successfully.\n")

	return true, nil
}

// viewLogs reloads the partitions first to pick up externally modified files.
func (c *Console) viewLogs() {
	c.audit.Reload()

	for _, role := range []models.Role{models.RoleMasterAdmin, models.RoleAdmin, models.RoleUser} {
		entries := c.audit.Entries(role)
		c.printf("\n[%s] %d entries\n", role, len(entries))

		for _, e := range entries {
			c.printf("  %s %s %s success=%t reason=%s\n",
				e.Timestamp, e.Username, e.Action, e.Success, strings.Join(e.Reason, "; "))
		}
	}
}

func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)

	if !c.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
