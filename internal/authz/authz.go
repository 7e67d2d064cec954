// Package authz resolves group membership to effective permissions.
//
// A user's effective permission set is the union of the permission sets of
// all groups the user belongs to. The tables are fixed at construction, so
// a Resolver is safe for concurrent use without synchronization.
package authz

import "sort"

// Resolver answers permission questions from static group tables.
type Resolver struct {
	userGroups       map[string][]string
	groupPermissions map[string][]string
}

// NewResolver creates a Resolver from explicit tables.
func NewResolver(userGroups, groupPermissions map[string][]string) *Resolver {
	return &Resolver{
		userGroups:       userGroups,
		groupPermissions: groupPermissions,
	}
}

// Default creates a Resolver over the built-in faculty tables.
func Default() *Resolver {
	return NewResolver(defaultUserGroups(), defaultGroupPermissions())
}

// Can reports whether the user holds every given permission.
// Users without any group membership hold no permissions.
func (r *Resolver) Can(username string, permissions ...string) bool {
	held := r.permissionSet(username)

	for _, perm := range permissions {
		if !held[perm] {
			return false
		}
	}

	return true
}

// UserGroups returns the groups a user belongs to.
func (r *Resolver) UserGroups(username string) []string {
	return r.userGroups[username]
}

// UserPermissions returns the user's effective permission set, sorted.
func (r *Resolver) UserPermissions(username string) []string {
	held := r.permissionSet(username)

	result := make([]string, 0, len(held))
	for perm := range held {
		result = append(result, perm)
	}

	sort.Strings(result)

	return result
}

func (r *Resolver) permissionSet(username string) map[string]bool {
	held := make(map[string]bool)

	for _, group := range r.userGroups[username] {
		for _, perm := range r.groupPermissions[group] {
			held[perm] = true
		}
	}

	return held
}
