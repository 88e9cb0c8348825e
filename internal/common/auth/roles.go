package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"legal-workers/internal/common/errors"
)

const (
	RoleCitizen = "citizen"
	RolePolice  = "police"
	RoleAdmin   = "admin"
)

// CanViewAllFIRs reports whether role may read and update any FIR.
func CanViewAllFIRs(role string) bool {
	return role == RolePolice || role == RoleAdmin
}

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// RequireOfficer returns ACCESS_DENIED unless role is police or admin.
func RequireOfficer(userID, role string) error {
	if !CanViewAllFIRs(role) {
		return errors.NewAccessDeniedError(userID, "police or admin")
	}
	return nil
}

func RequireAdmin(userID, role string) error {
	if !IsAdmin(role) {
		return errors.NewAccessDeniedError(userID, RoleAdmin)
	}
	return nil
}

// RoleLookup resolves a user's role from the system of record.
type RoleLookup interface {
	GetUserRole(ctx context.Context, userID string) (string, error)
}

// RoleCache memoizes RoleLookup results in process.
type RoleCache struct {
	lookup RoleLookup
	cache  *cache.Cache
}

func NewRoleCache(lookup RoleLookup, ttl time.Duration) *RoleCache {
	return &RoleCache{
		lookup: lookup,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (c *RoleCache) Role(ctx context.Context, userID string) (string, error) {
	if v, ok := c.cache.Get(userID); ok {
		return v.(string), nil
	}
	role, err := c.lookup.GetUserRole(ctx, userID)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(userID, role)
	return role, nil
}

// Invalidate drops a cached role, e.g. after an admin changes it.
func (c *RoleCache) Invalidate(userID string) {
	c.cache.Delete(userID)
}
