package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownCategory(t *testing.T) {
	assert.True(t, KnownCategory(CategoryRoger))
	assert.True(t, KnownCategory(CategoryReachify))
	assert.True(t, KnownCategory(CategoryPrusa))

	assert.False(t, KnownCategory(CategoryAll))
	assert.False(t, KnownCategory(""))
	assert.False(t, KnownCategory("mystery"))
}

func TestCanAccess(t *testing.T) {
	admin := &User{Email: AdminEmail}
	assert.True(t, admin.CanAccess(CategoryPrusa))
	assert.True(t, admin.CanAccess(CategoryAll))

	viewer := &User{Email: "viewer@example.com", AllowedCampaigns: []string{"roger"}}
	assert.True(t, viewer.CanAccess(CategoryRoger))
	assert.False(t, viewer.CanAccess(CategoryPrusa))
	// Requesting every category needs the unified grant.
	assert.False(t, viewer.CanAccess(CategoryAll))
	assert.False(t, viewer.CanAccess(""))
	assert.False(t, viewer.CanAccess("mystery"))

	unified := &User{Email: "unified@example.com", AllowedCampaigns: []string{"unified"}}
	assert.True(t, unified.CanAccess(CategoryAll))
	assert.True(t, unified.CanAccess(""))
	assert.True(t, unified.CanAccess(CategoryReachify))
}
