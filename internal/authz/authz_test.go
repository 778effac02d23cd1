package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePolicies(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	assert.True(t, e.Allowed("admin", "/billing/ipd/generate", "POST"))
	assert.True(t, e.Allowed("admin", "/billing/123", "DELETE"))
	assert.True(t, e.Allowed("admin", "/billing/123/payment", "POST"))

	assert.True(t, e.Allowed("cashier", "/billing/bills", "GET"))
	assert.True(t, e.Allowed("cashier", "/billing/123", "GET"))
	assert.True(t, e.Allowed("cashier", "/billing/123/payment", "POST"))

	assert.False(t, e.Allowed("cashier", "/billing/ipd/generate", "POST"))
	assert.False(t, e.Allowed("cashier", "/billing/123", "DELETE"))
	assert.False(t, e.Allowed("cashier", "/billing/123", "PATCH"))

	assert.False(t, e.Allowed("intern", "/billing/bills", "GET"))
	assert.False(t, e.Allowed("", "/billing/bills", "GET"))
}
