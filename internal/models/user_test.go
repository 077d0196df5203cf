package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw      string
		expected Role
	}{
		{"individual", RoleIndividual},
		{"consumer", RoleIndividual},
		{"", RoleIndividual},
		{"merchant", RoleMerchant},
		{"admin", RoleAdmin},
		{"foo", RoleIndividual},
		{"Merchant", RoleIndividual},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeRole(tt.raw), "raw %q", tt.raw)
	}
}
