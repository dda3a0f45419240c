package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashukla/ridepool/internal/models"
)

func TestNewPolicy_RejectsAmbiguousRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rules   []Rule
		wantErr bool
	}{
		{
			name: "duplicate pattern",
			rules: []Rule{
				{Pattern: "/api/v1/rides", Roles: []models.Role{models.RoleDriver}},
				{Pattern: "/api/v1/rides", Roles: []models.Role{models.RolePassenger}},
			},
			wantErr: true,
		},
		{
			name: "equal specificity overlap",
			rules: []Rule{
				{Pattern: "/api/v1/:a/list"},
				{Pattern: "/api/v1/rides/:b"},
			},
			wantErr: true,
		},
		{
			name: "same pattern different methods",
			rules: []Rule{
				{Method: http.MethodGet, Pattern: "/api/v1/rides", Roles: []models.Role{models.RolePassenger}},
				{Method: http.MethodPost, Pattern: "/api/v1/rides", Roles: []models.Role{models.RoleDriver}},
			},
			wantErr: false,
		},
		{
			name: "different specificity is fine",
			rules: []Rule{
				{Pattern: "/api/v1/rides"},
				{Pattern: "/api/v1/rides/:id"},
			},
			wantErr: false,
		},
		{
			name: "unknown role",
			rules: []Rule{
				{Pattern: "/api/v1/rides", Roles: []models.Role{models.Role("WIZARD")}},
			},
			wantErr: true,
		},
		{
			name: "bad pattern",
			rules: []Rule{
				{Pattern: "no-leading-slash"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewPolicy(tt.rules)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPolicy_MostSpecificWins(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy([]Rule{
		{Pattern: "/api/v1/rides/:id", Roles: []models.Role{models.RolePassenger}},
		{Pattern: "/api/v1/rides/mine", Roles: []models.Role{models.RoleDriver}},
	})
	require.NoError(t, err)

	rule := p.match(http.MethodGet, "/api/v1/rides/mine")
	require.NotNil(t, rule)
	assert.Equal(t, "/api/v1/rides/mine", rule.Pattern)

	rule = p.match(http.MethodGet, "/api/v1/rides/7")
	require.NotNil(t, rule)
	assert.Equal(t, "/api/v1/rides/:id", rule.Pattern)

	assert.Nil(t, p.match(http.MethodGet, "/api/v1/bookings"))
}

func TestPolicy_WildcardTail(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy([]Rule{
		{Pattern: "/health/*", Public: true},
		{Pattern: "/api/v1/admin/*", Roles: []models.Role{models.RoleAdmin}},
	})
	require.NoError(t, err)

	rule := p.match(http.MethodGet, "/health/live")
	require.NotNil(t, rule)
	assert.True(t, rule.Public)

	rule = p.match(http.MethodDelete, "/api/v1/admin/users/3")
	require.NotNil(t, rule)
	assert.Equal(t, []models.Role{models.RoleAdmin}, rule.Roles)
}
