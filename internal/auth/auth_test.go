package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		allowed []string
		wantErr error
	}{
		{name: "anonymous", p: nil, allowed: []string{RoleAdmin}, wantErr: ErrUnauthenticated},
		{name: "admin allowed", p: &Principal{ID: 1, Role: RoleAdmin}, allowed: []string{RoleAdmin}},
		{name: "mod on admin-only", p: &Principal{ID: 2, Role: RoleMod}, allowed: []string{RoleAdmin}, wantErr: ErrForbidden},
		{name: "mod on edit", p: &Principal{ID: 2, Role: RoleMod}, allowed: []string{RoleAdmin, RoleMod}},
		{name: "user on review", p: &Principal{ID: 3, Role: RoleUser}, allowed: []string{RoleAdmin, RoleMod, RoleUser}},
		{name: "unknown role", p: &Principal{ID: 4, Role: "guest"}, allowed: []string{RoleAdmin, RoleMod, RoleUser}, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.p, tt.allowed...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	p := &Principal{ID: 7, Role: RoleUser}
	assert.Equal(t, p, FromContext(WithPrincipal(ctx, p)))
}
