package types_test

import (
	"testing"

	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestRole_Normalize(t *testing.T) {
	tests := []struct {
		role types.Role
		want types.Role
	}{
		{types.RoleAdmin, types.RoleAdmin},
		{types.RoleDeveloper, types.RoleDeveloper},
		{types.RoleUser, types.RoleUser},
		{"", types.RoleUser},
		{"owner", types.RoleUser},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			gt.Value(t, tt.role.Normalize()).Equal(tt.want)
		})
	}
}

func TestRole_Badge(t *testing.T) {
	gt.Value(t, types.RoleAdmin.Badge()).Equal("Admin")
	gt.Value(t, types.RoleDeveloper.Badge()).Equal("Dev")
	gt.Value(t, types.RoleUser.Badge()).Equal("")
	gt.Value(t, types.Role("unknown").Badge()).Equal("")
}
