package policy

import (
	"testing"

	"ngplus/api/internal/models"
)

func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		ownerID string
		want    bool
	}{
		{
			name:    "owner modifies own resource",
			actor:   Actor{ID: "u-1", AccountType: models.AccountTypeUser},
			ownerID: "u-1",
			want:    true,
		},
		{
			name:    "non-owner denied",
			actor:   Actor{ID: "u-1", AccountType: models.AccountTypeUser},
			ownerID: "u-2",
			want:    false,
		},
		{
			name:    "admin modifies anything",
			actor:   Actor{ID: "admin-1", AccountType: models.AccountTypeAdmin},
			ownerID: "u-2",
			want:    true,
		},
		{
			name:    "empty actor denied",
			actor:   Actor{},
			ownerID: "u-1",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.actor, tt.ownerID); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	if (Actor{AccountType: models.AccountTypeUser}).IsAdmin() {
		t.Error("user reported as admin")
	}
	if !(Actor{AccountType: models.AccountTypeAdmin}).IsAdmin() {
		t.Error("admin not reported as admin")
	}
}
