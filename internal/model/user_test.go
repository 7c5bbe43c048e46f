package model

import "testing"

// TestRole_IsValid はサポート対象のロール値のみ有効と判定されることをテストする。
func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{Role(""), false},
		{Role("superuser"), false},
		{Role("Admin"), false}, // 大文字小文字は区別する
	}

	for _, tt := range tests {
		if got := tt.role.IsValid(); got != tt.want {
			t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

// TestPrincipal_IsAdmin は管理者判定をテストする。
func TestPrincipal_IsAdmin(t *testing.T) {
	admin := &Principal{UserID: "u-1", Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("admin principal should be admin")
	}

	user := &Principal{UserID: "u-2", Role: RoleUser}
	if user.IsAdmin() {
		t.Error("user principal should not be admin")
	}
}
