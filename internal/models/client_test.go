package models

import "testing"

func TestHasPermission(t *testing.T) {
	client := &ApiClient{
		Name:        "test",
		IsActive:    true,
		Permissions: []string{"mods:read", "maps:*"},
	}

	tests := []struct {
		permission string
		want       bool
	}{
		{"mods:read", true},
		{"mods:write", false},
		{"maps:read", true},
		{"maps:write", true},
		{"publishers:read", false},
	}

	for _, tt := range tests {
		if got := client.HasPermission(tt.permission); got != tt.want {
			t.Errorf("HasPermission(%q) = %v, want %v", tt.permission, got, tt.want)
		}
	}
}

func TestHasPermissionGlobalWildcard(t *testing.T) {
	admin := &ApiClient{Name: "admin", IsActive: true, Permissions: []string{"*"}}
	if !admin.HasPermission("anything:at-all") {
		t.Error("global wildcard should grant everything")
	}
}

func TestHasPermissionInactiveClient(t *testing.T) {
	client := &ApiClient{Name: "dead", IsActive: false, Permissions: []string{"*"}}
	if client.HasPermission("mods:read") {
		t.Error("inactive clients have no permissions")
	}

	var nilClient *ApiClient
	if nilClient.HasPermission("mods:read") {
		t.Error("nil client has no permissions")
	}
}

func TestMaskedApiKey(t *testing.T) {
	client := &ApiClient{ApiKey: "mk_abcdef1234567890"}
	if got := client.MaskedApiKey(); got != "mk_abcde..." {
		t.Errorf("unexpected masked key %q", got)
	}

	short := &ApiClient{ApiKey: "short"}
	if got := short.MaskedApiKey(); got != "***" {
		t.Errorf("short keys must be fully masked, got %q", got)
	}
}
