package zabbix

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
profiles:
  production:
    url: https://zabbix.example.com
    timeout: 30s
  lab:
    url: http://10.0.0.5
    insecure_skip_verify: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}

	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	prod := profiles["production"]
	if prod.URL != "https://zabbix.example.com" || prod.Timeout != 30*time.Second {
		t.Fatalf("unexpected production profile %+v", prod)
	}
	if !profiles["lab"].InsecureSkipVerify {
		t.Fatalf("expected lab profile to skip verification")
	}

	names := profiles.Names()
	if len(names) != 2 || names[0] != "lab" || names[1] != "production" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestLoadProfilesEmptyPath(t *testing.T) {
	profiles, err := LoadProfiles("")
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected empty profile set")
	}
}

func TestLoadProfilesDefaultFromEnv(t *testing.T) {
	t.Setenv("ZABBIX_DEFAULT_URL", "https://zabbix-default.example.com")

	profiles, err := LoadProfiles("")
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if profiles["default"].URL != "https://zabbix-default.example.com" {
		t.Fatalf("expected env-seeded default profile, got %+v", profiles)
	}

	// A default defined in the file wins over the env seed.
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := "profiles:\n  default:\n    url: https://zabbix-file.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	profiles, err = LoadProfiles(path)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if profiles["default"].URL != "https://zabbix-file.example.com" {
		t.Fatalf("expected file profile to win, got %+v", profiles)
	}
}

func TestLoadProfilesMissingURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  broken: {}\n"), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Fatalf("expected error for profile without url")
	}
}
