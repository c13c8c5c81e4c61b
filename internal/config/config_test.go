package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
	}
	if cfg.UpdateMethod != "PUT" {
		t.Fatalf("UpdateMethod = %q, want PUT", cfg.UpdateMethod)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.Contacts.Remote() || cfg.Products.Remote() {
		t.Fatalf("contacts/products remote by default: %#v %#v", cfg.Contacts, cfg.Products)
	}
	if cfg.Shopping.Name != "compras" {
		t.Fatalf("Shopping.Name = %q, want compras", cfg.Shopping.Name)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
base_url = "  http://10.0.0.5:9999  "
update_method = " patch "
request_timeout = "10s"
log_file = "  ~/logs/lk.log  "

[products]
collection = " /products/ "

[shopping]
collection = "items"
list_key = " data "
page = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://10.0.0.5:9999" {
		t.Fatalf("BaseURL = %q, want http://10.0.0.5:9999", cfg.BaseURL)
	}
	if cfg.UpdateMethod != "PATCH" {
		t.Fatalf("UpdateMethod = %q, want PATCH", cfg.UpdateMethod)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.LogFile != filepath.Join(home, "logs/lk.log") {
		t.Fatalf("LogFile = %q, want it expanded under HOME", cfg.LogFile)
	}
	if cfg.Products != (Collection{Name: "products"}) {
		t.Fatalf("Products = %#v, want remote products", cfg.Products)
	}
	if cfg.Shopping != (Collection{Name: "items", ListKey: "data", Page: 2}) {
		t.Fatalf("Shopping = %#v, want items/data/2", cfg.Shopping)
	}
	if cfg.Contacts.Remote() {
		t.Fatalf("Contacts = %#v, want in memory", cfg.Contacts)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
base_url = "   "
update_method = ""
request_timeout = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL || cfg.UpdateMethod != "PUT" {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
	if cfg.Shopping.Name != defaultShopping {
		t.Fatalf("Shopping.Name = %q, want %q", cfg.Shopping.Name, defaultShopping)
	}
}

func TestLoad_BlankCollectionAndLogFileDisable(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
log_file = ""

[shopping]
collection = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Shopping.Remote() {
		t.Fatalf("Shopping = %#v, want in memory", cfg.Shopping)
	}
	if cfg.LogFile != "" {
		t.Fatalf("LogFile = %q, want empty", cfg.LogFile)
	}
}

func TestLoad_Rejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid toml", `base_url = [`, "parse config"},
		{"update method", `update_method = "POST"`, "update_method"},
		{"timeout", `request_timeout = "soon"`, "request_timeout"},
		{"negative timeout", `request_timeout = "-1s"`, "request_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want %s error", tc.want)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %s", err.Error(), tc.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
