package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/authapi/auth/password"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{serviceName}, args...))
	return out.String(), err
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := runApp(t, "hunter22\n", "hash-password", "--cost", "4")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out)
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := password.NewBcryptHasher().Verify("hunter22", hash); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestHashPasswordCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "empty stdin", stdin: "", args: []string{"hash-password", "--cost", "4"}},
		{name: "blank line", stdin: "\n", args: []string{"hash-password", "--cost", "4"}},
		{name: "cost too low", stdin: "pw\n", args: []string{"hash-password", "--cost", "2"}},
		{name: "unknown algorithm", stdin: "pw\n", args: []string{"hash-password", "--algorithm", "md5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.stdin, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestGenSecretCommand(t *testing.T) {
	out, err := runApp(t, "", "gen-secret", "--bytes", "16")
	if err != nil {
		t.Fatalf("gen-secret: %v", err)
	}
	secret := strings.TrimSpace(out)
	raw, err := hex.DecodeString(secret)
	if err != nil || len(raw) != 16 {
		t.Fatalf("secret %q is not 16 hex-encoded bytes", secret)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "authapi ") {
		t.Errorf("version output = %q", out)
	}
}

func TestUsersListCommand(t *testing.T) {
	dataDir := t.TempDir()
	doc := `{"users":[
		{"id":1,"email":"ada@example.com","passwordHash":"x","createdAt":"2026-05-06T07:08:09.123Z"},
		{"id":2,"email":"alan@example.com","passwordHash":"y","createdAt":"2026-05-07T10:00:00.000Z"}
	]}`
	if err := os.WriteFile(filepath.Join(dataDir, "db.json"), []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "name: authapi\nstorage:\n  provider: local\n  base_path: "+dataDir+"\n")
	t.Setenv("JWT_SECRET", "test-secret")

	out, err := runApp(t, "", "--config", path, "--env-file", filepath.Join(dataDir, "none.env"), "users", "list")
	if err != nil {
		t.Fatalf("users list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header = %q", lines[0])
	}
	if fields := strings.Fields(lines[1]); len(fields) != 3 || fields[1] != "ada@example.com" || fields[2] != "2026-05-06T07:08:09.123Z" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); len(fields) != 3 || fields[0] != "2" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestUsersListMissingSecret(t *testing.T) {
	path := writeConfig(t, "name: authapi\nstorage:\n  provider: memory\n")
	t.Setenv("JWT_SECRET", "")

	if _, err := runApp(t, "", "--config", path, "users", "list"); err == nil {
		t.Fatal("expected a config validation error")
	}
}
