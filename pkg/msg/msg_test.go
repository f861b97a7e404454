package msg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"todo-api/configs"
)

func TestGetMessageFromBundledCatalogue(t *testing.T) {
	got := GetMessage("todo.error.not-found", int64(42))
	if got != "Todo 42 not found" {
		t.Errorf("got %q", got)
	}
}

func TestGetMessagePlaceholders(t *testing.T) {
	if err := Load([]byte("greeting:\n  text: \"{0} has {1} todos, took {2}, tags {3}\"\n")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer restoreBundled(t)

	got := GetMessage("greeting.text", "ana", 3, 1500*time.Millisecond, []string{"a", "b"})
	want := `ana has 3 todos, took 1.5s, tags ["a","b"]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGetMessageMissingKey(t *testing.T) {
	if got := GetMessage("does.not.exist"); got != "Message not found: does.not.exist" {
		t.Errorf("got %q", got)
	}
}

func TestInitFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yml")
	if err := os.WriteFile(path, []byte("todo:\n  hello: \"hi {0}\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer restoreBundled(t)

	if got := GetMessage("todo.hello", true); got != "hi true" {
		t.Errorf("got %q", got)
	}
}

func TestInitMissingFile(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "nope.yml")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func restoreBundled(t *testing.T) {
	t.Helper()
	if err := Load(configs.MessagesYAML); err != nil {
		t.Fatalf("restore: %v", err)
	}
}
