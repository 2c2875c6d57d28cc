package storage

import (
	"strings"
	"testing"
)

func TestConfigured(t *testing.T) {
	if NewMedia("us-east-1", "", "", "", "", "").Configured() {
		t.Error("empty media config reported as configured")
	}

	if !NewMedia("us-east-1", "", "ak", "sk", "bucket", "").Configured() {
		t.Error("complete media config reported as unconfigured")
	}
}

func TestStorageKey(t *testing.T) {
	key := storageKey("IMG_1234.JPG")

	if !strings.HasPrefix(key, "travel/") {
		t.Errorf("key %q missing travel/ prefix", key)
	}

	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q did not keep lowercased extension", key)
	}

	if key == storageKey("IMG_1234.JPG") {
		t.Error("two keys for the same filename collided")
	}
}

func TestPublicURL(t *testing.T) {
	m := NewMedia("us-east-1", "", "ak", "sk", "bucket", "https://cdn.juniorsworld.dev/")

	got := m.publicURL("travel/2026/08/28/abc.jpg")
	want := "https://cdn.juniorsworld.dev/travel/2026/08/28/abc.jpg"

	if got != want {
		t.Errorf("publicURL = %q, want %q", got, want)
	}

	if NewMedia("", "", "ak", "sk", "bucket", "").publicURL("k") != "" {
		t.Error("publicURL without base URL should be empty")
	}
}
