package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_SPREADSHEET_ID") {
		t.Errorf("New() error = %v, want missing spreadsheet id", err)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	t.Run("inline json wins", func(t *testing.T) {
		got, err := loadCredentials(Config{ServiceAccountJSON: ` {"type":"service_account"} `, ServiceAccountFile: "/nope"})
		if err != nil || string(got) != `{"type":"service_account"}` {
			t.Errorf("loadCredentials() = %q, %v", got, err)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sa.json")
		if err := os.WriteFile(path, []byte(`{"k":1}`), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := loadCredentials(Config{ServiceAccountFile: path})
		if err != nil || string(got) != `{"k":1}` {
			t.Errorf("loadCredentials() = %q, %v", got, err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadCredentials(Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
			t.Error("loadCredentials() should fail for a missing file")
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := loadCredentials(Config{})
		if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
			t.Errorf("loadCredentials() error = %v", err)
		}
	})
}

func TestRanges(t *testing.T) {
	if got := entriesRange("Payments"); got != "Payments!A:F" {
		t.Errorf("entriesRange() = %q", got)
	}
	if got := summaryRange("Payments"); got != "Payments!H1:I3" {
		t.Errorf("summaryRange() = %q", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	c := &Client{}
	if err := c.MirrorEntries(context.Background(), nil); err == nil {
		t.Error("MirrorEntries() should fail without a service")
	}
}
