package config

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"111", []string{"111"}},
		{"111,222", []string{"111", "222"}},
		{" 111 , 222 ,", []string{"111", "222"}},
		{",,", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port == "" {
		t.Fatal("port default missing")
	}
	if cfg.ArchiveEnabled() {
		t.Fatal("archive should be disabled without DATABASE_URL")
	}
	if cfg.NotifyAPIBase == "" {
		t.Fatal("notify API base default missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/archive")
	t.Setenv("NOTIFY_CHAT_IDS", "111, 222")
	t.Setenv("ARCHIVE_KEEP_DAYS", "30")

	cfg := Load()
	if !cfg.ArchiveEnabled() {
		t.Fatal("archive should be enabled")
	}
	if !reflect.DeepEqual(cfg.NotifyChatIDs, []string{"111", "222"}) {
		t.Fatalf("chat ids = %v", cfg.NotifyChatIDs)
	}
	if cfg.ArchiveKeepDays != 30 {
		t.Fatalf("keep days = %d", cfg.ArchiveKeepDays)
	}
}
