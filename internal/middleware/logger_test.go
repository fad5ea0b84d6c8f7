package middleware

import (
	"bytes"
	"testing"
)

func TestFilteredWriter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"fast success discarded", "15:04:05 | 200 | 1.23ms | GET /status\n", false},
		{"error written", "15:04:05 | 500 | 1.23ms | POST /clear-conversations\n", true},
		{"client error written", "15:04:05 | 403 | 0.50ms | POST /admin/ws-token\n", true},
		{"slow success written", "15:04:05 | 200 | 750ms | GET /ws\n", true},
		{"unparseable written", "something unexpected\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := &filteredWriter{dest: &buf, slowThresholdMs: 500, errorStatusFloor: 400}
			if _, err := w.Write([]byte(tt.line)); err != nil {
				t.Fatalf("write: %v", err)
			}
			if got := buf.Len() > 0; got != tt.want {
				t.Fatalf("written=%v, want %v for %q", got, tt.want, tt.line)
			}
		})
	}
}
