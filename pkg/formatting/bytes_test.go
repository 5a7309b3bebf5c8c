package formatting_test

import (
	"testing"

	"github.com/JaimeStill/empath/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"bytes unit", "16B", 16, false},
		{"kilobytes", "1KB", 1024, false},
		{"short unit", "64k", 64 * 1024, false},
		{"binary unit", "512KiB", 512 * 1024, false},
		{"megabytes", "1MB", 1 << 20, false},
		{"fractional", "1.5MB", 3 << 19, false},
		{"with space", "100 MB", 100 << 20, false},
		{"whitespace", "  2GB ", 2 << 30, false},
		{"terabytes", "1TB", 1 << 40, false},
		{"zero", "0", 0, false},
		{"empty", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"petabytes unsupported", "1PB", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
		{"trailing dot", "5.MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 500, 1, "500 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"lexicon size", 2560, 1, "2.5 KB"},
		{"one MB", 1 << 20, 0, "1 MB"},
		{"negative precision", 1536, -1, "2 KB"},
		{"caps at TB", 2048 << 40, 0, "2048 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{1 << 10, 1 << 20, 16 << 20, 1 << 40} {
		got, err := formatting.ParseBytes(formatting.FormatBytes(n, 0))
		if err != nil {
			t.Fatalf("ParseBytes: %v", err)
		}
		if got != n {
			t.Errorf("round trip %d: got %d", n, got)
		}
	}
}
