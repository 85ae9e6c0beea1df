package types

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"integer", "125", false},
		{"zero", "0", false},
		{"fractional", "0.01", false},
		{"padded", " 12.50 ", false},
		{"empty", "", true},
		{"bare dot", ".", true},
		{"missing integer part", ".5", true},
		{"missing fractional part", "12.", true},
		{"negative", "-1", true},
		{"letters", "12c", true},
		{"two dots", "1.2.3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAmount(tt.input)
			if tt.wantErr && err == nil {
				t.Fatalf("ParseAmount(%q): expected error", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.input, err)
			}
		})
	}
}

func TestAmountIsZero(t *testing.T) {
	tests := []struct {
		amount Amount
		want   bool
	}{
		{"", true},
		{"0", true},
		{"0.00", true},
		{"0.01", false},
		{"100", false},
	}

	for _, tt := range tests {
		if got := tt.amount.IsZero(); got != tt.want {
			t.Errorf("Amount(%q).IsZero() = %v, want %v", tt.amount, got, tt.want)
		}
	}
}
