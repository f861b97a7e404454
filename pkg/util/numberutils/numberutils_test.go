package numberutils

import "testing"

func TestIsDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"12345", true},
		{"", false},
		{"-1", false},
		{"1.5", false},
		{"١٢", false},
		{"12a", false},
	}
	for _, tt := range tests {
		if got := IsDigits(tt.in); got != tt.want {
			t.Errorf("IsDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToPositiveInt64(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"9223372036854775807", 9223372036854775807, false},
		{"9223372036854775808", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"+3", 0, true},
		{"abc", 0, true},
		{" 1", 0, true},
	}
	for _, tt := range tests {
		got, err := ToPositiveInt64(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ToPositiveInt64(%q) = %d, %v", tt.in, got, err)
		}
	}
}
