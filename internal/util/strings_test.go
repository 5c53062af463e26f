package util

import "testing"

func TestSafeTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "string shorter than maxLen",
			input:  "short",
			maxLen: 10,
			want:   "short",
		},
		{
			name:   "string equal to maxLen",
			input:  "exactly10c",
			maxLen: 10,
			want:   "exactly10c",
		},
		{
			name:   "string longer than maxLen",
			input:  "this-is-a-very-long-token-string",
			maxLen: 8,
			want:   "this-is-",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 5,
			want:   "",
		},
		{
			name:   "maxLen is zero",
			input:  "test",
			maxLen: 0,
			want:   "",
		},
		{
			name:   "maxLen is negative (edge case)",
			input:  "test",
			maxLen: -1,
			want:   "",
		},
		{
			name:   "unicode characters",
			input:  "hello世界test",
			maxLen: 8,
			want:   "hello世",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeTruncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("SafeTruncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSafeTruncate_NoPanic(t *testing.T) {
	// Ensure SafeTruncate never panics, even with edge cases
	testCases := []struct {
		input  string
		maxLen int
	}{
		{"", 0},
		{"", -1},
		{"test", 0},
		{"test", -1},
		{"test", 100},
	}

	for _, tc := range testCases {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("SafeTruncate(%q, %d) panicked: %v", tc.input, tc.maxLen, r)
				}
			}()
			_ = SafeTruncate(tc.input, tc.maxLen)
		}()
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "Google", "GOOGLE"},
		{"already upper", "GITHUB", "GITHUB"},
		{"dash and dot", "azure-ad.v2", "AZURE_AD_V2"},
		{"surrounding and repeated spaces", "  My  App ", "MY_APP"},
		{"digits kept", "provider2", "PROVIDER2"},
		{"only separators", "--..", ""},
		{"empty", "", ""},
		{"non-ascii letters dropped", "Zoë", "ZO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnvKey(tt.input)
			if got != tt.want {
				t.Errorf("EnvKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil input", nil, nil},
		{"all blank", []string{"", "  "}, nil},
		{"trims entries", []string{" email ", "profile"}, []string{"email", "profile"}},
		{"drops blanks between entries", []string{"a", "", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("TrimList(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if tt.want == nil && got != nil {
				t.Errorf("TrimList(%q) = %#v, want nil", tt.input, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TrimList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
