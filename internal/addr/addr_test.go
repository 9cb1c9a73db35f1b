package addr

import "testing"

func TestMatchesShape(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"wrapped sol mint", "So11111111111111111111111111111111111111112", true},
		{"token program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", true},
		{"too short", "abc", false},
		{"contains zero", "0o11111111111111111111111111111111111111112", false},
		{"contains uppercase o", "SO11111111111111111111111111111111111111112", false},
		{"contains l", "able1111111111111111111111111111111111111112", false},
		{"empty", "", false},
		{"trailing punctuation", "So11111111111111111111111111111111111111112.", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesShape(tc.in); got != tc.want {
				t.Errorf("MatchesShape(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if !Valid("So11111111111111111111111111111111111111112") {
		t.Error("wrapped SOL mint must be valid")
	}
	if !Valid("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA") {
		t.Error("token program id must be valid")
	}
	if Valid("notbase58!!") {
		t.Error("non-base58 input must be invalid")
	}
	// Shape-passing but wrong decoded length.
	if Valid("11111111111111111111111111111111111111111111") {
		t.Error("44 ones decode to 44 zero bytes, not a 32-byte key")
	}
}
