package libby

import "testing"

func TestEncodeTagName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		// Emoji travels as surrogate pairs.
		{"bell emoji", "\U0001F514", "JXVEODNEJXVERDE0"},
		// base64("%u61%u62")
		{"ascii", "ab", "JXU2MSV1NjI="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := encodeTagName(tc.in); got != tc.want {
				t.Fatalf("encodeTagName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
