package session

import "testing"

func TestParseKey(t *testing.T) {
	cases := []struct {
		token string
		want  Key
	}{
		{"a", Printable('a')},
		{"Z", Printable('Z')},
		{"é", Printable('é')},
		{";", Printable(';')},
		{"Backspace", Backspace},
		{" ", Space},
		{"", Key{}},
		{"Shift", Key{}},
		{"Enter", Key{}},
		{"\t", Key{}},
		{"\n", Key{}},
		{"\x1b", Key{}},
		{"ab", Key{}},
		{"\xff", Key{}},
	}
	for _, tc := range cases {
		if got := ParseKey(tc.token); got != tc.want {
			t.Fatalf("ParseKey(%q): expected %+v, got %+v", tc.token, tc.want, got)
		}
	}
}
