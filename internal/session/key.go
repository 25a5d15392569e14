package session

import (
	"unicode"
	"unicode/utf8"
)

// KeyKind is the closed set of inputs the engine understands.
type KeyKind int

const (
	// KeyIgnored is anything the engine does not react to.
	KeyIgnored KeyKind = iota
	// KeyPrintable is a single printable, non-space character.
	KeyPrintable
	// KeyBackspace deletes within the current word.
	KeyBackspace
	// KeySpace submits the current word.
	KeySpace
)

// Key is a keystroke after it has been classified at the input boundary.
type Key struct {
	Kind KeyKind
	Char rune
}

// Convenience keys.
var (
	Backspace = Key{Kind: KeyBackspace}
	Space     = Key{Kind: KeySpace}
)

// Printable returns the key for typing r.
func Printable(r rune) Key {
	return Key{Kind: KeyPrintable, Char: r}
}

// ParseKey classifies a raw key token as delivered by a presentation layer:
// a single character, "Backspace" or " ". Everything else is ignored.
func ParseKey(token string) Key {
	switch token {
	case "Backspace":
		return Backspace
	case " ":
		return Space
	}
	if utf8.RuneCountInString(token) != 1 {
		return Key{}
	}
	r, _ := utf8.DecodeRuneInString(token)
	if r == utf8.RuneError || unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return Key{}
	}
	return Printable(r)
}
