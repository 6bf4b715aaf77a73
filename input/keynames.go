package input

import (
	"strings"
)

// keyToName maps keys to canonical config string names
var keyToName = map[Key]string{
	KeyEscape:     "escape",
	KeyEnter:      "enter",
	KeyTab:        "tab",
	KeyBackspace:  "backspace",
	Literal(' '):  "space",
	KeyArrowUp:    "up",
	KeyArrowDown:  "down",
	KeyArrowLeft:  "left",
	KeyArrowRight: "right",
}

// nameToKey is the reverse lookup, built from keyToName plus ctrl_a..ctrl_z
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName)+26)
	for k, v := range keyToName {
		nameToKey[v] = k
	}
	for c := byte('a'); c <= 'z'; c++ {
		nameToKey["ctrl_"+string(c)] = CtrlKey(c)
	}
	// Aliases
	nameToKey["esc"] = KeyEscape
	nameToKey["return"] = KeyEnter
}

// KeyName returns the canonical config name for k
// Ctrl letters render as "ctrl_x", printable bytes as themselves
func KeyName(k Key) string {
	if name, ok := keyToName[k]; ok {
		return name
	}
	if !k.IsLiteral() {
		return ""
	}
	b := k.Byte()
	switch {
	case b >= 1 && b <= 26:
		return "ctrl_" + string(rune('a'+b-1))
	case b > 0x20 && b < 0x7f:
		return string(rune(b))
	}
	return ""
}

// KeyByName resolves a config name to a key
// Accepts canonical names, case-insensitive, and single printable characters
func KeyByName(name string) (Key, bool) {
	if len(name) == 1 && name[0] > 0x20 && name[0] < 0x7f {
		return Literal(name[0]), true
	}
	k, ok := nameToKey[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}
