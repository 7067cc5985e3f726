package term

import "fmt"

// keyMap maps named keys to the raw escape sequences the host emulator
// understands. Names follow the rotina script syntax (<enter>, <f3>, ...).
var keyMap = map[string]string{
	"enter":     "\r",
	"tab":       "\t",
	"backtab":   "\x1b[Z",
	"space":     " ",
	"escape":    "\x1b",
	"backspace": "\x7f",
	"delete":    "\x1b[3~",
	"insert":    "\x1b[2~",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"page_up":   "\x1b[5~",
	"page_down": "\x1b[6~",
	"f1":        "\x1bOP",
	"f2":        "\x1bOQ",
	"f3":        "\x1bOR",
	"f4":        "\x1bOS",
	"f5":        "\x1b[15~",
	"f6":        "\x1b[17~",
	"f7":        "\x1b[18~",
	"f8":        "\x1b[19~",
	"f9":        "\x1b[20~",
	"f10":       "\x1b[21~",
	"f11":       "\x1b[23~",
	"f12":       "\x1b[24~",
}

// KeySequence returns the escape sequence for a named key
func KeySequence(name string) (string, bool) {
	// ctrl+a .. ctrl+z map to control bytes
	if len(name) == 6 && name[:5] == "ctrl+" {
		c := name[5]
		if c >= 'a' && c <= 'z' {
			return string(rune(c-'a'+1)), true
		}
	}

	seq, ok := keyMap[name]
	return seq, ok
}

// KeyNames returns every supported key name (unordered)
func KeyNames() []string {
	names := make([]string, 0, len(keyMap))
	for name := range keyMap {
		names = append(names, name)
	}
	return names
}

// MouseClickSequence returns the X10 mouse escape-sequence pair (press and
// release) for a left click at the given 1-based position.
func MouseClickSequence(row, col int) string {
	press := fmt.Sprintf("\x1b[M%c%c%c", rune(32), rune(32+col), rune(32+row))
	release := fmt.Sprintf("\x1b[M%c%c%c", rune(32+3), rune(32+col), rune(32+row))
	return press + release
}
