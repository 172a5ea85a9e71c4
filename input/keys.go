// Package input translates terminal key events into the guest's integer
// event encoding.
//
// The translation is a pure, total function pair: the same key always yields
// the same guest code, and the same event kind always yields the same guest
// kind. Keys or kinds without a guest equivalent translate to ok=false and
// are dropped by the caller, never forwarded.
package input

// Kind is the terminal-side key event kind.
type Kind int

const (
	Press Kind = iota
	Release
	Repeat
)

// Code identifies a named terminal key; CodeRune carries the typed rune and
// CodeFunction carries the F-key number.
type Code int

const (
	CodeRune Code = iota
	CodeEnter
	CodeBackspace
	CodeLeft
	CodeRight
	CodeUp
	CodeDown
	CodeTab
	CodeEscape
	CodeFunction
)

// Key is one terminal key, independent of any terminal backend.
type Key struct {
	Code Code
	Rune rune
	F    int
}

// Guest key codes from the guest's input ABI.
const (
	GuestKeyEnter     int32 = 13
	GuestKeyBackspace int32 = 127
	GuestKeySpace     int32 = 32
	GuestKeyLeft      int32 = 0xac
	GuestKeyUp        int32 = 0xad
	GuestKeyRight     int32 = 0xae
	GuestKeyDown      int32 = 0xaf
	GuestKeyTab       int32 = 9
	GuestKeyEscape    int32 = 27
	GuestKeyCtrl      int32 = 0x80 + 0x1d
	GuestKeyAlt       int32 = 0x80 + 0x38
	GuestKeyShift     int32 = 16

	guestFunctionKeyBase int32 = 187
)

// Guest event kinds.
const (
	guestEventPress   int32 = 0
	guestEventRelease int32 = 1
)

// Translator maps keys to guest codes. The rune override table implements
// the modifier-simulation policy: terminals rarely expose modifier state, so
// a few letters stand in for ctrl/alt/shift/space. The mapping is host
// policy, not guest protocol, and callers may replace it wholesale.
type Translator struct {
	overrides map[rune]int32
}

// DefaultOverrides maps z, x, c, v to ctrl, alt, shift, space: four adjacent
// keys so a hand can rest on them.
func DefaultOverrides() map[rune]int32 {
	return map[rune]int32{
		'z': GuestKeyCtrl,
		'x': GuestKeyAlt,
		'c': GuestKeyShift,
		'v': GuestKeySpace,
	}
}

// NewTranslator creates a translator with the given rune overrides; nil
// selects DefaultOverrides.
func NewTranslator(overrides map[rune]int32) *Translator {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	return &Translator{overrides: overrides}
}

// KeyCode returns the guest key code for k, or ok=false when the key has no
// guest equivalent.
func (t *Translator) KeyCode(k Key) (int32, bool) {
	switch k.Code {
	case CodeEnter:
		return GuestKeyEnter, true
	case CodeBackspace:
		return GuestKeyBackspace, true
	case CodeLeft:
		return GuestKeyLeft, true
	case CodeRight:
		return GuestKeyRight, true
	case CodeUp:
		return GuestKeyUp, true
	case CodeDown:
		return GuestKeyDown, true
	case CodeTab:
		return GuestKeyTab, true
	case CodeEscape:
		return GuestKeyEscape, true
	case CodeFunction:
		if k.F < 1 {
			return 0, false
		}
		return int32(k.F) + guestFunctionKeyBase, true
	case CodeRune:
		if code, ok := t.overrides[k.Rune]; ok {
			return code, true
		}
		return int32(k.Rune), true
	default:
		return 0, false
	}
}

// EventKind returns the guest event kind, or ok=false for kinds the guest's
// binary press/release model cannot express. Repeat is always suppressed.
func (t *Translator) EventKind(kind Kind) (int32, bool) {
	switch kind {
	case Press:
		return guestEventPress, true
	case Release:
		return guestEventRelease, true
	default:
		return 0, false
	}
}

// GuestKeyByName resolves a configuration name to a guest key code. Used by
// the keymap override loader.
func GuestKeyByName(name string) (int32, bool) {
	switch name {
	case "ctrl":
		return GuestKeyCtrl, true
	case "alt":
		return GuestKeyAlt, true
	case "shift":
		return GuestKeyShift, true
	case "space":
		return GuestKeySpace, true
	case "enter":
		return GuestKeyEnter, true
	case "escape":
		return GuestKeyEscape, true
	case "tab":
		return GuestKeyTab, true
	default:
		return 0, false
	}
}
