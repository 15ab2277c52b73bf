package widget

import (
	"fmt"
	"time"
	"unicode"
)

// KeyCode is a virtual key code.
type KeyCode int

// Virtual key codes. Values follow the classic desktop virtual key table.
const (
	KeyUndefined    KeyCode = 0
	KeyBackSpace    KeyCode = 8
	KeyTab          KeyCode = 9
	KeyEnter        KeyCode = 10
	KeyShift        KeyCode = 16
	KeyControl      KeyCode = 17
	KeyAlt          KeyCode = 18
	KeyEscape       KeyCode = 27
	KeySpace        KeyCode = 32
	KeyPageUp       KeyCode = 33
	KeyPageDown     KeyCode = 34
	KeyEnd          KeyCode = 35
	KeyHome         KeyCode = 36
	KeyLeft         KeyCode = 37
	KeyUp           KeyCode = 38
	KeyRight        KeyCode = 39
	KeyDown         KeyCode = 40
	KeyComma        KeyCode = 44
	KeyMinus        KeyCode = 45
	KeyPeriod       KeyCode = 46
	KeySlash        KeyCode = 47
	Key0            KeyCode = 48
	Key9            KeyCode = 57
	KeySemicolon    KeyCode = 59
	KeyEquals       KeyCode = 61
	KeyA            KeyCode = 65
	KeyZ            KeyCode = 90
	KeyOpenBracket  KeyCode = 91
	KeyBackSlash    KeyCode = 92
	KeyCloseBracket KeyCode = 93
	KeyF1           KeyCode = 112
	KeyF12          KeyCode = 123
	KeyDelete       KeyCode = 127
)

// CharUndefined is the character carried by key events that have no
// associated character.
const CharUndefined rune = 0xFFFF

var punctuation = map[rune]KeyCode{
	'\b': KeyBackSpace,
	'\t': KeyTab,
	'\n': KeyEnter,
	0x1b: KeyEscape,
	' ':  KeySpace,
	',':  KeyComma,
	'-':  KeyMinus,
	'.':  KeyPeriod,
	'/':  KeySlash,
	';':  KeySemicolon,
	'=':  KeyEquals,
	'[':  KeyOpenBracket,
	'\\': KeyBackSlash,
	']':  KeyCloseBracket,
	0x7f: KeyDelete,
}

// KeyCodeForRune returns the virtual key that produces r on an unshifted
// keyboard layout. Characters without a key report false.
func KeyCodeForRune(r rune) (KeyCode, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Key0 + KeyCode(r-'0'), true
	case r >= 'a' && r <= 'z':
		return KeyA + KeyCode(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + KeyCode(r-'A'), true
	}

	code, ok := punctuation[r]
	return code, ok
}

// RuneForKeyCode returns the character typed by code, or CharUndefined for
// keys such as arrows and function keys.
func RuneForKeyCode(code KeyCode) rune {
	switch {
	case code >= Key0 && code <= Key9:
		return '0' + rune(code-Key0)
	case code >= KeyA && code <= KeyZ:
		return 'a' + rune(code-KeyA)
	}

	for r, c := range punctuation {
		if c == code {
			return r
		}
	}

	return CharUndefined
}

// IsPrintable reports whether r inserts text when typed.
func IsPrintable(r rune) bool {
	return r != CharUndefined && unicode.IsPrint(r)
}

// KeyEventID distinguishes the three phases of a keystroke.
type KeyEventID int

const (
	KeyPressed KeyEventID = iota + 1
	KeyTyped
	KeyReleased
)

func (id KeyEventID) String() string {
	switch id {
	case KeyPressed:
		return "pressed"
	case KeyTyped:
		return "typed"
	case KeyReleased:
		return "released"
	default:
		return fmt.Sprintf("KeyEventID(%d)", int(id))
	}
}

// KeyEvent is delivered to key listeners. Typed events carry KeyUndefined as
// their code; pressed and released events carry CharUndefined when the key
// has no character.
type KeyEvent struct {
	ID     KeyEventID
	Source Component
	Code   KeyCode
	Char   rune
	When   time.Time

	consumed bool
}

// Consume marks the event as handled so default processing is skipped.
func (e *KeyEvent) Consume() { e.consumed = true }

// IsConsumed reports whether a listener consumed the event.
func (e *KeyEvent) IsConsumed() bool { return e.consumed }

// KeyListener observes raw key events.
type KeyListener interface {
	KeyPressed(e *KeyEvent)
	KeyTyped(e *KeyEvent)
	KeyReleased(e *KeyEvent)
}

// KeyAdapter implements KeyListener with optional callbacks.
type KeyAdapter struct {
	OnPressed  func(e *KeyEvent)
	OnTyped    func(e *KeyEvent)
	OnReleased func(e *KeyEvent)
}

func (a KeyAdapter) KeyPressed(e *KeyEvent) {
	if a.OnPressed != nil {
		a.OnPressed(e)
	}
}

func (a KeyAdapter) KeyTyped(e *KeyEvent) {
	if a.OnTyped != nil {
		a.OnTyped(e)
	}
}

func (a KeyAdapter) KeyReleased(e *KeyEvent) {
	if a.OnReleased != nil {
		a.OnReleased(e)
	}
}

// KeyStroke identifies a key for input-map lookups. A typed stroke matches
// by character, others by code and phase.
type KeyStroke struct {
	Code      KeyCode
	Char      rune
	Typed     bool
	OnRelease bool
}

// KeyStrokeForChar returns the typed stroke for r.
func KeyStrokeForChar(r rune) KeyStroke {
	return KeyStroke{Char: r, Typed: true}
}

// KeyStrokeForCode returns the pressed (or released) stroke for code.
func KeyStrokeForCode(code KeyCode, onRelease bool) KeyStroke {
	return KeyStroke{Code: code, OnRelease: onRelease}
}

// KeyStrokeForEvent returns the stroke an input map would match e against.
func KeyStrokeForEvent(e *KeyEvent) KeyStroke {
	if e.ID == KeyTyped {
		return KeyStrokeForChar(e.Char)
	}

	return KeyStrokeForCode(e.Code, e.ID == KeyReleased)
}
