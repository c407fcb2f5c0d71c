package window

// InputState tracks which keys and mouse buttons are held and where the cursor is.
// The window feeds it from its callbacks; readers poll it once per tick.
type InputState struct {
	keys    map[uint32]bool
	buttons map[int]bool
	cursorX float64
	cursorY float64
}

// NewInputState returns an InputState with nothing pressed and the cursor at the origin.
func NewInputState() *InputState {
	return &InputState{
		keys:    make(map[uint32]bool),
		buttons: make(map[int]bool),
	}
}

// KeyEvent records a key press (down == true) or release.
func (s *InputState) KeyEvent(keyCode uint32, down bool) {
	if down {
		s.keys[keyCode] = true
		return
	}
	delete(s.keys, keyCode)
}

// ButtonEvent records a mouse button press or release.
func (s *InputState) ButtonEvent(button int, down bool) {
	if down {
		s.buttons[button] = true
		return
	}
	delete(s.buttons, button)
}

// CursorEvent records the latest cursor position in window coordinates.
func (s *InputState) CursorEvent(x, y float64) {
	s.cursorX, s.cursorY = x, y
}

func (s *InputState) KeyDown(keyCode uint32) bool {
	return s.keys[keyCode]
}

func (s *InputState) ButtonDown(button int) bool {
	return s.buttons[button]
}

func (s *InputState) Cursor() (x, y float64) {
	return s.cursorX, s.cursorY
}

// Reset releases every key and button, e.g. when the window loses focus.
func (s *InputState) Reset() {
	clear(s.keys)
	clear(s.buttons)
}
