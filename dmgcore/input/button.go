package input

// Button represents a key on the Game Boy joypad
type Button uint8

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

func (b Button) String() string {
	switch b {
	case ButtonRight:
		return "right"
	case ButtonLeft:
		return "left"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonA:
		return "a"
	case ButtonB:
		return "b"
	case ButtonSelect:
		return "select"
	case ButtonStart:
		return "start"
	default:
		return "unknown"
	}
}

// ButtonEvent is a single button transition. Immutable once created.
type ButtonEvent struct {
	Button  Button
	Pressed bool
}
