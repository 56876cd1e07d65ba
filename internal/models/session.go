package models

// State — where the user currently is in the verification dialog.
type State int

const (
	StateChoosing State = iota
	StateWaitContact
	StateWaitPhone
	StateWaitOTP
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateChoosing:
		return "CHOOSING"
	case StateWaitContact:
		return "WAIT_CONTACT"
	case StateWaitPhone:
		return "WAIT_PHONE"
	case StateWaitOTP:
		return "WAIT_OTP"
	case StateEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// Session — per-user conversation state. VerifiedPhone survives the terminal
// transition: the row flips to StateEnded but the verified fact is kept.
type Session struct {
	UserID        int64  `json:"user_id"`
	State         State  `json:"state"`
	VerifiedPhone string `json:"verified_phone,omitempty"`
}

// Keyboard — reply-markup directive attached to an outgoing message.
type Keyboard int

const (
	KeyboardNone    Keyboard = iota // leave whatever keyboard is on screen
	KeyboardChoice                  // 3-row verification method picker
	KeyboardContact                 // single request-contact button + Back row
	KeyboardRemove                  // ReplyKeyboardRemove
)

// Reply — exactly one outgoing chat message per handled update. Empty Text
// means the update produced no reply (unhandled input for the current state).
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// None reports whether there is nothing to send.
func (r Reply) None() bool { return r.Text == "" }
