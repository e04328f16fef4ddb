package domain

type State int

const (
	StateChooseMode State = iota
	StateChooseRatio
	StateChooseQuality
	StateChooseSearch
	StateAwaitPhoto
	StateAwaitPhotos
	StateAwaitPrompt
	StateConfirm
)

var stateNames = map[State]string{
	StateChooseMode:    "choose_mode",
	StateChooseRatio:   "choose_ratio",
	StateChooseQuality: "choose_quality",
	StateChooseSearch:  "choose_search",
	StateAwaitPhoto:    "await_photo",
	StateAwaitPhotos:   "await_photos",
	StateAwaitPrompt:   "await_prompt",
	StateConfirm:       "confirm",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Session is the per-user dialogue state. Locale survives Reset.
type Session struct {
	State       State
	Mode        Mode
	AspectRatio string
	Quality     Quality
	Search      bool
	Prompt      string
	References  [][]byte
	Locale      Locale
}

func (s *Session) Reset() {
	*s = Session{Locale: s.Locale}
}

func (s *Session) ReferencesSatisfied() bool {
	min, max := s.Mode.ReferenceBounds()
	n := len(s.References)
	return n >= min && n <= max
}
