package domain

// Update is an inbound chat event with transport details stripped.
type Update struct {
	ID         int
	ChatID     int64
	UserID     int64
	Username   string
	FullName   string
	MessageID  int
	CallbackID string
	Callback   string
	Command    string
	Text       string
	PhotoID    string
	VoiceID    string
}

func (u Update) IsCallback() bool {
	return u.CallbackID != ""
}

// DisplayName prefers the full name and falls back to the @username.
func (u Update) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return ""
}
