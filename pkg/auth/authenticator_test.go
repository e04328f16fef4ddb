package auth

import "testing"

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name      string
		whitelist []int64
		userID    int64
		want      bool
	}{
		{name: "empty whitelist admits everyone", userID: 42, want: true},
		{name: "listed user", whitelist: []int64{1, 42}, userID: 42, want: true},
		{name: "unlisted user", whitelist: []int64{1, 2}, userID: 42, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAuthenticator(tt.whitelist)
			if got := a.IsAuthorized(tt.userID); got != tt.want {
				t.Errorf("IsAuthorized(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}
