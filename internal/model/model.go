package model

// Moods is the closed set of recordable mood categories.
var Moods = []string{"excited", "happy", "calm", "tired", "sad", "angry"}

// ValidMood reports whether m is one of the six fixed categories.
func ValidMood(m string) bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PublicUser is the wire shape of a user, without credential fields.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
	Token   string     `json:"token"`
}

type MoodUpsertRequest struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
	Note string `json:"note"`
}

type MoodListResponse struct {
	Moods []MoodRecord `json:"moods"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
