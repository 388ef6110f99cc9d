package credential

import (
	"encoding/json"
	"time"
)

// createdAtLayout matches JavaScript's Date.toISOString output.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// User is a registered account.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type userJSON struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

// MarshalJSON writes CreatedAt in UTC with millisecond precision.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    FormatTime(u.CreatedAt),
	})
}

// UnmarshalJSON accepts any RFC 3339 timestamp for CreatedAt.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User{ID: raw.ID, Email: raw.Email, PasswordHash: raw.PasswordHash}
	if raw.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
		if err != nil {
			return err
		}
		u.CreatedAt = t
	}
	return nil
}

// FormatTime renders t the way createdAt is stored and returned.
func FormatTime(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// Document is the whole persisted user collection.
type Document struct {
	Users []User `json:"users"`
}

// FindByEmail returns the user with exactly this email.
func (d *Document) FindByEmail(email string) (User, bool) {
	for _, u := range d.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// FindByID returns the user with this id.
func (d *Document) FindByID(id int) (User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// NextID returns one more than the largest id in use, or 1 for an empty
// document.
func (d *Document) NextID() int {
	next := 1
	for _, u := range d.Users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{Users: []User{}}
	}
	users := make([]User, len(d.Users))
	copy(users, d.Users)
	return &Document{Users: users}
}
