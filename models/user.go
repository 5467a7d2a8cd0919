package models

import "time"

type User struct {
	UserID        string    `json:"_id" bson:"_id"`
	FirstName     string    `json:"firstName" bson:"firstName"`
	LastName      string    `json:"lastName" bson:"lastName"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"-" bson:"password"`
	PicturePath   string    `json:"picturePath" bson:"picturePath"`
	Friends       []string  `json:"friends" bson:"friends"`
	Location      string    `json:"location" bson:"location"`
	Occupation    string    `json:"occupation" bson:"occupation"`
	ViewedProfile int       `json:"viewedProfile" bson:"viewedProfile"`
	Impressions   int       `json:"impressions" bson:"impressions"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy of u without the password hash.
func (u *User) Public() *User {
	c := *u
	c.Password = ""
	return &c
}

// HasFriend reports whether id is in u's friend list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// Friend is the trimmed view returned by friend-list endpoints.
type Friend struct {
	UserID      string `json:"_id" bson:"_id"`
	FirstName   string `json:"firstName" bson:"firstName"`
	LastName    string `json:"lastName" bson:"lastName"`
	Occupation  string `json:"occupation" bson:"occupation"`
	Location    string `json:"location" bson:"location"`
	PicturePath string `json:"picturePath" bson:"picturePath"`
}

func (u *User) AsFriend() Friend {
	return Friend{
		UserID:      u.UserID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Location:    u.Location,
		PicturePath: u.PicturePath,
	}
}

// ProfileUpdate holds the editable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Location    *string
	Occupation  *string
	PicturePath *string
}

func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Location == nil &&
		p.Occupation == nil && p.PicturePath == nil
}

// Counter names a user engagement counter.
type Counter string

const (
	CounterViewedProfile Counter = "viewedProfile"
	CounterImpressions   Counter = "impressions"
)
