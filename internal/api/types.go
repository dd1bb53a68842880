package api

import (
	"strings"
	"time"

	"github.com/svera/snapgram/internal/backend"
)

type User struct {
	ID        string
	AccountID string
	Email     string
	Name      string
	Username  string
	ImageURL  string
	Bio       string
	CreatedAt time.Time
}

type Post struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatorID string
	// Creator is resolved when the post is listed or fetched, and may be nil
	// if the profile could not be loaded
	Creator  *User
	Caption  string
	ImageURL string
	ImageID  string
	Location string
	Tags     []string
	Likes    []string
}

// LikedBy reports whether userID is among the users that liked the post
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Save associates a user with a post they saved
type Save struct {
	ID     string
	UserID string
	PostID string
}

type NewUser struct {
	Name string
	// Username is derived from Name when empty
	Username string
	Email    string
	Password string
}

// UserProfile holds the attributes persisted in a user document
type UserProfile struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Username  string `json:"username"`
	Bio       string `json:"bio,omitempty"`
}

type NewPost struct {
	UserID   string
	Caption  string
	File     backend.InputFile
	Location string
	// Tags is a comma separated list
	Tags string
}

type UpdatePost struct {
	PostID   string
	Caption  string
	ImageURL string
	ImageID  string
	Location string
	// Tags is a comma separated list
	Tags string
	// File replaces the current image when not nil
	File *backend.InputFile
}

type postAttributes struct {
	Creator  string   `json:"creator"`
	Caption  string   `json:"caption"`
	ImageURL string   `json:"imageUrl"`
	ImageID  string   `json:"imageId"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	Likes    []string `json:"likes"`
}

type postChanges struct {
	Caption  string   `json:"caption"`
	ImageURL string   `json:"imageUrl"`
	ImageID  string   `json:"imageId"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
}

type likesChange struct {
	Likes []string `json:"likes"`
}

type saveAttributes struct {
	User string `json:"user"`
	Post string `json:"post"`
}

func userFromDocument(doc backend.Document) (User, error) {
	var profile UserProfile
	if err := doc.Decode(&profile); err != nil {
		return User{}, err
	}
	return User{
		ID:        doc.ID,
		AccountID: profile.AccountID,
		Email:     profile.Email,
		Name:      profile.Name,
		Username:  profile.Username,
		ImageURL:  profile.ImageURL,
		Bio:       profile.Bio,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func postFromDocument(doc backend.Document) (Post, error) {
	var attrs postAttributes
	if err := doc.Decode(&attrs); err != nil {
		return Post{}, err
	}
	return Post{
		ID:        doc.ID,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		CreatorID: attrs.Creator,
		Caption:   attrs.Caption,
		ImageURL:  attrs.ImageURL,
		ImageID:   attrs.ImageID,
		Location:  attrs.Location,
		Tags:      attrs.Tags,
		Likes:     attrs.Likes,
	}, nil
}

func saveFromDocument(doc backend.Document) (Save, error) {
	var attrs saveAttributes
	if err := doc.Decode(&attrs); err != nil {
		return Save{}, err
	}
	return Save{ID: doc.ID, UserID: attrs.User, PostID: attrs.Post}, nil
}

// ParseTags turns a comma separated list into tags, dropping blanks and whitespace
func ParseTags(tags string) []string {
	parsed := []string{}
	for _, tag := range strings.Split(strings.ReplaceAll(tags, " ", ""), ",") {
		if tag != "" {
			parsed = append(parsed, tag)
		}
	}
	return parsed
}

// ToggleLike returns the likes list with userID added, or removed if it was already there
func ToggleLike(likes []string, userID string) []string {
	toggled := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		toggled = append(toggled, id)
	}
	if !found {
		toggled = append(toggled, userID)
	}
	return toggled
}
