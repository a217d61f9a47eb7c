package models

import (
	"strings"
)

// AnonymousAuthor is the display label used when an identity carries
// neither a display name nor an email.
const AnonymousAuthor = "익명 말"

// Identity is the signed-in session subject, supplied by the auth
// provider. A nil *Identity is the valid anonymous-browsing state.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// AuthorName resolves the display name snapshotted onto new records:
// display name, then the local part of the email, then the anonymous label.
func (i *Identity) AuthorName() string {
	if i == nil {
		return AnonymousAuthor
	}
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Email != "" {
		if at := strings.IndexByte(i.Email, '@'); at > 0 {
			return i.Email[:at]
		}
		return i.Email
	}
	return AnonymousAuthor
}
