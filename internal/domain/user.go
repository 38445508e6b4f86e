package domain

// UserID is a GitHub user login.
type UserID = string

type User struct {
	Login     UserID `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
	Type      string `json:"type"`
}

// IsBot reports whether the account is an automation account
// (e.g. dependabot, github-actions). Bot activity still counts as
// review activity, callers decide whether to filter it.
func (u User) IsBot() bool {
	return u.Type == "Bot"
}
