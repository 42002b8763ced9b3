package anilist

// AuthForm holds the OAuth client credentials for the pin flow.
type AuthForm struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Token represents an OAuth access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User identifies an AniList account.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Title holds the title variants AniList tracks for one media entry.
type Title struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
	Native  string `json:"native"`
}

// Preferred picks the English title when present, romaji otherwise.
func (t Title) Preferred() string {
	if t.English != "" {
		return t.English
	}
	return t.Romaji
}

// Media is one manga as AniList describes it.
type Media struct {
	ID       int64    `json:"id"`
	IDMal    int64    `json:"idMal"`
	Title    Title    `json:"title"`
	Format   string   `json:"format"`
	Status   string   `json:"status"`
	Chapters int      `json:"chapters"`
	Volumes  int      `json:"volumes"`
	Synonyms []string `json:"synonyms"`
}

// Entry is one manga on a user's list.
type Entry struct {
	Status   string  `json:"status"`
	Score    float64 `json:"score"`
	Progress int     `json:"progress"`
	Media    Media   `json:"media"`
}

// List is one of the user's status lists (CURRENT, PLANNING, ...).
type List struct {
	Status  string  `json:"status"`
	Entries []Entry `json:"entries"`
}

// APIError represents an error object in the API response.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
