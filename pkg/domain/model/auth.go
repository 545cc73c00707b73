package model

// GitHubUser is the subset of the authenticated user profile returned
// to the caller after the OAuth callback.
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TokenResponse is the OAuth callback payload. SessionToken is a
// short-lived JWT signed by this service; AccessToken is the GitHub
// token the caller uses for invite requests.
type TokenResponse struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	SessionToken string     `json:"session_token,omitempty"`
	User         GitHubUser `json:"user"`
}
