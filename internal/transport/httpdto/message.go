package httpdto

// AddReactionRequest still accepts a userId field for older clients, but the
// server derives the reacting user from the access token.
type AddReactionRequest struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji" binding:"required"`
}

type ReactionResponse struct {
	UserID string `json:"userId"`
	Emoji  string `json:"emoji"`
}
