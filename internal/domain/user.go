package domain

// User is the authenticated user's profile, including the XP balance
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Points      int    `json:"points"`
	Level       int    `json:"level,omitempty"`
	SolvedCount int    `json:"solvedCount,omitempty"`
}
