package domain

// RunRequest is the body sent to the run and submit endpoints
type RunRequest struct {
	ChallengeID string   `json:"challengeId"`
	Language    Language `json:"language"`
	Code        string   `json:"code"`
}

// RunResponse is the execution service's answer to a run or submit
type RunResponse struct {
	Results []TestCaseResult `json:"results"`
	Status  TestStatus       `json:"status"`
	Message string           `json:"message,omitempty"`
}

// HintRequest is the body sent to the hint endpoint
type HintRequest struct {
	ChallengeID string   `json:"challengeId"`
	Code        string   `json:"code"`
	Language    Language `json:"language"`
}

// HintResponse carries the hint text and, when present, the authoritative
// balance after the hint was charged.
type HintResponse struct {
	Hint            string `json:"hint"`
	RemainingPoints *int   `json:"remainingPoints,omitempty"`
}

// RandomChallengeResponse is returned by the random challenge endpoint
type RandomChallengeResponse struct {
	ID string `json:"id"`
}
