package solver

import (
	"context"

	"gitlab.com/codebadge.net/internal/domain"
)

// Mode selects the sample tests (run) or the full suite (submit)
type Mode string

const (
	ModeRun    Mode = "run"
	ModeSubmit Mode = "submit"
)

// State of one challenge-solving session
type State string

const (
	StateIdle    State = "IDLE"
	StateRunning State = "RUNNING"
	StatePassed  State = "PASSED"
	StateFailed  State = "FAILED"
	StateErrored State = "ERRORED"
)

// ConsoleView is the pane shown below the editor
type ConsoleView string

const (
	ConsoleTestcases ConsoleView = "testcases"
	ConsoleResult    ConsoleView = "result"
)

// SuccessChoice is one of the options offered after a passing run
type SuccessChoice string

const (
	ChoiceNextRandom SuccessChoice = "next-random"
	ChoiceDashboard  SuccessChoice = "dashboard"
	ChoiceStay       SuccessChoice = "stay"
)

const DashboardRoute = "/dashboard"

// SuccessPrompt is offered once per PASSED outcome
type SuccessPrompt struct {
	ChallengeID string
	Awarded     int
	Choices     []SuccessChoice
}

// Navigation tells the caller where to go after a success choice.
// An empty Route means stay on the current challenge.
type Navigation struct {
	Route       string
	ChallengeID string
}

// Outcome is what a single RunOrSubmit call produced
type Outcome struct {
	State   State
	Result  *domain.TestResult
	Awarded int
	Success *SuccessPrompt

	// Skipped is set when the call was dropped because another was in flight
	Skipped bool
}

// IController runs and submits the editor's code for one loaded challenge
type IController interface {
	// RunOrSubmit sends the current code. Transport failures become an ERROR result.
	RunOrSubmit(ctx context.Context, mode Mode) Outcome

	State() State
	Busy() bool
	Console() ConsoleView

	// ShowTestcases switches the console back to the test case pane
	ShowTestcases()

	// Result returns the stored result. It never re-applies an award.
	Result() *domain.TestResult

	SuccessPrompt() *SuccessPrompt

	// ResolveSuccess acts on the user's choice and dismisses the prompt
	ResolveSuccess(ctx context.Context, choice SuccessChoice) (Navigation, error)
}
