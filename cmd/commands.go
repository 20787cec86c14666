package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gitlab.com/codebadge.net/internal/core/services/session"
	"gitlab.com/codebadge.net/internal/core/services/solver"
	"gitlab.com/codebadge.net/internal/domain"
)

func (a *app) login(ctx context.Context, username, password string) error {
	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%d XP)\n", user.Username, user.Points)
	return nil
}

// openWorkspace restores the session and loads the challenge with code from path
func (a *app) openWorkspace(ctx context.Context, challengeID, language, path string) (*session.Workspace, error) {
	if _, err := a.auth.RestoreSession(ctx); err != nil {
		return nil, err
	}

	lang, err := domain.ParseLanguage(language)
	if err != nil {
		return nil, err
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ws, err := session.Open(ctx, a.challenges, a.store, a.cfg.SolverConfig, a.logger, challengeID)
	if err != nil {
		return nil, err
	}
	if err := ws.Editor.ChangeLanguage(lang); err != nil {
		return nil, err
	}
	ws.Editor.SetCode(string(code))
	return ws, nil
}

func (a *app) solve(ctx context.Context, challengeID, language, path, mode string) error {
	m := solver.Mode(mode)
	if m != solver.ModeRun && m != solver.ModeSubmit {
		return fmt.Errorf("unknown mode %q, want run or submit", mode)
	}

	ws, err := a.openWorkspace(ctx, challengeID, language, path)
	if err != nil {
		return err
	}

	out := ws.Solver.RunOrSubmit(ctx, m)
	printResult(out.Result)
	if out.State != solver.StatePassed {
		return nil
	}

	fmt.Printf("Solved! +%d XP, balance %d XP\n", out.Awarded, a.store.Balance())
	nav, err := ws.Solver.ResolveSuccess(ctx, solver.ChoiceNextRandom)
	if err != nil {
		a.logger.Warn("Could not pick a next challenge", "error", err)
		return nil
	}
	fmt.Printf("Next challenge: %s\n", nav.ChallengeID)
	return nil
}

func (a *app) hint(ctx context.Context, challengeID, language, path string) error {
	ws, err := a.openWorkspace(ctx, challengeID, language, path)
	if err != nil {
		return err
	}

	if _, ok := ws.Hint.RequestHint(ctx); !ok {
		return nil
	}
	for _, turn := range ws.Hint.Conversation() {
		fmt.Printf("[%s] %s\n", turn.Role, turn.Text)
	}
	fmt.Printf("Balance: %d XP\n", a.store.Balance())
	return nil
}

func (a *app) history(ctx context.Context, limit int) error {
	if a.ledger == nil {
		return fmt.Errorf("the XP ledger is disabled, set LEDGER_ENABLED=true")
	}
	user, err := a.auth.RestoreSession(ctx)
	if err != nil {
		return err
	}
	entries, err := a.ledger.ListEntries(ctx, user.ID, limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-8s %+5d  %5d -> %-5d %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Delta, e.Before, e.After, e.Reason)
	}
	return nil
}

func printResult(r *domain.TestResult) {
	if r == nil {
		return
	}
	fmt.Printf("Status: %s (%d/%d passed)\n", r.Status, r.PassedCount(), len(r.Cases))
	if r.Message != "" {
		fmt.Println(r.Message)
	}
	for _, c := range r.Cases {
		mark := "PASS"
		if !c.Passed {
			mark = "FAIL"
		}
		line := fmt.Sprintf("  case %d: %s", c.Index, mark)
		if !c.Passed && (c.Expected != "" || c.Actual != "") {
			line += fmt.Sprintf("  expected %s, got %s", strings.TrimSpace(c.Expected), strings.TrimSpace(c.Actual))
		}
		fmt.Println(line)
	}
}
