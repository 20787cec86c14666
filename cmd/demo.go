package main

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/codebadge.net/internal/adapter/crypto"
	"gitlab.com/codebadge.net/internal/adapter/logging"
	"gitlab.com/codebadge.net/internal/adapter/memory"
	"gitlab.com/codebadge.net/internal/adapter/restapi"
	"gitlab.com/codebadge.net/internal/config"
	"gitlab.com/codebadge.net/internal/core/services/auth"
	"gitlab.com/codebadge.net/internal/core/services/session"
	"gitlab.com/codebadge.net/internal/core/services/solver"
	"gitlab.com/codebadge.net/internal/core/services/xp"
	"gitlab.com/codebadge.net/internal/domain"
	"gitlab.com/codebadge.net/internal/fakeapi"
	http2 "gitlab.com/codebadge.net/internal/http"
)

const (
	demoUser     = "demo"
	demoPassword = "demo"
)

// runDemo plays a hint and a fail-then-pass submit against a local fake API
func runDemo(ctx context.Context, sysCfg *config.AppConfig, logger *logging.ZapLogger) error {
	fake := fakeapi.NewServer(logger)
	fake.AddUser(demoUser, demoPassword, 20)
	fake.AddChallenge(domain.Challenge{
		ID:               "two-sum",
		Title:            "Two Sum",
		Description:      "Return the indices of the two numbers that add up to target.",
		Difficulty:       domain.DifficultyEasy,
		Points:           25,
		AllowedLanguages: []domain.Language{domain.LanguagePython, domain.LanguageGo},
		StarterCode: []domain.StarterCode{
			{Language: domain.LanguagePython, Code: "def two_sum(nums, target):\n    pass\n"},
		},
	}, "seen[target - n]")
	fake.SetHint("try two pointers", sysCfg.SolverConfig.HintCost)

	baseURL, err := fake.Start("127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to start fake api: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = fake.Stop(stopCtx)
	}()

	tokens := memory.NewTokenStore()
	decoder := crypto.NewClaimsDecoder()
	client := http2.NewClient(baseURL, sysCfg.ApiConfig.Timeout, tokens,
		http2.NewJSONRefresher(baseURL, sysCfg.ApiConfig.Timeout, decoder), logger, http2.WithTokenDecoder(decoder))
	store := xp.NewStore(domain.User{})
	store.Subscribe(func(c xp.Change) {
		fmt.Printf("  xp %d -> %d (%s)\n", c.Before, c.After, c.Reason)
	})
	challenges := restapi.NewChallengeService(client, logger)
	authSvc := auth.NewSessionAuthService(restapi.NewAuthService(client), tokens, decoder, store, logger)

	fmt.Println("== login")
	if _, err := authSvc.Login(ctx, demoUser, demoPassword); err != nil {
		return err
	}

	ws, err := session.Open(ctx, challenges, store, sysCfg.SolverConfig, logger, "two-sum")
	if err != nil {
		return err
	}

	fmt.Println("== hint")
	ws.Hint.RequestHint(ctx)
	for _, turn := range ws.Hint.Conversation() {
		fmt.Printf("  [%s] %s\n", turn.Role, turn.Text)
	}

	fmt.Println("== submit a wrong answer")
	ws.Editor.SetCode("def two_sum(nums, target):\n    return []\n")
	printResult(ws.Solver.RunOrSubmit(ctx, solver.ModeSubmit).Result)

	fmt.Println("== submit the fix")
	ws.Editor.SetCode("def two_sum(nums, target):\n    seen = {}\n    for i, n in enumerate(nums):\n        if target - n in seen:\n            return [seen[target - n], i]\n        seen[n] = i\n")
	out := ws.Solver.RunOrSubmit(ctx, solver.ModeSubmit)
	printResult(out.Result)
	if out.State == solver.StatePassed {
		fmt.Printf("Solved! +%d XP\n", out.Awarded)
	}

	fmt.Printf("Final balance: %d XP (server: %d XP)\n", store.Balance(), fake.Points(demoUser))
	return nil
}
