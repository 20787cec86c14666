package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"gitlab.com/codebadge.net/internal/adapter/logging"
	"gitlab.com/codebadge.net/internal/domain"
)

type call struct {
	method string
	path   string
	body   interface{}
}

// stubRequester answers with a canned JSON document and records each call
type stubRequester struct {
	calls []call
	reply string
	err   error
}

func (s *stubRequester) Do(ctx context.Context, method, path string, body, out interface{}) error {
	s.calls = append(s.calls, call{method: method, path: path, body: body})
	if s.err != nil {
		return s.err
	}
	if out == nil || s.reply == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.reply), out)
}

func TestChallengeServicePaths(t *testing.T) {
	run := domain.RunRequest{ChallengeID: "two sum", Language: domain.LanguageGo, Code: "package main"}
	hint := domain.HintRequest{ChallengeID: "two-sum", Language: domain.LanguageGo, Code: "package main"}

	tests := []struct {
		name       string
		reply      string
		invoke     func(s *ChallengeService) error
		wantMethod string
		wantPath   string
	}{
		{
			name:  "get challenge",
			reply: `{"id":"two-sum","allowedLanguages":["go"]}`,
			invoke: func(s *ChallengeService) error {
				_, err := s.GetChallenge(context.Background(), "two-sum")
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/challenges/two-sum",
		},
		{
			name:  "random",
			reply: `{"id":"fizz-buzz"}`,
			invoke: func(s *ChallengeService) error {
				_, err := s.RandomChallenge(context.Background())
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/challenges/random",
		},
		{
			name:  "run escapes id",
			reply: `{"status":"PASSED","results":[]}`,
			invoke: func(s *ChallengeService) error {
				_, err := s.Run(context.Background(), run)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/challenges/two%20sum/run",
		},
		{
			name:  "submit",
			reply: `{"status":"WRONG_ANSWER","results":[{"index":0,"passed":false}]}`,
			invoke: func(s *ChallengeService) error {
				_, err := s.Submit(context.Background(), run)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/challenges/two%20sum/submit",
		},
		{
			name:  "hint",
			reply: `{"hint":"try two pointers","remainingPoints":15}`,
			invoke: func(s *ChallengeService) error {
				_, err := s.RequestHint(context.Background(), hint)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/ai/hint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRequester{reply: tt.reply}
			svc := NewChallengeService(stub, logging.NewNopLogger())
			if err := tt.invoke(svc); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(stub.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(stub.calls))
			}
			if stub.calls[0].method != tt.wantMethod || stub.calls[0].path != tt.wantPath {
				t.Errorf("expected %s %s, got %s %s", tt.wantMethod, tt.wantPath, stub.calls[0].method, stub.calls[0].path)
			}
		})
	}
}

func TestHintRemainingPointsIsOptional(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  *int
	}{
		{name: "present", reply: `{"hint":"h","remainingPoints":15}`, want: intPtr(15)},
		{name: "zero", reply: `{"hint":"h","remainingPoints":0}`, want: intPtr(0)},
		{name: "absent", reply: `{"hint":"h"}`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChallengeService(&stubRequester{reply: tt.reply}, logging.NewNopLogger())
			resp, err := svc.RequestHint(context.Background(), domain.HintRequest{ChallengeID: "x"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch {
			case tt.want == nil && resp.RemainingPoints != nil:
				t.Errorf("expected no remaining points, got %d", *resp.RemainingPoints)
			case tt.want != nil && (resp.RemainingPoints == nil || *resp.RemainingPoints != *tt.want):
				t.Errorf("expected %d, got %v", *tt.want, resp.RemainingPoints)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestGetChallengeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "no languages", reply: `{"id":"x","allowedLanguages":[]}`},
		{name: "starter for disallowed language", reply: `{"id":"x","allowedLanguages":["go"],"starterCode":[{"language":"python","code":"pass"}]}`},
		{name: "only unknown languages", reply: `{"id":"x","allowedLanguages":["cobol","fortran"]}`},
		{name: "duplicate starter", reply: `{"id":"x","allowedLanguages":["go"],"starterCode":[{"language":"go","code":"a"},{"language":"go","code":"b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChallengeService(&stubRequester{reply: tt.reply}, logging.NewNopLogger())
			if _, err := svc.GetChallenge(context.Background(), "x"); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestExecuteRequiresStatus(t *testing.T) {
	svc := NewChallengeService(&stubRequester{reply: `{"results":[]}`}, logging.NewNopLogger())
	if _, err := svc.Run(context.Background(), domain.RunRequest{ChallengeID: "x"}); err == nil {
		t.Error("expected an error for a response without status")
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewChallengeService(&stubRequester{err: cause}, logging.NewNopLogger())
	_, err := svc.Submit(context.Background(), domain.RunRequest{ChallengeID: "x"})
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestAuthService(t *testing.T) {
	stub := &stubRequester{reply: `{"token":"a","refresh_token":"r"}`}
	svc := NewAuthService(stub)

	resp, err := svc.Login(context.Background(), "ada", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "a" || resp.RefreshToken != "r" {
		t.Errorf("unexpected response %+v", resp)
	}
	req, ok := stub.calls[0].body.(domain.LoginRequest)
	if !ok || req.Username != "ada" || req.Password != "secret" {
		t.Errorf("unexpected login body %+v", stub.calls[0].body)
	}
	if stub.calls[0].path != "/api/auth/login" {
		t.Errorf("unexpected path %s", stub.calls[0].path)
	}
}

func TestGetChallengeDropsUnknownLanguages(t *testing.T) {
	reply := `{"id":"x","points":25,"allowedLanguages":["Golang","cobol","py"],` +
		`"starterCode":[{"language":"cobol","code":"IDENTIFICATION DIVISION."},{"language":"python","code":"pass"}]}`
	svc := NewChallengeService(&stubRequester{reply: reply}, logging.NewNopLogger())

	ch, err := svc.GetChallenge(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Language{domain.LanguageGo, domain.LanguagePython}
	if len(ch.AllowedLanguages) != len(want) {
		t.Fatalf("expected %v, got %v", want, ch.AllowedLanguages)
	}
	for i := range want {
		if ch.AllowedLanguages[i] != want[i] {
			t.Errorf("expected %v, got %v", want, ch.AllowedLanguages)
		}
	}
	if len(ch.StarterCode) != 1 || ch.StarterCode[0].Language != domain.LanguagePython {
		t.Errorf("expected only the python starter, got %+v", ch.StarterCode)
	}
	if ch.Points != 25 {
		t.Errorf("expected points 25, got %d", ch.Points)
	}
}
