package resolver

import (
	"context"
	"strings"
	"testing"
)

var testCandidates = []Candidate{
	{DestPage: 45, Confidence: 0.82, Method: "chunk"},
	{DestPage: 47, Confidence: 0.61, Method: "full-page"},
	{DestPage: 12, Confidence: 0.31, Method: "token-overlap"},
}

func TestParseDecision(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		want     string
		wantPage int
		wantErr  bool
	}{
		{
			name:     "valid pick",
			raw:      `{"decision":"pick","dest_page":45,"reason":"entry matches the affidavit heading"}`,
			want:     DecisionPick,
			wantPage: 45,
		},
		{
			name: "valid needs_review",
			raw:  `{"decision":"needs_review","reason":"candidates are indistinguishable"}`,
			want: DecisionNeedsReview,
		},
		{
			name:     "fenced json tolerated",
			raw:      "```json\n{\"decision\":\"pick\",\"dest_page\":45,\"reason\":\"ok\"}\n```",
			want:     DecisionPick,
			wantPage: 45,
		},
		{
			name: "pick of unlisted page downgraded",
			raw:  `{"decision":"pick","dest_page":999,"reason":"looks right"}`,
			want: DecisionNeedsReview,
		},
		{
			name: "pick below confidence floor downgraded",
			raw:  `{"decision":"pick","dest_page":12,"reason":"weak hunch"}`,
			want: DecisionNeedsReview,
		},
		{
			name:    "not json",
			raw:     "I think page 45 is best.",
			wantErr: true,
		},
		{
			name:    "unknown decision value",
			raw:     `{"decision":"maybe","reason":"?"}`,
			wantErr: true,
		},
		{
			name:    "missing reason",
			raw:     `{"decision":"pick","dest_page":45}`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := parseDecision(tc.raw, testCandidates, 0.5)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Decision != tc.want {
				t.Errorf("decision = %q, want %q", d.Decision, tc.want)
			}
			if tc.want == DecisionPick && d.DestPage != tc.wantPage {
				t.Errorf("dest_page = %d, want %d", d.DestPage, tc.wantPage)
			}
			if d.Decision == DecisionNeedsReview && d.DestPage != 0 {
				t.Errorf("needs_review must not carry a page, got %d", d.DestPage)
			}
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt, err := buildUserPrompt("Affidavit of Jane Doe", testCandidates, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"Affidavit of Jane Doe"`, `"dest_page":45`, `"min_confidence":0.5`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %s:\n%s", want, prompt)
		}
	}
}

func TestResolve_Offline(t *testing.T) {
	r := New(Config{}, nil)
	if !r.Offline() {
		t.Fatal("resolver without API key should be offline")
	}

	d, err := r.Resolve(context.Background(), "Affidavit of Jane Doe", testCandidates)
	if err != nil {
		t.Fatalf("offline resolve must not error: %v", err)
	}
	if d.Decision != DecisionNeedsReview {
		t.Errorf("offline decision = %q, want needs_review", d.Decision)
	}
	if d.Picked() {
		t.Error("offline resolver must never pick")
	}
}

func TestResolve_NoCandidates(t *testing.T) {
	r := New(Config{APIKey: "sk-test"}, nil)

	d, err := r.Resolve(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Decision != DecisionNeedsReview {
		t.Errorf("decision = %q, want needs_review", d.Decision)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                      `{"a":1}`,
		"```json\n{\"a\":1}\n```":      `{"a":1}`,
		"```\n{\"a\":1}\n```":          `{"a":1}`,
		"  {\"a\":1}  ":                `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
