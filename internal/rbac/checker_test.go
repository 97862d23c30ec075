package rbac

import "testing"

func TestChecker_DefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("student", "attempt:submit") {
		t.Fatalf("students must submit their own attempts")
	}
	if c.Has("student", "attempt:review-any") {
		t.Fatalf("students must not see other learners' history")
	}
	if !c.Has("teacher", "attempt:review-any") {
		t.Fatalf("teachers review any attempt")
	}
	if c.Has("teacher", "attempt:start") {
		t.Fatalf("teachers do not take quizzes")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Fatalf("admin wildcard broken")
	}
	if c.Has("", "quiz:view") || c.Has("ghost", "quiz:view") {
		t.Fatalf("unknown roles get nothing")
	}
}

func TestChecker_PrefixWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"bot": {"attempt:*"}})
	if !c.Has("bot", "attempt:submit") {
		t.Fatalf("prefix wildcard must cover attempt:submit")
	}
	if c.Has("bot", "quiz:view") {
		t.Fatalf("prefix wildcard must not leak across prefixes")
	}
}

func TestChecker_Any(t *testing.T) {
	c := NewChecker(nil)
	if !c.Any("teacher", "attempt:start", "attempt:review-any") {
		t.Fatalf("Any must pass with one match")
	}
	if c.Any("student", "attempt:review-any", "users:list") {
		t.Fatalf("Any must fail with zero matches")
	}
}
