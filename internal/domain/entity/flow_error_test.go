package entity

import (
	"errors"
	"fmt"
	"testing"
)

func TestFlowErrorKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("user rejected the request")
	err := fmt.Errorf("connect: %w", NewFlowError(KindAuthorizationRejected, MsgConnectionFailed, cause))

	if !IsKind(err, KindAuthorizationRejected) {
		t.Fatalf("expected authorization-rejected kind, got %v", err)
	}
	if IsKind(err, KindRPC) {
		t.Fatalf("did not expect rpc kind")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if got := UserMessage(err); got != MsgConnectionFailed {
		t.Fatalf("unexpected user message %q", got)
	}
}

func TestNetworkMismatchMessage(t *testing.T) {
	err := NetworkMismatchError("Ethereum", "3")
	if err.Message != "Change network to Ethereum." {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if UserMessage(errors.New("plain")) != MsgConnectionFailed {
		t.Fatalf("plain errors should map to the generic message")
	}
}

func TestMatchesNetwork(t *testing.T) {
	cfg := NetworkConfig{RequiredNetworkID: 1}
	cases := map[string]bool{
		"1":   true,
		" 1 ": true,
		"3":   false,
		"0x1": false,
		"":    false,
	}
	for in, want := range cases {
		if got := cfg.MatchesNetwork(in); got != want {
			t.Fatalf("MatchesNetwork(%q) = %v, want %v", in, got, want)
		}
	}
}
