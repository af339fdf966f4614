package users

import "testing"

func TestCheckToken(t *testing.T) {
	pending := User{ActivationToken: "abc"}
	if got := pending.CheckToken("abc"); got != TokenValid {
		t.Fatalf("expected TokenValid, got %v", got)
	}
	if got := pending.CheckToken("xyz"); got != TokenMismatch {
		t.Fatalf("expected TokenMismatch, got %v", got)
	}

	active := User{}
	if got := active.CheckToken("abc"); got != NoTokenOnFile {
		t.Fatalf("expected NoTokenOnFile, got %v", got)
	}
	if got := active.CheckToken(""); got != NoTokenOnFile {
		t.Fatalf("expected NoTokenOnFile for empty supplied token, got %v", got)
	}
}

func TestPending(t *testing.T) {
	if (&User{}).Pending() {
		t.Fatalf("account without token must be active")
	}
	if !(&User{ActivationToken: "abc"}).Pending() {
		t.Fatalf("account with token must be pending")
	}
}
