package service

import "testing"

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret")
	if !svc.Enabled() {
		t.Fatal("service with a secret should be enabled")
	}

	token, err := svc.IssueAdminToken("Support")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := svc.ValidateAdminToken(token); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAdminTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a")
	verifier := NewAuthService("secret-b")

	token, err := issuer.IssueAdminToken("Support")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := verifier.ValidateAdminToken(token); err == nil {
		t.Fatal("token signed with a different secret validated")
	}
}

func TestAdminTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret")
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if err := svc.ValidateAdminToken(token); err == nil {
			t.Fatalf("garbage token %q validated", token)
		}
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	svc := NewAuthService("")
	if svc.Enabled() {
		t.Fatal("service without a secret should be disabled")
	}
}
