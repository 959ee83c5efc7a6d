package services

import (
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewAuthService(newTestDB(t))
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := svc.Register("a@b.c", "password123", "Test"); err != nil {
		t.Fatal(err)
	}

	token, mfa, err := svc.Authenticate("a@b.c", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if mfa {
		t.Fatal("MFA not enabled for this account")
	}
	if token == "" {
		t.Fatal("no token issued")
	}

	if _, _, err := svc.Authenticate("a@b.c", "wrong-password"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if _, _, err := svc.Authenticate("ghost@b.c", "password123"); err == nil {
		t.Fatal("unknown account authenticated")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newTestDB(t))

	if _, err := svc.Register("a@b.c", "password123", "First"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register("a@b.c", "password456", "Second"); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	t.Setenv("JWT_SECRET", "test-secret")

	user, err := svc.Register("a@b.c", "password123", "Test")
	if err != nil {
		t.Fatal(err)
	}

	// set the token directly, the mailer is not configured in tests
	user.ResetToken = "abc12345"
	if err := db.Save(user).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword("a@b.c", "wrong-token", "newpassword1"); err == nil {
		t.Fatal("wrong reset token accepted")
	}
	if err := svc.ResetPassword("a@b.c", "abc12345", "newpassword1"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Authenticate("a@b.c", "newpassword1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, _, err := svc.Authenticate("a@b.c", "password123"); err == nil {
		t.Fatal("old password still works")
	}
}

func TestRequestPasswordResetSilentOnUnknown(t *testing.T) {
	svc := NewAuthService(newTestDB(t))
	if err := svc.RequestPasswordReset("ghost@b.c"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
}
