package valueobject

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHashRejectsEmpty(t *testing.T) {
	if _, err := NewPasswordHash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("NewPasswordHash(\"\") = %v, want ErrEmptyPassword", err)
	}
}

func TestPasswordHashVerify(t *testing.T) {
	h, err := NewPasswordHashWithCost("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHashWithCost: %v", err)
	}
	if !h.Verify("s3cret-pass") {
		t.Fatal("correct password should verify")
	}
	if h.Verify("wrong-pass") {
		t.Fatal("wrong password must not verify")
	}
	if h.Verify("") {
		t.Fatal("empty candidate must never verify")
	}
}

func TestPasswordHashNotPlaintext(t *testing.T) {
	h, err := NewPasswordHashWithCost("hunter2pass", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(h.Bytes(), []byte("hunter2pass")) {
		t.Fatal("hash bytes must not embed the plain password")
	}
}

func TestPasswordHashFromBytesRoundTrip(t *testing.T) {
	h, err := NewPasswordHashWithCost("roundtrip-pw", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	stored := h.Bytes()
	restored := PasswordHashFromBytes(stored)
	if !restored.Verify("roundtrip-pw") {
		t.Fatal("rehydrated hash should verify the original password")
	}

	// Mutating the source slice must not affect the value.
	stored[0] ^= 0xff
	if !restored.Verify("roundtrip-pw") {
		t.Fatal("value must hold its own copy of the hash")
	}
}

func TestZeroPasswordHashNeverVerifies(t *testing.T) {
	var zero PasswordHash
	if !zero.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	if zero.Verify("anything") {
		t.Fatal("zero value must not verify any password")
	}
}
