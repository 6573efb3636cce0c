package security

import "testing"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plaintext := range []string{"trader@example.com", "s3cr3t-p4ss", ""} {
		encrypted, err := EncryptString(plaintext)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		if encrypted == plaintext && plaintext != "" {
			t.Fatalf("ciphertext must differ from plaintext")
		}

		decrypted, err := DecryptString(encrypted)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if decrypted != plaintext {
			t.Fatalf("expected %q back, got %q", plaintext, decrypted)
		}
	}
}

func TestEncryptProducesFreshNonce(t *testing.T) {
	first, err := EncryptString("same input")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	second, err := EncryptString("same input")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if first == second {
		t.Fatalf("two encryptions of the same input must not match")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := DecryptString("not-base64!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	if _, err := DecryptString("aGVsbG8="); err == nil {
		t.Fatalf("expected error for truncated ciphertext")
	}
}

func TestCheckPassphrase(t *testing.T) {
	hash, err := HashPassphrase("letmein")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if !CheckPassphrase(hash, "letmein") {
		t.Fatalf("expected passphrase to match its hash")
	}
	if CheckPassphrase(hash, "wrong") {
		t.Fatalf("wrong passphrase must not match")
	}
	if CheckPassphrase("", "letmein") {
		t.Fatalf("empty hash disables the check")
	}
}
