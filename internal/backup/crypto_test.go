package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")

	content := []byte("not really a database, but good enough")
	if err := os.WriteFile(src, content, 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if err := EncryptFile(src, enc, "correct horse", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	encrypted, err := os.ReadFile(enc)
	if err != nil {
		t.Fatalf("read encrypted: %v", err)
	}
	if bytes.Contains(encrypted, content) {
		t.Fatal("ciphertext contains plaintext")
	}
	if !bytes.Equal(encrypted[:saltSize], salt) {
		t.Error("salt not prepended to output")
	}

	if err := DecryptFile(enc, dec, "correct horse"); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	restored, err := os.ReadFile(dec)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(restored, content) {
		t.Error("round trip did not preserve content")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret"), 0600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if err := EncryptFile(src, enc, "right", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Fatal("expected decrypt failure with wrong passphrase")
	}
}

func TestDecryptTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	enc := filepath.Join(dir, "short.enc")
	if err := os.WriteFile(enc, []byte("tiny"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "any"); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(a) != saltSize {
		t.Errorf("salt length = %d, want %d", len(a), saltSize)
	}
	if bytes.Equal(a, b) {
		t.Error("two salts should not match")
	}
}
