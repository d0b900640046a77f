package security

import (
	"strings"
	"testing"
)

func testHasher() *Argon2Hasher {
	return NewArgon2Hasher(Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
}

func TestHashVerify(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected encoding %q", hash)
	}
	if !h.Verify("correct horse", hash) {
		t.Error("correct password rejected")
	}
	if h.Verify("wrong horse", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher()
	a, _ := h.Hash("pw")
	b, _ := h.Hash("pw")
	if a == b {
		t.Fatal("same password hashed twice gave identical output")
	}
}

func TestVerifyAcrossParameterChanges(t *testing.T) {
	old, _ := testHasher().Hash("pw")
	stronger := NewArgon2Hasher(Argon2Params{Memory: 16 * 1024, Iterations: 2, Parallelism: 1})
	if !stronger.Verify("pw", old) {
		t.Fatal("hash from older parameters should still verify")
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := testHasher()
	for _, bad := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=1$m=1,t=1,p=1$a$b"} {
		if h.Verify("pw", bad) {
			t.Errorf("Verify accepted %q", bad)
		}
	}
}
