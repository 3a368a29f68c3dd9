package security

import "testing"

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(4)

	digest, err := h.Hash("hunter22")

	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if digest == "hunter22" {
		t.Fatalf("digest must not equal the plaintext")
	}

	if !h.Verify("hunter22", digest) {
		t.Fatalf("expected matching password to verify")
	}

	if h.Verify("hunter23", digest) {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewHasher(4)

	// verify must report false, not blow up
	if h.Verify("whatever", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest should never verify")
	}

	if h.Verify("whatever", "") {
		t.Fatalf("empty digest should never verify")
	}
}

func TestHasherCostClamped(t *testing.T) {
	t.Parallel()

	// out-of-range cost falls back to the default instead of failing
	h := NewHasher(99)

	digest, err := h.Hash("pw")

	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !h.Verify("pw", digest) {
		t.Fatalf("expected digest from clamped cost to verify")
	}
}
