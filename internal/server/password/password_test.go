package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	h, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h == "s3cret" {
		t.Fatal("hash must not equal plaintext")
	}
	if !Verify(h, "s3cret") {
		t.Fatal("expected matching password to verify")
	}
	if Verify(h, "wrong") {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestHash_ProducesDistinctSalts(t *testing.T) {
	h1, err := Hash("same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, err := Hash("same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected different hashes for the same password")
	}
}
