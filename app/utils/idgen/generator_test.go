package idgen

import "testing"

func TestNewPublicIDMatchesFormat(t *testing.T) {
	id, err := NewPublicID("lead")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != len("lead_")+publicIDLength {
		t.Fatalf("expected length %d, got %d (%s)", len("lead_")+publicIDLength, len(id), id)
	}
	if !ValidateIDFormat(id, "lead") {
		t.Fatalf("expected %s to validate", id)
	}
}

func TestValidateIDFormatRejects(t *testing.T) {
	cases := []string{"proj_ABC", "lead_abc", "proj_", "proj-abc"}
	for _, id := range cases {
		if ValidateIDFormat(id, "proj") {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}
