package utils

import "testing"

type passwordFixture struct {
	Password string `validate:"required,min=8,password"`
}

func TestPasswordComplexityRule(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid mixed", "Secret123", true},
		{"missing uppercase", "secret123", false},
		{"missing lowercase", "SECRET123", false},
		{"missing digit", "SecretPass", false},
		{"too short", "Ab1", false},
		{"empty", "", false},
		{"valid with symbols", "Pa55word!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(passwordFixture{Password: tt.password})
			if tt.valid && len(errs) > 0 {
				t.Errorf("expected %q to pass, got errors: %v", tt.password, errs)
			}
			if !tt.valid && len(errs) == 0 {
				t.Errorf("expected %q to fail validation", tt.password)
			}
		})
	}
}

func TestValidateStructMessages(t *testing.T) {
	type fixture struct {
		Email string `validate:"required,email"`
		Role  string `validate:"omitempty,oneof=admin user"`
	}

	errs := ValidateStruct(fixture{Email: "not-an-email", Role: "guest"})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs["Email"] != "Invalid email format" {
		t.Errorf("unexpected email message: %s", errs["Email"])
	}
	if errs["Role"] == "" {
		t.Error("expected a role error message")
	}
}
