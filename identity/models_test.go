package identity

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"patient lowercase", "patient", RolePatient, false},
		{"doctor mixed case", "Doctor", RoleDoctor, false},
		{"padded", " patient ", RolePatient, false},
		{"admin not self-service", "admin", RoleNone, true},
		{"none not self-service", "none", RoleNone, true},
		{"unknown", "nurse", RoleNone, true},
		{"empty", "", RoleNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleIndex(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{RoleNone, 0},
		{RolePatient, 1},
		{RoleDoctor, 2},
		{RoleAdmin, 3},
		{Role("bogus"), 0},
	}

	for _, tt := range tests {
		if got := tt.role.Index(); got != tt.want {
			t.Errorf("Role(%q).Index() = %d, want %d", tt.role, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0xAbCd", "0xabcd"},
		{" 0xABCD ", "0xabcd"},
		{"0xabcd", "0xabcd"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUserChecks(t *testing.T) {
	doctor := &User{Address: "0xdoc", Role: RoleDoctor, Registered: true}
	patient := &User{Address: "0xpat", Role: RolePatient, Registered: true}
	unregistered := &User{Address: "0x00", Role: RoleDoctor}

	if !doctor.IsDoctor() || doctor.IsPatient() {
		t.Error("doctor role checks failed")
	}
	if !patient.IsPatient() || patient.IsDoctor() {
		t.Error("patient role checks failed")
	}
	if unregistered.IsDoctor() {
		t.Error("unregistered user must not pass role checks")
	}
	var nilUser *User
	if nilUser.IsDoctor() || nilUser.IsPatient() {
		t.Error("nil user must not pass role checks")
	}
}
