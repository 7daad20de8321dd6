package models

import "testing"

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{
		Name:     "Siti Rahma",
		Email:    "siti@kampus.ac.id",
		Password: "rahasia-sekali",
		Role:     RoleDosen,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name string
		r    CreateUserRequest
	}{
		{"unknown role", CreateUserRequest{Name: "x", Email: "x@y.id", Password: "rahasia-sekali", Role: "superuser"}},
		{"short password", CreateUserRequest{Name: "x", Email: "x@y.id", Password: "1234567", Role: RoleMahasiswa}},
	}
	for _, tc := range cases {
		if err := tc.r.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
