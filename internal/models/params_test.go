package models

import "testing"

func TestParamsValidate(t *testing.T) {
	valid := Params{K: 5, W: 4, Base: 257, Threshold: 0.3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	cases := []struct {
		name string
		p    Params
	}{
		{"zero k", Params{K: 0, W: 4, Base: 257, Threshold: 0.3}},
		{"zero w", Params{K: 5, W: 0, Base: 257, Threshold: 0.3}},
		{"base one", Params{K: 5, W: 4, Base: 1, Threshold: 0.3}},
		{"threshold zero", Params{K: 5, W: 4, Base: 257, Threshold: 0}},
		{"threshold one", Params{K: 5, W: 4, Base: 257, Threshold: 1}},
		{"negative threshold", Params{K: 5, W: 4, Base: 257, Threshold: -0.1}},
	}
	for _, tc := range cases {
		if err := tc.p.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
