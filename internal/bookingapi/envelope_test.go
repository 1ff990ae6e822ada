package bookingapi

import "testing"

func TestUnwrap(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		status int
		want   string
		wantSt int
	}{
		{"bare", `{"success":true}`, 200, `{"success":true}`, 200},
		{"string body", `{"statusCode":400,"body":"{\"success\":false}"}`, 200, `{"success":false}`, 400},
		{"object body", `{"body":{"success":true}}`, 200, `{"success":true}`, 200},
		{"null body", `{"success":true,"body":null}`, 200, `{"success":true,"body":null}`, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, st, err := unwrap([]byte(tc.raw), tc.status)
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if string(got) != tc.want || st != tc.wantSt {
				t.Fatalf("expected %s (%d), got %s (%d)", tc.want, tc.wantSt, got, st)
			}
		})
	}
	if _, _, err := unwrap([]byte(`{"body":42}`), 200); err == nil {
		t.Fatal("expected error for a numeric body")
	}
}
