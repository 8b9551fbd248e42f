package main

import "testing"

func TestParseGrid(t *testing.T) {
	tests := []struct {
		spec    string
		name    string
		n       int
		wantErr bool
	}{
		{"friction=0.1:0.9:5", "friction", 5, false},
		{"density=100:100:1", "density", 1, false},
		{"friction", "", 0, true},
		{"friction=0.1:0.9", "", 0, true},
		{"friction=a:0.9:3", "", 0, true},
		{"friction=0.1:0.9:x", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, vals, err := parseGrid(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.name || len(vals) != tt.n {
				t.Errorf("got %s with %d values", name, len(vals))
			}
		})
	}
}
