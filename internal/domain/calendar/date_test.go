package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-01-31", want: "2024-01-31"},
		{in: " 2024-12-01 ", want: "2024-12-01"},
		{in: "2024-03-05T23:10:00Z", want: "2024-03-05"},
		{in: "2024-02-30", wantErr: true},
		{in: "31/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		Date Date `json:"date"`
	}
	if err := json.Unmarshal([]byte(`{"due":null,"date":"2025-06-15"}`), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !payload.Due.IsZero() {
		t.Errorf("null should decode to zero Date, got %s", payload.Due)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"due":null,"date":"2025-06-15"}` {
		t.Errorf("Marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"date":20250615}`), &payload); err == nil {
		t.Error("numeric date should be rejected")
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 5, 6, 13, 0, 0, 0, time.FixedZone("WIB", 7*3600))); err != nil {
		t.Fatalf("Scan(time) failed: %v", err)
	}
	if d.String() != "2024-05-06" {
		t.Errorf("Scan(time) = %s, want 2024-05-06", d)
	}

	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan(nil) = %v, %v; want zero", d, err)
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
