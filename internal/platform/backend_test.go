package platform

import "testing"

func TestLogicalPhysicalConversion(t *testing.T) {
	tests := []struct {
		px    int
		scale float64
		want  float64
	}{
		{0, 1, 0},
		{-180, 1, -180},
		{-360, 2, -180},
		{270, 1.5, 180},
		{100, 0, 100},
	}
	for _, tt := range tests {
		got := ToLogical(tt.px, tt.scale)
		if got != tt.want {
			t.Errorf("ToLogical(%d, %v) = %v, want %v", tt.px, tt.scale, got, tt.want)
		}
		if back := ToPhysical(got, tt.scale); back != tt.px {
			t.Errorf("ToPhysical(%v, %v) = %d, want %d", got, tt.scale, back, tt.px)
		}
	}
}

func TestToPhysical_Rounds(t *testing.T) {
	if got := ToPhysical(-143.6, 1); got != -144 {
		t.Fatalf("ToPhysical(-143.6) = %d, want -144", got)
	}
	if got := ToPhysical(36.75, 1.25); got != 46 {
		t.Fatalf("ToPhysical(36.75, 1.25) = %d, want 46", got)
	}
}

func TestParseSamplerKind(t *testing.T) {
	for in, want := range map[string]SamplerKind{"": SamplerRoot, "root": SamplerRoot, "window": SamplerWindow} {
		got, err := ParseSamplerKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSamplerKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSamplerKind("cursor"); err == nil {
		t.Error("expected error for unknown sampler")
	}
}

func TestBoundsLeftCenter(t *testing.T) {
	m := Bounds{X: 0, Y: 360, Width: 1920, Height: 1080}

	got := m.LeftCenter(-180, 180, 800)
	want := Bounds{X: -180, Y: 500, Width: 180, Height: 800}
	if got != want {
		t.Fatalf("LeftCenter() = %+v, want %+v", got, want)
	}

	// A panel taller than the monitor sticks out evenly.
	got = Bounds{Height: 700}.LeftCenter(0, 180, 800)
	if got.Y != -50 {
		t.Fatalf("LeftCenter().Y = %v, want -50", got.Y)
	}
}
