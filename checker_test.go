package artboard

import "testing"

func TestBackgroundLookup(t *testing.T) {
	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "darker"},
		{7, 7, "darker"},
		{8, 0, "lighter"},
		{0, 8, "lighter"},
		{8, 8, "darker"},
		{16, 0, "darker"},
		{23, 15, "lighter"},
	}
	for _, tt := range tests {
		want := LighterChecker
		if tt.want == "darker" {
			want = DarkerChecker
		}
		if got := BackgroundLookup(tt.x, tt.y, 8); got != want {
			t.Errorf("BackgroundLookup(%d, %d, 8) = %v, want %s", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestBackgroundLookup_Periodic(t *testing.T) {
	for _, size := range []int{1, 3, 8} {
		for y := range 4 * size {
			for x := range 4 * size {
				a := BackgroundLookup(x, y, size)
				if b := BackgroundLookup(x+2*size, y, size); a != b {
					t.Fatalf("size %d: not periodic along x at (%d, %d)", size, x, y)
				}
				if b := BackgroundLookup(x, y+2*size, size); a != b {
					t.Fatalf("size %d: not periodic along y at (%d, %d)", size, x, y)
				}
				if b := BackgroundLookup(x+size, y, size); a == b {
					t.Fatalf("size %d: neighbors along x match at (%d, %d)", size, x, y)
				}
				if b := BackgroundLookup(x, y+size, size); a == b {
					t.Fatalf("size %d: neighbors along y match at (%d, %d)", size, x, y)
				}
			}
		}
	}
}

func TestBoard_SetCheckerSize(t *testing.T) {
	b := MustNewBoard(16, 16)
	b.AddVisualLayer("Ink")
	if err := b.Paint(rect(0, 0, 1, 1), Red); err != nil {
		t.Fatal(err)
	}
	if err := b.SetCheckerSize(4); err != nil {
		t.Fatal(err)
	}
	if b.CheckerSize() != 4 {
		t.Errorf("CheckerSize() = %d, want 4", b.CheckerSize())
	}
	if l, _ := b.LookupAt(4, 0); l != LighterChecker {
		t.Errorf("(4, 0) = %v, want lighter block after resize", l)
	}
	mustVerify(t, b)
	if err := b.SetCheckerSize(0); err == nil {
		t.Error("SetCheckerSize(0) succeeded")
	}
}
