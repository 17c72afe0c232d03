package numeric

import "testing"

func TestParseFixed64RoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"1", "1"},
		{"-1", "-1"},
		{"1.5", "1.5"},
		{"-1.5", "-1.5"},
		{"0.25", "0.25"},
		{"100.100", "100.1000000000931322574615478515625"},
		{"-0.5", "-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFixed64(tt.input)
			if err != nil {
				t.Fatalf("ParseFixed64(%q) error: %v", tt.input, err)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("ParseFixed64(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFixed64RoundingBoundary(t *testing.T) {
	// 0.5 is exactly representable (raw 2^31), so parsing applies no rounding.
	half, err := ParseFixed64("0.5")
	if err != nil {
		t.Fatal(err)
	}
	if half.raw != 1<<31 {
		t.Errorf("0.5 raw = %d, want %d", half.raw, int64(1)<<31)
	}
}

// TestRoundEvenBankersRounding verifies property 4 from spec §8.
func TestRoundEvenBankersRounding(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0.5", 0},
		{"1.5", 2},
		{"-0.5", 0},
		{"-1.5", -2},
	}
	for _, tt := range tests {
		f, err := ParseFixed64(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		got := f.RoundEven().IntPart()
		if got != tt.want {
			t.Errorf("RoundEven(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAddSubIdentity(t *testing.T) {
	// Property 3: for equal dims, (a+b)-b == a exactly.
	a := FromI64(7)
	b, _ := ParseFixed64("3.25")
	sum := a.Add(b)
	back := sum.Sub(b)
	if !back.Equal(a) {
		t.Errorf("(a+b)-b = %v, want %v", back, a)
	}
}

func TestMulDivPrecision(t *testing.T) {
	a, _ := ParseFixed64("1.1")
	b := FromI64(3)
	prod := a.Mul(b)
	back, err := prod.Div(b)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != "1.1000000000931322574615478515625" {
		t.Errorf("(a*b)/b = %s, want 1.1000000000931322574615478515625", back.String())
	}
}

func TestDivByZero(t *testing.T) {
	a := FromI64(1)
	_, err := a.Div(Zero)
	if err != ErrDivisionByZero {
		t.Errorf("Div by zero error = %v, want ErrDivisionByZero", err)
	}
}

func TestSaturatingAdd(t *testing.T) {
	max := FromRawI64(1<<63 - 1)
	one := FromRawI64(1)
	got := max.Add(one)
	if got.raw != 1<<63-1 {
		t.Errorf("saturating add = %d, want max int64", got.raw)
	}
}

func TestPowi(t *testing.T) {
	two := FromI64(2)
	cube, err := two.Powi(3)
	if err != nil {
		t.Fatal(err)
	}
	if cube.String() != "8" {
		t.Errorf("2^3 = %s, want 8", cube.String())
	}

	recip, err := two.Powi(-1)
	if err != nil {
		t.Fatal(err)
	}
	if recip.String() != "0.5" {
		t.Errorf("2^-1 = %s, want 0.5", recip.String())
	}
}

func TestSqrtEvenDimOnly(t *testing.T) {
	four := FromI64(4)
	root, err := four.Sqrt()
	if err != nil {
		t.Fatal(err)
	}
	if root.String() != "2" {
		t.Errorf("sqrt(4) = %s, want 2", root.String())
	}
}
