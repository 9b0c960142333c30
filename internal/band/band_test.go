package band

import "testing"

func TestFromCorrect_Boundaries(t *testing.T) {
	tests := []struct {
		correct int
		want    Band
	}{
		{40, 9.0},
		{39, 9.0},
		{38, 8.5},
		{37, 8.5},
		{36, 8.0},
		{35, 8.0},
		{34, 7.5},
		{32, 7.5},
		{31, 7.0},
		{30, 7.0},
		{29, 6.5},
		{26, 6.5},
		{25, 6.0},
		{23, 6.0},
		{22, 5.5},
		{18, 5.5},
		{17, 5.0},
		{16, 5.0},
		{15, 4.5},
		{13, 4.5},
		{12, 4.0},
		{10, 4.0},
		{9, 3.5},
		{0, 3.5},
		{-3, 3.5},
		{55, 9.0},
	}

	for _, tc := range tests {
		if got := FromCorrect(tc.correct); got != tc.want {
			t.Errorf("FromCorrect(%d) = %v, want %v", tc.correct, got, tc.want)
		}
	}
}

func TestFromCorrect_Monotonic(t *testing.T) {
	prev := FromCorrect(0)
	for n := 1; n <= MaxCorrect; n++ {
		got := FromCorrect(n)
		if got < prev {
			t.Fatalf("FromCorrect(%d) = %v < FromCorrect(%d) = %v", n, got, n-1, prev)
		}
		prev = got
	}
}

func TestBand_String(t *testing.T) {
	if got := Band(6.5).String(); got != "6.5" {
		t.Errorf("String = %q, want 6.5", got)
	}
	if got := Band(9).String(); got != "9.0" {
		t.Errorf("String = %q, want 9.0", got)
	}
}
