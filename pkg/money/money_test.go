package money

import "testing"

func TestFormatShouldRenderTwoDecimals(t *testing.T) {
	cases := []struct {
		cents  int64
		symbol string
		want   string
	}{
		{31500, "$", "$315.00"},
		{15000, "$", "$150.00"},
		{46500, "$", "$465.00"},
		{0, "$", "$0.00"},
		{5, "$", "$0.05"},
		{99, "$", "$0.99"},
		{100, "$", "$1.00"},
		{123456789, "$", "$1234567.89"},
		{2500, "€", "€25.00"},
	}

	for _, c := range cases {
		got := Format(c.cents, c.symbol)
		if got != c.want {
			t.Errorf("Format(%d, %q) = %q, want %q", c.cents, c.symbol, got, c.want)
		}
	}
}

func TestFormatShouldPlaceSignBeforeSymbol(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{-50000, "-$500.00"},
		{-1, "-$0.01"},
		{-99, "-$0.99"},
		{-100, "-$1.00"},
	}

	for _, c := range cases {
		got := Format(c.cents, "$")
		if got != c.want {
			t.Errorf("Format(%d) = %q, want %q", c.cents, got, c.want)
		}
	}
}
