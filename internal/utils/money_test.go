package utils

import (
	"fmt"
	"testing"
)

func TestTruncateMoney(t *testing.T) {
	cases := map[float64]string{
		2760:      "2760.00",
		10.999:    "10.99",
		0.015:     "0.01",
		0.29:      "0.29",
		1234.5678: "1234.56",
	}
	for in, want := range cases {
		if got := fmt.Sprintf("%.2f", TruncateMoney(in)); got != want {
			t.Errorf("TruncateMoney(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(2760); got != "Rp2.760" {
		t.Fatalf("got %s", got)
	}
	if got := FormatRupiah(1250000.5); got != "Rp1.250.000,50" {
		t.Fatalf("got %s", got)
	}
	if got := FormatRupiah(-1500); got != "-Rp1.500" {
		t.Fatalf("got %s", got)
	}
}
