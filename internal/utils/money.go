package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TruncateMoney drops everything past two decimals without rounding. The small
// bias absorbs binary representation error such as 0.29*100 = 28.999...
func TruncateMoney(amount float64) float64 {
	if amount < 0 {
		return -TruncateMoney(-amount)
	}
	return math.Trunc(amount*100+1e-7) / 100
}

// FormatRupiah renders amount with thousand separators, e.g. Rp2.760,50.
func FormatRupiah(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(TruncateMoney(amount) * 100))
	whole, frac := cents/100, cents%100
	out := fmt.Sprintf("%sRp%s", sign, formatThousand(whole))
	if frac != 0 {
		out += fmt.Sprintf(",%02d", frac)
	}
	return out
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
