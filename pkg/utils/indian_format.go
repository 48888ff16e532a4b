// Package utils holds formatting and date helpers shared by the CLI and API.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatINR formats an amount in rupees with Indian digit grouping,
// e.g. 1234567.891 → "₹12,34,567.89". Any finite amount is grouped in
// full; NaN and infinities are printed as-is.
func FormatINR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("₹%v", amount)
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, paise, _ := strings.Cut(s, ".")
	return fmt.Sprintf("%s₹%s.%s", sign, groupDigits(whole), paise)
}

// FormatINRCompact formats a rupee amount with a lakh/crore suffix,
// e.g. 1500000 → "₹15 L", 250000000 → "₹25 Cr".
func FormatINRCompact(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s₹%s L Cr", sign, trimDecimals(amount/1e12))
	case amount >= 1e7:
		return fmt.Sprintf("%s₹%s Cr", sign, trimDecimals(amount/1e7))
	case amount >= 1e5:
		return fmt.Sprintf("%s₹%s L", sign, trimDecimals(amount/1e5))
	case amount >= 1e3:
		return fmt.Sprintf("%s₹%s K", sign, trimDecimals(amount/1e3))
	}
	return fmt.Sprintf("%s₹%.2f", sign, amount)
}

// FormatCrores formats an AUM figure that is already in crores,
// e.g. 21548.32 → "₹21,548.32 Cr".
func FormatCrores(crores float64) string {
	return FormatINR(crores) + " Cr"
}

// FormatPct formats a percentage with an explicit sign: 2.45 → "+2.45%".
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatReturn formats a trailing return. Zero is shown as "N/A" since
// schemes younger than the period report 0.
func FormatReturn(pct float64) string {
	if pct == 0 {
		return "N/A"
	}
	return FormatPct(pct)
}

// groupDigits groups a string of digits as 12,34,567: the last three,
// then pairs.
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

// trimDecimals renders up to two decimals without trailing zeros.
func trimDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
