// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// IntToString converts an int to its decimal string form.
func IntToString(n int) string {
	return strconv.Itoa(n)
}

// Int64ToString converts an int64 to its decimal string form.
func Int64ToString(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FloatToString formats a float with one decimal place.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// FloatToStringPrec formats a float with the given number of decimal places.
func FloatToStringPrec(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
