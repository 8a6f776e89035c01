// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package libconfig

import "regexp"

var leadingZeros = regexp.MustCompile(`=\s*0+(\d+)\b`)

// FixLeadingZeros rewrites assignments of decimal integers with leading zeros,
// like "mnc = 001;", to "mnc = 1;". Such literals are accepted by some
// libconfig writers but rejected by Parse.
//
// The rewrite is textual and also applies inside string literals.
func FixLeadingZeros(src []byte) []byte {
	return leadingZeros.ReplaceAll(src, []byte("= $1"))
}
