// Package classifier decides whether a general-ledger account number belongs
// to a set of SYSCOHADA prefixes. Account numbers appear in two textual
// formats in the wild: a plain digit string ("521000") and a padded,
// suffixed form ("0000279-01") where only the middle digits carry meaning.
// All prefix matching in the engine goes through this package.
package classifier

import "strings"

const suffixSeparator = "-"

// Normalize extracts the semantically meaningful prefix string from an
// account number. For the suffixed form the part after the separator is
// discarded; a literal "0000" padding is stripped exactly, any other
// leading zeros entirely. Plain account numbers pass through unchanged.
func Normalize(accountNumber string) string {
	if !strings.Contains(accountNumber, suffixSeparator) {
		return accountNumber
	}
	candidate := accountNumber[:strings.Index(accountNumber, suffixSeparator)]
	if strings.HasPrefix(candidate, "0000") {
		return candidate[4:]
	}
	return strings.TrimLeft(candidate, "0")
}

// Matches reports whether the account number, once normalized, starts with
// any of the given prefixes. The test is a plain string-prefix comparison,
// so "521000" matches "52" and "521" but never "53". An empty prefix set
// never matches, and neither does an account number that normalizes to the
// empty string.
func Matches(accountNumber string, prefixes []string) bool {
	candidate := Normalize(accountNumber)
	if candidate == "" {
		return false
	}
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(candidate, p) {
			return true
		}
	}
	return false
}
