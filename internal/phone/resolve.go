package phone

import "strings"

// Resolution is the outcome of matching a normalized number against the registry.
type Resolution struct {
	DialCode string
	National string
	// Matched is false when no registered code prefixed the digits and
	// DialCode is the fallback country.
	Matched bool
	// International is true when the normalized input carried a leading '+'.
	International bool
}

// Resolve splits normalized into a dial code and a national candidate using
// longest-prefix-first matching. On a miss the fallback code is assigned and
// the whole digit string becomes the national candidate.
func (r *Registry) Resolve(normalized, fallback string) Resolution {
	international := strings.HasPrefix(normalized, "+")
	digits := strings.TrimPrefix(normalized, "+")

	for _, code := range r.codes {
		cd := code[1:]
		if strings.HasPrefix(digits, cd) {
			return Resolution{
				DialCode:      code,
				National:      digits[len(cd):],
				Matched:       true,
				International: international,
			}
		}
	}

	return Resolution{DialCode: fallback, National: digits, International: international}
}
