package phone

import "strings"

type Validation struct {
	National string
	Valid    bool
	Kind     FailureKind
}

// Validate strips trunk zeros from nationalRaw and checks it against the
// grammars registered for dialCode.
func (r *Registry) Validate(dialCode, nationalRaw string) Validation {
	national := strings.TrimLeft(nationalRaw, "0")

	p, ok := r.Lookup(dialCode)
	if !ok {
		return Validation{National: national, Kind: KindUnsupportedCountry}
	}
	if !p.Accepts(national) {
		return Validation{National: national, Kind: KindInvalidNationalNumber}
	}
	return Validation{National: national, Valid: true}
}
