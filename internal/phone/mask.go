package phone

import "strings"

const (
	// DefaultMaskFallback is rendered for the Libyan home market when
	// nothing can be salvaged.
	DefaultMaskFallback = "092xxxxxxx"

	maskSuffix = "xxx"
)

// Mask keeps the first RevealDigits digits of a home number's display form
// and redacts the rest as "xxx". Inputs that are invalid or foreign go
// through a salvage path; the result is never empty.
func (e *Engine) Mask(text string) string {
	reveal := e.home.RevealDigits

	r := e.Process(text)
	if r.IsValid && r.DialCode == e.home.DialCode {
		if m, ok := revealPrefix(digitsOnly(r.DisplayNumber), reveal); ok {
			return m
		}
	}

	if m, ok := revealPrefix(e.salvage(text), reveal); ok {
		return m
	}
	return e.maskFallback
}

// MaskAny masks a valid number of any registered country with that
// country's reveal length; everything else goes through Mask.
func (e *Engine) MaskAny(text string) string {
	r := e.Process(text)
	if !r.IsValid {
		return e.Mask(text)
	}
	p, _ := e.registry.Lookup(r.DialCode)
	if p.DialCode == e.home.DialCode {
		p = e.home
	}
	if m, ok := revealPrefix(r.DisplayNumber, p.RevealDigits); ok {
		return m
	}
	return e.Mask(text)
}

// salvage strips raw to digits, drops a home international prefix and
// forces a single trunk zero.
func (e *Engine) salvage(raw string) string {
	d := digitsOnly(raw)
	code := e.home.Digits()
	switch {
	case strings.HasPrefix(d, "00"+code):
		d = d[2+len(code):]
	case strings.HasPrefix(d, code):
		d = d[len(code):]
	}
	return "0" + strings.TrimLeft(d, "0")
}

func revealPrefix(digits string, n int) (string, bool) {
	if n <= 0 || len(digits) < n {
		return "", false
	}
	return digits[:n] + maskSuffix, true
}

// fallbackFor shapes a placeholder like a display number of p: trunk zero,
// the first leading digits of its first grammar, the rest redacted.
func fallbackFor(p CountryDialProfile) string {
	if p.DialCode == HomeDialCode || len(p.Grammars) == 0 {
		return DefaultMaskFallback
	}
	g := p.Grammars[0]
	lead := ""
	if len(g.Leading) > 0 {
		lead = g.Leading[0]
	}
	return "0" + lead + strings.Repeat("x", g.Trailing)
}
