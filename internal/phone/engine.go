package phone

import (
	"fmt"
	"strings"
)

// Engine runs the normalize -> resolve -> validate -> canonicalize pipeline
// for one home market. Engines are immutable and safe for concurrent use.
type Engine struct {
	registry     *Registry
	home         CountryDialProfile
	maskFallback string
	carriers     CarrierTable
	strict       bool
}

type Option func(*Engine)

// WithMaskFallback overrides the placeholder returned by Mask when nothing
// can be salvaged from the input.
func WithMaskFallback(s string) Option {
	return func(e *Engine) {
		if s != "" {
			e.maskFallback = s
		}
	}
}

// WithCarriers sets the home-country carrier prefix table.
func WithCarriers(t CarrierTable) Option {
	return func(e *Engine) { e.carriers = t }
}

// WithStrictCountry makes a '+'-prefixed number with an unregistered dial
// code fail as unsupported instead of being validated as a home number.
func WithStrictCountry(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// WithRevealDigits overrides how many leading digits Mask reveals for home
// numbers. Non-positive values keep the registry's setting.
func WithRevealDigits(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.home.RevealDigits = n
		}
	}
}

func NewEngine(reg *Registry, homeDialCode string, opts ...Option) (*Engine, error) {
	home, ok := reg.Lookup(homeDialCode)
	if !ok {
		return nil, fmt.Errorf("home %q: %w", homeDialCode, ErrUnsupportedCountry)
	}
	e := &Engine{
		registry:     reg,
		home:         home,
		maskFallback: fallbackFor(home),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func MustEngine(reg *Registry, homeDialCode string, opts ...Option) *Engine {
	e, err := NewEngine(reg, homeDialCode, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Registry() *Registry      { return e.registry }
func (e *Engine) Home() CountryDialProfile { return e.home }
func (e *Engine) Strict() bool             { return e.strict }
func (e *Engine) MaskFallback() string     { return e.maskFallback }

// Process runs the full pipeline on free text.
func (e *Engine) Process(text string) Result {
	normalized := Normalize(text)
	if strings.TrimPrefix(normalized, "+") == "" {
		return e.registry.Canonicalize("", "", false)
	}

	res := e.registry.Resolve(normalized, e.home.DialCode)
	// "+0…" is a stray plus on a trunk-prefixed number, not a dial code
	if e.strict && res.International && !res.Matched && !strings.HasPrefix(res.National, "0") {
		return Result{Error: msgUnsupported, Kind: KindUnsupportedCountry}
	}

	v := e.registry.Validate(res.DialCode, res.National)
	return e.registry.Canonicalize(res.DialCode, v.National, v.Valid)
}

// FormatForDisplay returns the local display form or text unchanged when invalid.
func (e *Engine) FormatForDisplay(text string) string {
	r := e.Process(text)
	if !r.IsValid {
		return text
	}
	return r.DisplayNumber
}

// FullNumber returns the E.164 form or "".
func (e *Engine) FullNumber(text string) string {
	return e.Process(text).FullNumber
}

// IsValidHome reports whether text is a valid number of the home country.
func (e *Engine) IsValidHome(text string) bool {
	r := e.Process(text)
	return r.IsValid && r.DialCode == e.home.DialCode
}
