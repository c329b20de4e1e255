package phone

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrDuplicateDialCode = errors.New("duplicate dial code")
	ErrMalformedDialCode = errors.New("malformed dial code")
	ErrEmptyGrammar      = errors.New("grammar has no leading group")
)

var dialCodeRe = regexp.MustCompile(`^\+[1-9]\d{0,3}$`)

// DefaultRevealDigits is how many leading digits Mask keeps visible.
const DefaultRevealDigits = 7

// Grammar describes one range of valid national significant numbers:
// one of Leading followed by exactly Trailing digits.
type Grammar struct {
	Leading  []string
	Trailing int

	re *regexp.Regexp
}

// NewGrammar compiles a full-string grammar, e.g. NewGrammar(7, "91", "92").
func NewGrammar(trailing int, leading ...string) (Grammar, error) {
	if len(leading) == 0 {
		return Grammar{}, ErrEmptyGrammar
	}
	alts := make([]string, 0, len(leading))
	for _, l := range leading {
		if l == "" || strings.Trim(l, "0123456789") != "" {
			return Grammar{}, fmt.Errorf("leading group %q: %w", l, ErrEmptyGrammar)
		}
		alts = append(alts, regexp.QuoteMeta(l))
	}
	re, err := regexp.Compile(`^(?:` + strings.Join(alts, "|") + `)\d{` + strconv.Itoa(trailing) + `}$`)
	if err != nil {
		return Grammar{}, err
	}
	return Grammar{Leading: leading, Trailing: trailing, re: re}, nil
}

func MustGrammar(trailing int, leading ...string) Grammar {
	g, err := NewGrammar(trailing, leading...)
	if err != nil {
		panic(err)
	}
	return g
}

// Match reports whether national matches the grammar exactly.
func (g Grammar) Match(national string) bool {
	return g.re != nil && g.re.MatchString(national)
}

func (g Grammar) String() string {
	if g.re == nil {
		return ""
	}
	return g.re.String()
}

// CountryDialProfile is one registered calling code.
type CountryDialProfile struct {
	DialCode     string
	CountryName  string
	Region       string // ISO 3166-1 alpha-2
	Grammars     []Grammar
	RevealDigits int
}

// Digits returns the dial code without its leading '+'.
func (p CountryDialProfile) Digits() string { return strings.TrimPrefix(p.DialCode, "+") }

// Accepts reports whether any grammar matches national in full.
func (p CountryDialProfile) Accepts(national string) bool {
	for _, g := range p.Grammars {
		if g.Match(national) {
			return true
		}
	}
	return false
}

// Registry is a read-only table of dial profiles. Safe for concurrent use.
type Registry struct {
	byCode map[string]CountryDialProfile
	codes  []string // longest first
}

func NewRegistry(profiles ...CountryDialProfile) (*Registry, error) {
	r := &Registry{byCode: make(map[string]CountryDialProfile, len(profiles))}
	for _, p := range profiles {
		if !dialCodeRe.MatchString(p.DialCode) {
			return nil, fmt.Errorf("%q: %w", p.DialCode, ErrMalformedDialCode)
		}
		if _, ok := r.byCode[p.DialCode]; ok {
			return nil, fmt.Errorf("%q: %w", p.DialCode, ErrDuplicateDialCode)
		}
		if p.RevealDigits <= 0 {
			p.RevealDigits = DefaultRevealDigits
		}
		if p.Region == "" {
			p.Region = regionFor(p.DialCode)
		}
		r.byCode[p.DialCode] = p
		r.codes = append(r.codes, p.DialCode)
	}

	sort.Slice(r.codes, func(i, j int) bool {
		if len(r.codes[i]) != len(r.codes[j]) {
			return len(r.codes[i]) > len(r.codes[j])
		}
		return r.codes[i] < r.codes[j]
	})
	return r, nil
}

func MustRegistry(profiles ...CountryDialProfile) *Registry {
	r, err := NewRegistry(profiles...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the profile registered for dialCode ("+218").
func (r *Registry) Lookup(dialCode string) (CountryDialProfile, bool) {
	p, ok := r.byCode[dialCode]
	return p, ok
}

// Codes returns the registered dial codes ordered by digit length descending.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

func (r *Registry) Len() int { return len(r.codes) }

// regionFor asks libphonenumber metadata for the main region of a calling code.
func regionFor(dialCode string) string {
	cc, err := strconv.Atoi(strings.TrimPrefix(dialCode, "+"))
	if err != nil {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(cc)
	if region == phonenumbers.UNKNOWN_REGION {
		return ""
	}
	return region
}
