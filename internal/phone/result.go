package phone

import (
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrEmptyInput            = errors.New("empty phone input")
	ErrUnsupportedCountry    = errors.New("unsupported country")
	ErrInvalidNationalNumber = errors.New("invalid national number")
)

const (
	msgEmptyInput  = "يرجى إدخال رقم الهاتف"
	msgUnsupported = "رمز الدولة غير مدعوم"
)

type FailureKind string

const (
	KindNone                  FailureKind = ""
	KindEmptyInput            FailureKind = "empty_input"
	KindUnsupportedCountry    FailureKind = "unsupported_country"
	KindInvalidNationalNumber FailureKind = "invalid_national_number"
)

func (k FailureKind) String() string { return string(k) }

// Result is the immutable output of one processing call.
type Result struct {
	IsValid       bool        `json:"isValid"`
	CleanNumber   string      `json:"cleanNumber"`
	FullNumber    string      `json:"fullNumber"`
	DisplayNumber string      `json:"displayNumber"`
	Error         string      `json:"error,omitempty"`
	DialCode      string      `json:"dialCode,omitempty"`
	Kind          FailureKind `json:"kind,omitempty"`
}

// Err maps a failed result to a wrapped sentinel error; nil when valid.
func (r Result) Err() error {
	switch r.Kind {
	case KindNone:
		if r.IsValid {
			return nil
		}
		return ErrInvalidNationalNumber
	case KindEmptyInput:
		return ErrEmptyInput
	case KindUnsupportedCountry:
		if r.DialCode == "" {
			return ErrUnsupportedCountry
		}
		return fmt.Errorf("dial code %s: %w", r.DialCode, ErrUnsupportedCountry)
	default:
		return fmt.Errorf("dial code %s: %w", r.DialCode, ErrInvalidNationalNumber)
	}
}

// International renders a valid number in libphonenumber's international
// layout ("+218 92-6183185"). Falls back to FullNumber.
func (r Result) International() string {
	if !r.IsValid {
		return ""
	}
	num, err := phonenumbers.Parse(r.FullNumber, "")
	if err != nil {
		return r.FullNumber
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

// Canonicalize assembles the result for a validated national number.
// It never fails: invalid input yields a negative result with a message.
func (r *Registry) Canonicalize(dialCode, national string, isValid bool) Result {
	if dialCode == "" {
		return Result{Error: msgEmptyInput, Kind: KindEmptyInput}
	}

	p, ok := r.Lookup(dialCode)
	if !ok {
		return Result{Error: msgUnsupported + " " + dialCode, DialCode: dialCode, Kind: KindUnsupportedCountry}
	}
	if !isValid || national == "" {
		return Result{
			Error:    fmt.Sprintf("رقم الهاتف غير صالح لدولة %s", p.CountryName),
			DialCode: dialCode,
			Kind:     KindInvalidNationalNumber,
		}
	}

	return Result{
		IsValid:       true,
		CleanNumber:   national,
		FullNumber:    dialCode + national,
		DisplayNumber: "0" + national,
		DialCode:      dialCode,
	}
}
