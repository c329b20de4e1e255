package action

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmehdipour/phone-engine/internal/phone"
)

type Intent string

const (
	IntentCall     Intent = "call"
	IntentWhatsApp Intent = "whatsapp"
	IntentCopy     Intent = "copy"
)

func (i Intent) String() string { return string(i) }

func (i Intent) Valid() bool {
	return i == IntentCall || i == IntentWhatsApp || i == IntentCopy
}

// ParseIntent normalizes input; returns (value, false) if unknown.
func ParseIntent(s string) (Intent, bool) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	return i, i.Valid()
}

const DefaultWhatsAppBaseURL = "https://wa.me"

var (
	ErrUnknownIntent        = errors.New("unknown phone action intent")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// Effect describes what a dispatch did. Number is the E.164 form when the
// engine accepted the input, else the normalized input; DialCode is set only
// in the first case.
type Effect struct {
	Intent   Intent `json:"intent"`
	Number   string `json:"number,omitempty"`
	DialCode string `json:"dial_code,omitempty"`
	URI      string `json:"uri,omitempty"`
	Copied   bool   `json:"copied"`
}

// Dispatcher turns a phone number and an intent into a platform action.
// It is the only component with side effects.
type Dispatcher struct {
	engine       *phone.Engine
	platform     Platform
	whatsAppBase string
}

func NewDispatcher(engine *phone.Engine, platform Platform, whatsAppBase string) *Dispatcher {
	if whatsAppBase == "" {
		whatsAppBase = DefaultWhatsAppBaseURL
	}
	return &Dispatcher{
		engine:       engine,
		platform:     platform,
		whatsAppBase: strings.TrimRight(whatsAppBase, "/"),
	}
}

// Dispatch performs intent for raw. Copy failures are reported through
// Effect.Copied and never returned as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string, intent Intent, message string) (Effect, error) {
	switch intent {
	case IntentCall:
		eff, err := d.dialable(raw, intent)
		if err != nil {
			return eff, err
		}
		eff.URI = "tel:" + eff.Number
		if err := d.platform.Open(ctx, eff.URI); err != nil {
			return eff, fmt.Errorf("open dialer: %w", err)
		}
		return eff, nil

	case IntentWhatsApp:
		eff, err := d.dialable(raw, intent)
		if err != nil {
			return eff, err
		}
		eff.URI = d.WhatsAppLink(eff.Number, message)
		if err := d.platform.Open(ctx, eff.URI); err != nil {
			return eff, fmt.Errorf("open whatsapp: %w", err)
		}
		return eff, nil

	case IntentCopy:
		// the clipboard gets the string as typed, even when it has no digits
		eff, _ := d.dialable(raw, intent)
		eff.Copied = d.platform.WriteClipboard(ctx, raw) == nil
		return eff, nil

	default:
		return Effect{Intent: intent}, fmt.Errorf("%q: %w", intent, ErrUnknownIntent)
	}
}

// WhatsAppLink builds a deep link for an already canonical number.
func (d *Dispatcher) WhatsAppLink(number, message string) string {
	link := d.whatsAppBase + "/" + strings.TrimPrefix(number, "+")
	if message != "" {
		link += "?text=" + encodeComponent(message)
	}
	return link
}

// dialable prefers the canonical E.164 form and falls back to the
// normalized input when the engine rejects it.
func (d *Dispatcher) dialable(raw string, intent Intent) (Effect, error) {
	if r := d.engine.Process(raw); r.IsValid {
		return Effect{Intent: intent, Number: r.FullNumber, DialCode: r.DialCode}, nil
	}
	n := phone.Normalize(raw)
	if strings.TrimPrefix(n, "+") == "" {
		return Effect{Intent: intent}, phone.ErrEmptyInput
	}
	return Effect{Intent: intent, Number: n}, nil
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
