// Package phone normalizes, validates and renders phone numbers of the
// supported Arab-region countries. Everything here is side-effect free and
// safe for concurrent use.
package phone

var defaultEngine = MustEngine(DefaultRegistry(), HomeDialCode, WithCarriers(LibyanCarriers()))

// Default returns the engine for the home market.
func Default() *Engine { return defaultEngine }

func ProcessPhoneNumber(text string) Result { return defaultEngine.Process(text) }

func FormatPhoneForDisplay(text string) string { return defaultEngine.FormatForDisplay(text) }

func GetFullPhoneNumber(text string) string { return defaultEngine.FullNumber(text) }

func IsValidHomeCountryPhone(text string) bool { return defaultEngine.IsValidHome(text) }

func MaskFirst7ThenXxx(text string) string { return defaultEngine.Mask(text) }

func ClassifyCarrier(text string) CarrierInfo { return defaultEngine.Classify(text) }
