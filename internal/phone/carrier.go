package phone

import "strings"

const prefixLen = 2

type CarrierInfo struct {
	CarrierName string `json:"carrierName"`
	BrandColor  string `json:"brandColor"`
}

// UnknownCarrier is returned when no operator owns the prefix.
var UnknownCarrier = CarrierInfo{CarrierName: "غير معروف", BrandColor: "#9E9E9E"}

// CarrierTable maps a 2-digit subscriber prefix to its operator.
type CarrierTable map[string]CarrierInfo

var (
	almadar = CarrierInfo{CarrierName: "المدار الجديد", BrandColor: "#F39200"}
	libyana = CarrierInfo{CarrierName: "ليبيانا", BrandColor: "#8E2C88"}
	ltt     = CarrierInfo{CarrierName: "ليبيا للاتصالات والتقنية", BrandColor: "#005BAA"}
)

// LibyanCarriers is the operator table for the home market.
func LibyanCarriers() CarrierTable {
	return CarrierTable{
		"91": almadar,
		"93": almadar,
		"92": libyana,
		"94": libyana,
		"95": ltt,
	}
}

// Classify looks up the operator of a home-country number by the two
// digits that follow the dial code. Foreign numbers are unknown.
func (e *Engine) Classify(text string) CarrierInfo {
	normalized := Normalize(text)
	if strings.TrimPrefix(normalized, "+") == "" {
		return UnknownCarrier
	}

	res := e.registry.Resolve(normalized, e.home.DialCode)
	if res.DialCode != e.home.DialCode {
		return UnknownCarrier
	}

	national := strings.TrimLeft(res.National, "0")
	if len(national) < prefixLen {
		return UnknownCarrier
	}
	if info, ok := e.carriers[national[:prefixLen]]; ok {
		return info
	}
	return UnknownCarrier
}
