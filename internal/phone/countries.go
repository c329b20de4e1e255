package phone

// HomeDialCode is the platform's home market (Libya).
const HomeDialCode = "+218"

// arabProfiles lists the 21 supported Arab-region calling codes with their
// mobile numbering ranges.
func arabProfiles() []CountryDialProfile {
	return []CountryDialProfile{
		{DialCode: "+218", CountryName: "ليبيا", Grammars: []Grammar{MustGrammar(7, "91", "92", "93", "94", "95")}},
		{DialCode: "+20", CountryName: "مصر", Grammars: []Grammar{MustGrammar(8, "10", "11", "12", "15")}},
		{DialCode: "+216", CountryName: "تونس", Grammars: []Grammar{MustGrammar(7, "2", "4", "5", "9")}},
		{DialCode: "+213", CountryName: "الجزائر", Grammars: []Grammar{MustGrammar(8, "5", "6", "7")}},
		{DialCode: "+212", CountryName: "المغرب", Grammars: []Grammar{MustGrammar(8, "6", "7")}},
		{DialCode: "+249", CountryName: "السودان", Grammars: []Grammar{MustGrammar(7, "90", "91", "92", "96", "99", "11", "12")}},
		{DialCode: "+966", CountryName: "السعودية", Grammars: []Grammar{MustGrammar(8, "5")}},
		{DialCode: "+971", CountryName: "الإمارات", Grammars: []Grammar{MustGrammar(7, "50", "52", "54", "55", "56", "58")}},
		{DialCode: "+965", CountryName: "الكويت", Grammars: []Grammar{MustGrammar(7, "5", "6", "9")}},
		{DialCode: "+974", CountryName: "قطر", Grammars: []Grammar{MustGrammar(7, "3", "5", "6", "7")}},
		{DialCode: "+973", CountryName: "البحرين", Grammars: []Grammar{MustGrammar(7, "3", "6")}},
		{DialCode: "+968", CountryName: "عُمان", Grammars: []Grammar{MustGrammar(7, "7", "9")}},
		{DialCode: "+962", CountryName: "الأردن", Grammars: []Grammar{MustGrammar(7, "77", "78", "79")}},
		{DialCode: "+961", CountryName: "لبنان", Grammars: []Grammar{
			MustGrammar(6, "3"),
			MustGrammar(6, "70", "71", "76", "78", "79", "81"),
		}, RevealDigits: 5},
		{DialCode: "+963", CountryName: "سوريا", Grammars: []Grammar{MustGrammar(8, "9")}},
		{DialCode: "+964", CountryName: "العراق", Grammars: []Grammar{MustGrammar(8, "75", "77", "78", "79")}},
		{DialCode: "+967", CountryName: "اليمن", Grammars: []Grammar{MustGrammar(7, "70", "71", "73", "77", "78")}},
		{DialCode: "+970", CountryName: "فلسطين", Grammars: []Grammar{MustGrammar(7, "56", "59")}},
		{DialCode: "+222", CountryName: "موريتانيا", Grammars: []Grammar{MustGrammar(7, "2", "3", "4")}},
		{DialCode: "+252", CountryName: "الصومال", Grammars: []Grammar{MustGrammar(7, "61", "62", "63", "65", "68", "69", "71", "77", "90")}},
		{DialCode: "+253", CountryName: "جيبوتي", Grammars: []Grammar{MustGrammar(6, "77")}},
	}
}

var defaultRegistry = MustRegistry(arabProfiles()...)

// DefaultRegistry returns the process-wide registry of supported countries.
func DefaultRegistry() *Registry { return defaultRegistry }
