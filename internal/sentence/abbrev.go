package sentence

// English token tables used by the boundary detector. Tokens are stored
// lowercase without their trailing period.

var englishAbbreviations = map[string]bool{
	// Titles.
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"rev": true, "hon": true, "gen": true, "sen": true, "rep": true,
	"sgt": true, "capt": true, "lt": true, "col": true, "st": true,
	"sr": true, "jr": true,
	// Latin and editorial.
	"etc": true, "vs": true, "cf": true, "al": true, "ca": true,
	"e.g": true, "i.e": true, "viz": true, "ibid": true,
	// Units and references.
	"no": true, "nos": true, "vol": true, "vols": true, "fig": true,
	"figs": true, "pp": true, "p": true, "approx": true, "est": true,
	"sec": true, "ch": true, "ed": true, "eds": true,
	// Organizations.
	"inc": true, "ltd": true, "llc": true, "corp": true, "co": true,
	"univ": true, "assn": true, "dept": true, "gov": true, "org": true,
	// Months and days commonly abbreviated in running text.
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
	"nov": true, "dec": true, "mon": true, "tue": true, "wed": true,
	"thu": true, "fri": true, "sat": true, "sun": true,
}

// englishStarters are lowercase words that commonly open a sentence.
// They let a boundary through even when the following text is not
// capitalized (transcripts, informal prose).
var englishStarters = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "he": true, "she": true,
	"they": true, "we": true, "i": true, "you": true, "there": true,
	"however": true, "therefore": true, "moreover": true,
	"furthermore": true, "meanwhile": true, "nevertheless": true,
	"also": true, "then": true, "so": true, "yet": true, "still": true,
	"finally": true, "first": true, "second": true, "next": true,
	"instead": true, "additionally": true, "consequently": true,
}

// supportedLanguages are the tags accepted by NewSplitter and by
// chunking config validation. "auto" resolves to English rules.
var supportedLanguages = map[string]bool{
	"auto": true,
	"en":   true,
}

// Supported reports whether lang is a recognized language tag.
func Supported(lang string) bool {
	return supportedLanguages[lang]
}
