package qrc

import "strconv"

// Country is a QLocale::Country value qualifying a resource file.
type Country uint16

// Language is a QLocale::Language value qualifying a resource file.
type Language uint16

// Common QLocale values. Files without a qualifier use CountryAnyCountry and
// LanguageC.
const (
	CountryAnyCountry    Country = 0
	CountryBrazil        Country = 30
	CountryCanada        Country = 38
	CountryChina         Country = 44
	CountryFrance        Country = 74
	CountryGermany       Country = 82
	CountryItaly         Country = 106
	CountryJapan         Country = 108
	CountryRussia        Country = 178
	CountrySpain         Country = 197
	CountryUnitedKingdom Country = 224
	CountryUnitedStates  Country = 225

	LanguageAnyLanguage Language = 0
	LanguageC           Language = 1
	LanguageChinese     Language = 25
	LanguageDutch       Language = 30
	LanguageEnglish     Language = 31
	LanguageFrench      Language = 37
	LanguageGerman      Language = 42
	LanguageItalian     Language = 58
	LanguageJapanese    Language = 59
	LanguagePortuguese  Language = 91
	LanguageRussian     Language = 96
	LanguageSpanish     Language = 111
)

var countryNames = map[Country]string{
	CountryAnyCountry:    "AnyCountry",
	CountryBrazil:        "Brazil",
	CountryCanada:        "Canada",
	CountryChina:         "China",
	CountryFrance:        "France",
	CountryGermany:       "Germany",
	CountryItaly:         "Italy",
	CountryJapan:         "Japan",
	CountryRussia:        "Russia",
	CountrySpain:         "Spain",
	CountryUnitedKingdom: "UnitedKingdom",
	CountryUnitedStates:  "UnitedStates",
}

var languageNames = map[Language]string{
	LanguageAnyLanguage: "AnyLanguage",
	LanguageC:           "C",
	LanguageChinese:     "Chinese",
	LanguageDutch:       "Dutch",
	LanguageEnglish:     "English",
	LanguageFrench:      "French",
	LanguageGerman:      "German",
	LanguageItalian:     "Italian",
	LanguageJapanese:    "Japanese",
	LanguagePortuguese:  "Portuguese",
	LanguageRussian:     "Russian",
	LanguageSpanish:     "Spanish",
}

func (c Country) String() string {
	if s, ok := countryNames[c]; ok {
		return s
	}
	return "Country(" + strconv.Itoa(int(c)) + ")"
}

func (l Language) String() string {
	if s, ok := languageNames[l]; ok {
		return s
	}
	return "Language(" + strconv.Itoa(int(l)) + ")"
}

// unqualified reports whether a file node applies to every locale.
func unqualified(c Country, l Language) bool {
	return c == CountryAnyCountry && (l == LanguageC || l == LanguageAnyLanguage)
}
