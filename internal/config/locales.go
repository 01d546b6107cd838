package config

const (
	LangEN = "en"
	LangES = "es"
)

// SupportedLanguages lists the languages shipped with the binary.
func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

func isSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}
