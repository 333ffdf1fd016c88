package grid

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Translatable messages.
const (
	msgNoResults = "No results found."
	msgNotSet    = "(not set)"
	msgYes       = "Yes"
	msgNo        = "No"
)

var translations = map[language.Tag][4]string{
	language.German:             {"Keine Ergebnisse gefunden.", "(nicht gesetzt)", "Ja", "Nein"},
	language.French:             {"Aucun résultat trouvé.", "(non défini)", "Oui", "Non"},
	language.Spanish:            {"No se encontraron resultados.", "(no definido)", "Sí", "No"},
	language.Russian:            {"Ничего не найдено.", "(не задано)", "Да", "Нет"},
	language.BrazilianPortuguese: {"Nenhum resultado foi encontrado.", "(não definido)", "Sim", "Não"},
}

var supportedLanguages = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Russian,
	language.BrazilianPortuguese,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

func init() {
	for tag, tr := range translations {
		for i, key := range []string{msgNoResults, msgNotSet, msgYes, msgNo} {
			_ = message.SetString(tag, key, tr[i])
		}
	}
}

// parseLanguage resolves a BCP 47 tag to the closest supported language.
// Unparseable or empty input yields English.
func parseLanguage(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	_, idx, _ := languageMatcher.Match(tag)
	return supportedLanguages[idx]
}

// printer localizes messages and numbers.
type printer struct {
	*message.Printer
}

func newPrinter(tag language.Tag) printer {
	return printer{message.NewPrinter(tag)}
}

func (p printer) noResults() string { return p.Sprintf(msgNoResults) }
func (p printer) notSet() string    { return p.Sprintf(msgNotSet) }
func (p printer) yes() string       { return p.Sprintf(msgYes) }
func (p printer) no() string        { return p.Sprintf(msgNo) }
