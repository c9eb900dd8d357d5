package engine

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// textHint picks a generator for character columns whose name contains one
// of the keywords.
type textHint struct {
	keywords []string
	gen      func(*gofakeit.Faker) string
}

// Order matters: the first matching hint wins.
var textHints = []textHint{
	{[]string{"email", "mail"}, (*gofakeit.Faker).Email},
	{[]string{"phone", "mobile", "fax"}, (*gofakeit.Faker).Phone},
	{[]string{"first_name", "firstname"}, (*gofakeit.Faker).FirstName},
	{[]string{"last_name", "lastname", "surname"}, (*gofakeit.Faker).LastName},
	{[]string{"user", "login"}, (*gofakeit.Faker).Username},
	{[]string{"name"}, (*gofakeit.Faker).Name},
	{[]string{"company", "vendor", "supplier"}, (*gofakeit.Faker).Company},
	{[]string{"address", "street"}, (*gofakeit.Faker).Street},
	{[]string{"city", "town"}, (*gofakeit.Faker).City},
	{[]string{"country"}, (*gofakeit.Faker).Country},
	{[]string{"state", "province"}, (*gofakeit.Faker).State},
	{[]string{"zip", "postal"}, (*gofakeit.Faker).Zip},
	{[]string{"url", "site", "link"}, (*gofakeit.Faker).URL},
	{[]string{"color", "colour"}, (*gofakeit.Faker).Color},
	{[]string{"currency"}, (*gofakeit.Faker).CurrencyShort},
	{[]string{"uuid", "guid"}, (*gofakeit.Faker).UUID},
	{[]string{"title", "subject"}, func(f *gofakeit.Faker) string { return f.Sentence(3) }},
	{[]string{"description", "comment", "note", "content", "text", "memo"}, func(f *gofakeit.Faker) string { return f.Paragraph(1, 3, 12, " ") }},
}

// flagKeywords mark integer or single character columns holding yes/no.
var flagKeywords = []string{"active", "enabled", "deleted", "flag", "is_", "has_"}

func lookupHint(column string) (textHint, bool) {
	for _, h := range textHints {
		if containsAny(column, h.keywords) {
			return h, true
		}
	}
	return textHint{}, false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// isIDColumn reports whether a column looks like a key, whose name hints
// say nothing about its content.
func isIDColumn(name string) bool {
	return name == "id" || strings.HasSuffix(name, "_id") || strings.HasSuffix(name, "_no")
}
