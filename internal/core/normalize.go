package core

import (
	"github.com/JonMunkholm/estatecrm/internal/csv"
)

// headerAliases maps alternative normalized header keys to canonical ones.
var headerAliases = map[string]string{
	"first":        "firstname",
	"surname":      "lastname",
	"last":         "lastname",
	"phonenumber":  "phone",
	"mobile":       "phone",
	"tel":          "phone",
	"mail":         "email",
	"emailaddress": "email",
	"tg":           "telegram",
	"wa":           "whatsapp",
	"type":         "propertytype",
	"listing":      "listingtype",
	"district":     "districts",
	"note":         "notes",
	"comment":      "notes",
	"comments":     "notes",
}

// canonicalKey resolves a normalized header key through the alias table.
func canonicalKey(key string) string {
	if c, ok := headerAliases[key]; ok {
		return c
	}
	return key
}

// NormalizeRow builds the canonical view of one parsed record. keys are the
// document's normalized header keys in column order. When two columns map to
// the same canonical key, the first non-empty value wins.
func NormalizeRow(keys []string, rec csv.Record) ImportRow {
	row := ImportRow{
		Line:   rec.Line,
		Values: make(map[string]string, len(keys)),
		Raw:    rec.Fields,
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		canon := canonicalKey(key)
		if row.Values[canon] != "" {
			continue
		}
		row.Values[canon] = cleanCell(rec.Fields[key])
	}
	return row
}
