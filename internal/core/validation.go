package core

// validation.go decides whether a normalized row may reach duplicate
// detection. Presence is checked first: a row missing first name, last name,
// or phone fails with the full list of what is missing. Then every non-empty
// importable cell must parse into its field.

// requiredColumns are checked in this order and reported by export label.
var requiredColumns = []struct {
	key   string
	label string
}{
	{"firstname", "FirstName"},
	{"lastname", "LastName"},
	{"phone", "Phone"},
}

// ValidateRow returns nil, a *MissingFieldError, or an *InvalidFieldError.
func ValidateRow(row ImportRow) error {
	var missing []string
	for _, rc := range requiredColumns {
		if row.Get(rc.key) == "" {
			missing = append(missing, rc.label)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}

	var scratch LeadFields
	return applyRow(&scratch, row)
}
