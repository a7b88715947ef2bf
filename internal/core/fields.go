package core

// fields.go is the single table of lead columns. Import parsing, duplicate
// merging, and export formatting all walk the same list, so a column that is
// added here is imported, merged, and exported consistently.

import (
	"time"

	"github.com/JonMunkholm/estatecrm/internal/csv"
)

// leadColumn describes one column of the lead CSV schema.
type leadColumn struct {
	// Label is the export header. Key is its normalized form, which is also
	// the canonical import key.
	Label string
	Key   string

	// apply stores a non-empty cell into f. Nil for export-only columns.
	apply func(f *LeadFields, v string) error

	format func(l *Lead) string
}

var leadColumns = []leadColumn{
	textColumn("FirstName", func(f *LeadFields) *string { return &f.FirstName }),
	textColumn("LastName", func(f *LeadFields) *string { return &f.LastName }),
	textColumn("Phone", func(f *LeadFields) *string { return &f.Phone }),
	textColumn("Email", func(f *LeadFields) *string { return &f.Email }),
	textColumn("Telegram", func(f *LeadFields) *string { return &f.Telegram }),
	textColumn("WhatsApp", func(f *LeadFields) *string { return &f.WhatsApp }),
	enumColumn("PropertyType", propertyTypes, func(f *LeadFields) *PropertyType { return &f.PropertyType }),
	enumColumn("ListingType", listingTypes, func(f *LeadFields) *ListingType { return &f.ListingType }),
	{
		Label: "Budget",
		apply: func(f *LeadFields, v string) error {
			amount, ok := parseAmount(v)
			if !ok {
				return &InvalidFieldError{Field: "budget", Value: v}
			}
			f.Budget = &amount
			return nil
		},
		format: func(l *Lead) string { return formatAmount(l.Budget) },
	},
	{
		Label: "Bedrooms",
		apply: func(f *LeadFields, v string) error {
			n, ok := parseCount(v)
			if !ok {
				return &InvalidFieldError{Field: "bedrooms", Value: v}
			}
			f.Bedrooms = &n
			return nil
		},
		format: func(l *Lead) string { return formatCount(l.Bedrooms) },
	},
	{
		Label: "Districts",
		apply: func(f *LeadFields, v string) error {
			f.Districts = csv.SplitList(v)
			return nil
		},
		format: func(l *Lead) string { return csv.JoinList(l.Districts) },
	},
	textColumn("Requirements", func(f *LeadFields) *string { return &f.Requirements }),
	enumColumn("Source", leadSources, func(f *LeadFields) *LeadSource { return &f.Source }),
	enumColumn("Status", leadStatuses, func(f *LeadFields) *LeadStatus { return &f.Status }),
	enumColumn("Priority", priorities, func(f *LeadFields) *LeadPriority { return &f.Priority }),
	{
		Label:  "AssignedTo",
		format: func(l *Lead) string { return l.AssigneeName },
	},
	textColumn("Notes", func(f *LeadFields) *string { return &f.Notes }),
	{
		Label: "CreatedAt",
		format: func(l *Lead) string {
			if l.CreatedAt.IsZero() {
				return ""
			}
			return l.CreatedAt.UTC().Format(time.RFC3339)
		},
	},
}

func init() {
	for i := range leadColumns {
		leadColumns[i].Key = csv.NormalizeHeader(leadColumns[i].Label)
	}
}

func textColumn(label string, field func(*LeadFields) *string) leadColumn {
	return leadColumn{
		Label: label,
		apply: func(f *LeadFields, v string) error {
			*field(f) = v
			return nil
		},
		format: func(l *Lead) string { return *field(&l.LeadFields) },
	}
}

func enumColumn[T ~string](label string, allowed []T, field func(*LeadFields) *T) leadColumn {
	key := csv.NormalizeHeader(label)
	return leadColumn{
		Label: label,
		apply: func(f *LeadFields, v string) error {
			parsed, ok := parseEnum(v, allowed)
			if !ok {
				return &InvalidFieldError{Field: key, Value: v}
			}
			*field(f) = parsed
			return nil
		},
		format: func(l *Lead) string { return string(*field(&l.LeadFields)) },
	}
}

// applyRow writes every non-empty importable value of row into f, leaving
// fields whose cell is empty or absent untouched. This is both the create
// path (f holds defaults) and the merge-update path (f holds the existing
// lead).
func applyRow(f *LeadFields, row ImportRow) error {
	for _, col := range leadColumns {
		if col.apply == nil {
			continue
		}
		v := row.Get(col.Key)
		if v == "" {
			continue
		}
		if err := col.apply(f, v); err != nil {
			return err
		}
	}
	return nil
}

// newLeadDefaults returns the fields a freshly imported lead starts from.
func newLeadDefaults() LeadFields {
	return LeadFields{
		Source:   SourceImport,
		Status:   StatusNew,
		Priority: PriorityMedium,
	}
}
