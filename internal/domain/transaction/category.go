package transaction

import "strings"

// Category is an entry of the fixed catalogue offered to clients. Kind is
// "income", "expense" or "both".
type Category struct {
	Name string `json:"name"`
	Kind string `json:"type"`
}

const KindBoth = "both"

var catalogue = []Category{
	{Name: "Salary", Kind: string(Income)},
	{Name: "Bonus", Kind: string(Income)},
	{Name: "Investment", Kind: string(Income)},
	{Name: "Food", Kind: string(Expense)},
	{Name: "Transport", Kind: string(Expense)},
	{Name: "Shopping", Kind: string(Expense)},
	{Name: "Bills", Kind: string(Expense)},
	{Name: "Entertainment", Kind: string(Expense)},
	{Name: "Health", Kind: string(Expense)},
	{Name: "Education", Kind: string(Expense)},
	{Name: "Other", Kind: KindBoth},
}

// Categories returns the catalogue grouped by kind.
func Categories() map[string][]Category {
	grouped := map[string][]Category{
		string(Income):  {},
		string(Expense): {},
		KindBoth:        {},
	}
	for _, c := range catalogue {
		grouped[c.Kind] = append(grouped[c.Kind], c)
	}
	return grouped
}

// LookupCategory matches a catalogue entry case-insensitively. Transactions
// accept free-form categories, so a miss is not an error.
func LookupCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range catalogue {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// Allows reports whether the category may be used for a transaction of type t.
func (c Category) Allows(t Type) bool {
	return c.Kind == KindBoth || c.Kind == string(t)
}
