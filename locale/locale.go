// Package locale resolves the POSIX locale from the environment the
// way setlocale(3) documents it: LC_ALL beats the category variable,
// which beats LANG, with "C" as the last resort.
package locale

import "os"

// Category is one LC_* locale category.
type Category string

const (
	CType    Category = "LC_CTYPE"
	Collate  Category = "LC_COLLATE"
	Messages Category = "LC_MESSAGES"
	Monetary Category = "LC_MONETARY"
	Numeric  Category = "LC_NUMERIC"
	Time     Category = "LC_TIME"
)

// Get resolves the locale for a category.
func Get(c Category) string {
	if v := os.Getenv("LC_ALL"); v != "" {
		return v
	}
	if v := os.Getenv(string(c)); v != "" {
		return v
	}
	if v := os.Getenv("LANG"); v != "" {
		return v
	}
	return "C"
}

// Current resolves LC_MESSAGES, the category keymaps and compose
// tables care about.
func Current() string {
	return Get(Messages)
}
