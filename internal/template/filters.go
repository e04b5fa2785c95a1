package template

import (
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Filter names available in every template.
const (
	FilterCapitalizeFirst = "capitalize_first"
	FilterTypeMap         = "type_map"
	FilterPluralize       = "pluralize"
	FilterRustType        = "rust_type"
	FilterLower           = "lower"
	FilterSnake           = "snake"
)

// storageTypes maps field type tokens to Diesel column types. Both the
// semantic tokens and the Rust type names accepted by earlier schema
// versions are listed.
var storageTypes = map[string]string{
	"integer":          "Integer",
	"big-integer":      "BigInt",
	"text":             "Text",
	"optional-text":    "Nullable<Text>",
	"optional-integer": "Nullable<Integer>",
	"boolean":          "Bool",
	"float":            "Double",
	"json":             "Jsonb",
	"timestamp":        "Timestamp",
	"uuid":             "Uuid",
	"text-list":        "Array<Text>",
	"integer-list":     "Array<Integer>",

	"u32":                 "Int4",
	"i32":                 "Int4",
	"i64":                 "Int8",
	"String":              "Text",
	"Option<String>":      "Nullable<Text>",
	"Option<u32>":         "Nullable<Int4>",
	"Vec<String>":         "Array<Text>",
	"Vec<u32>":            "Array<Int4>",
	"Vec<Option<String>>": "Array<Nullable<Text>>",
	"Value":               "Jsonb",
	"bool":                "Bool",
	"f64":                 "Float8",
}

// rustTypes maps semantic tokens to the Rust field type of the generated
// model struct. Rust type names pass through as they are.
var rustTypes = map[string]string{
	"integer":          "i32",
	"big-integer":      "i64",
	"text":             "String",
	"optional-text":    "Option<String>",
	"optional-integer": "Option<i32>",
	"boolean":          "bool",
	"float":            "f64",
	"json":             "serde_json::Value",
	"timestamp":        "chrono::NaiveDateTime",
	"uuid":             "uuid::Uuid",
	"text-list":        "Vec<String>",
	"integer-list":     "Vec<i32>",
}

// TypeMap returns the storage type for token, or token itself when the
// table has no entry for it.
func TypeMap(token string) string {
	if t, ok := storageTypes[token]; ok {
		return t
	}
	return token
}

// RustType returns the Rust type for a semantic token, or token itself when
// it is not a semantic token.
func RustType(token string) string {
	if t, ok := rustTypes[token]; ok {
		return t
	}
	return token
}

// Pluralize appends "s" unless s already ends with "s". It knows no
// irregular forms: "status" stays "status" and "person" becomes "persons".
func Pluralize(s string) string {
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

// filterSet holds the case mappers for one engine. cases.Caser keeps state
// and must not be shared between goroutines.
type filterSet struct {
	upper cases.Caser
	lower cases.Caser
}

func newFilterSet() *filterSet {
	return &filterSet{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// capitalizeFirst upper-cases the first code point and keeps the rest.
func (f *filterSet) capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return f.upper.String(s[:size]) + s[size:]
}

// lowerName trims s, lower-cases it and normalizes it to NFC. Entity output paths
// use the same mapping so module names and file names agree.
func (f *filterSet) lowerName(s string) string {
	return norm.NFC.String(f.lower.String(strings.TrimSpace(s)))
}

// snake converts "OrderItem", "order item" or "order-item" to "order_item".
func (f *filterSet) snake(s string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(norm.NFC.String(s))
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && len(cur) > 0:
			prevLower := !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()

	return f.lower.String(strings.Join(words, "_"))
}

func (f *filterSet) funcMap() template.FuncMap {
	return template.FuncMap{
		FilterCapitalizeFirst: f.capitalizeFirst,
		FilterTypeMap:         TypeMap,
		FilterPluralize:       Pluralize,
		FilterRustType:        RustType,
		FilterLower:           f.lowerName,
		FilterSnake:           f.snake,
	}
}
