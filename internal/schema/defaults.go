package schema

import "regexp"

// Kind is the value type of a form field.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	List
	Enum
	Object
)

// Field describes one form field. Fields is only used by Object kinds.
type Field struct {
	Name        string
	Kind        Kind
	Constraints string
	Fields      []Field
}

var monetaryName = regexp.MustCompile(`(?i)(price|value|amount|total|currency|preco|valor)`)

// ProductCreateFields describes the create form.
var ProductCreateFields = []Field{
	{Name: "title", Kind: String, Constraints: "required,min=3,max=200"},
	{Name: "price", Kind: Number, Constraints: "price"},
	{Name: "description", Kind: String, Constraints: "required,min=10,max=1000"},
	{Name: "category", Kind: Enum, Constraints: "category"},
	{Name: "image", Kind: String, Constraints: "required,url"},
}

// ProductEditFields describes the edit form.
var ProductEditFields = append([]Field{
	{Name: "id", Kind: Number, Constraints: "required,gt=0"},
}, ProductCreateFields...)

// FieldByName finds the descriptor called name.
func FieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// BuildDefaults returns a value for every field: the raw value when present, otherwise
// the empty value for the field kind. Enum fields default to nil so a choice is forced.
func BuildDefaults(fields []Field, raw map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Kind == Object {
			nested, _ := raw[f.Name].(map[string]any)
			out[f.Name] = BuildDefaults(f.Fields, nested)
			continue
		}
		if v, ok := raw[f.Name]; ok && v != nil {
			out[f.Name] = v
			continue
		}
		out[f.Name] = emptyValue(f)
	}
	return out
}

func emptyValue(f Field) any {
	switch f.Kind {
	case String:
		if monetaryName.MatchString(f.Name) {
			return "$ 0,00"
		}
		return ""
	case Number:
		return 0
	case Bool:
		return false
	case List:
		return []any{}
	case Object:
		return map[string]any{}
	default:
		return nil
	}
}
