package domain

// The rule sets below describe, per entity and operation, which payload fields
// are accepted and how each one is checked. The checks for a single field run
// in a fixed priority order (required, type, empty, format) and the validator
// stops at the first violation it finds. Any payload key not declared in the
// rule set is rejected outright.

// FieldRule describes the checks for one declared payload field. Exactly one
// of String or IDList is set.
type FieldRule struct {
	Name        string
	Required    bool
	RequiredMsg string
	String      *StringRule
	IDList      *IDListRule
}

// StringRule validates a scalar string field.
type StringRule struct {
	TypeMsg   string
	EmptyMsg  string
	TrimEmpty bool   // run the empty check on the trimmed value
	Tag       string // validator tag applied to non-empty values; "" skips the check
	FormatMsg string
}

// IDListRule validates an array of 24-character hex id strings.
type IDListRule struct {
	TypeMsg       string
	MinMsg        string
	ElemTypeMsg   string
	ElemEmptyMsg  string
	ElemFormatMsg string // format verb receives the offending value
}

// RuleSet is the declarative schema for one entity/operation pair. Fields are
// evaluated in declaration order.
type RuleSet struct {
	Fields []FieldRule
}

func (rs RuleSet) declares(name string) bool {
	for _, f := range rs.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// forUpdate derives the PUT rule set from the POST one: every field becomes
// optional, the per-field checks stay the same.
func (rs RuleSet) forUpdate() RuleSet {
	fields := make([]FieldRule, len(rs.Fields))
	copy(fields, rs.Fields)
	for i := range fields {
		fields[i].Required = false
	}
	return RuleSet{Fields: fields}
}

var ProductCreateRules = RuleSet{Fields: []FieldRule{
	{
		Name:        "name",
		Required:    true,
		RequiredMsg: "Path 'name' is required.",
		String: &StringRule{
			TypeMsg:   "Product's name must be a string.",
			EmptyMsg:  "Product's name cannot be an empty string.",
			TrimEmpty: true,
		},
	},
}}

var ProductUpdateRules = ProductCreateRules.forUpdate()

var UserCreateRules = RuleSet{Fields: []FieldRule{
	{
		Name:        "name",
		Required:    true,
		RequiredMsg: "Path 'name' is required.",
		String: &StringRule{
			TypeMsg:   "User's name must be a string.",
			EmptyMsg:  "User's name cannot be an empty string.",
			TrimEmpty: true,
			Tag:       "min=2,max=25",
			FormatMsg: "Invalid format for user's name. Length must be between 2 and 25 characters.",
		},
	},
	{
		Name:        "lastName",
		Required:    true,
		RequiredMsg: "Path 'lastName' is required.",
		String: &StringRule{
			TypeMsg:   "User's last name must be a string.",
			EmptyMsg:  "User's last name cannot be an empty string.",
			TrimEmpty: true,
			Tag:       "min=2,max=25",
			FormatMsg: "Invalid format for user's last name. Length must be between 2 and 25 characters.",
		},
	},
	{
		Name:        "email",
		Required:    true,
		RequiredMsg: "Path 'email' is required.",
		String: &StringRule{
			TypeMsg:   "User's email must be a string.",
			EmptyMsg:  "User's email cannot be an empty string.",
			Tag:       "useremail",
			FormatMsg: "Please enter a valid email.",
		},
	},
}}

var UserUpdateRules = UserCreateRules.forUpdate()

var OrderCreateRules = RuleSet{Fields: []FieldRule{
	{
		Name:        "products",
		Required:    true,
		RequiredMsg: "Path 'products' is required.",
		IDList: &IDListRule{
			TypeMsg:       "Path 'products' must be an array.",
			MinMsg:        "Path 'products' must contain at least one element.",
			ElemTypeMsg:   "Product ID must be a string.",
			ElemEmptyMsg:  "Product ID cannot be an empty string.",
			ElemFormatMsg: "Invalid format for the product's ID: '%s'.",
		},
	},
	{
		Name:        "users",
		Required:    true,
		RequiredMsg: "Path 'users' is required.",
		IDList: &IDListRule{
			TypeMsg:       "Path 'users' must be an array.",
			MinMsg:        "Path 'users' must contain at least one element.",
			ElemTypeMsg:   "User ID must be a string.",
			ElemEmptyMsg:  "User ID cannot be an empty string.",
			ElemFormatMsg: "Invalid format for the user's ID: '%s'.",
		},
	},
	{
		Name: "date",
		String: &StringRule{
			TypeMsg:   "Date must be a string.",
			EmptyMsg:  "Date cannot be an empty string.",
			Tag:       "dateformat",
			FormatMsg: "Date must be in the format YYYY-MM-DD.",
		},
	},
}}

var OrderUpdateRules = OrderCreateRules.forUpdate()
