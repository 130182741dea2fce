package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Strict calendar-shaped date: zero-padded month 01-12, day 01-31.
	dateRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
	// The address pattern the store has always enforced for user emails.
	emailRegex = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
)

// Validation wraps the validator instance carrying the custom tags the rule
// sets rely on.
type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("objectid", validateObjectID)
	v.RegisterValidation("dateformat", validateDateFormat)
	v.RegisterValidation("useremail", validateUserEmail)
	return &Validation{validator: v}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateDateFormat(fl validator.FieldLevel) bool {
	return dateRegex.MatchString(fl.Field().String())
}

func validateUserEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// Violation is the first rule breach found in a payload.
type Violation struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v Violation) Error() string {
	return v.Message
}

// ValidateBody checks a decoded request body against a rule set and returns
// the first violation found, or nil when the payload is clean. Unknown keys
// are rejected before any per-field check runs; payload keys are scanned in
// sorted order so the reported key is deterministic.
func (v *Validation) ValidateBody(rules RuleSet, payload map[string]any) *Violation {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !rules.declares(key) {
			return &Violation{
				Field:   key,
				Message: fmt.Sprintf("Path not allowed: %s. Please remove it.", key),
			}
		}
	}

	for _, field := range rules.Fields {
		raw, present := payload[field.Name]
		if !present {
			if field.Required {
				return &Violation{Field: field.Name, Message: field.RequiredMsg}
			}
			continue
		}
		if violation := v.checkField(field, raw); violation != nil {
			return violation
		}
	}

	return nil
}

func (v *Validation) checkField(field FieldRule, raw any) *Violation {
	switch {
	case field.String != nil:
		rule := field.String
		s, ok := raw.(string)
		if !ok {
			return &Violation{Field: field.Name, Message: rule.TypeMsg}
		}
		checked := s
		if rule.TrimEmpty {
			checked = strings.TrimSpace(s)
		}
		if checked == "" {
			return &Violation{Field: field.Name, Message: rule.EmptyMsg}
		}
		if rule.Tag != "" {
			if err := v.validator.Var(s, rule.Tag); err != nil {
				return &Violation{Field: field.Name, Message: rule.FormatMsg}
			}
		}
	case field.IDList != nil:
		rule := field.IDList
		items, ok := raw.([]any)
		if !ok {
			return &Violation{Field: field.Name, Message: rule.TypeMsg}
		}
		if len(items) == 0 {
			return &Violation{Field: field.Name, Message: rule.MinMsg}
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return &Violation{Field: field.Name, Message: rule.ElemTypeMsg}
			}
			if s == "" {
				return &Violation{Field: field.Name, Message: rule.ElemEmptyMsg}
			}
			if err := v.validator.Var(s, "objectid"); err != nil {
				return &Violation{
					Field:   field.Name,
					Message: fmt.Sprintf(rule.ElemFormatMsg, s),
				}
			}
		}
	}
	return nil
}

// IsValidID reports whether id is a well-formed 24-character hex store id.
// Every path-supplied id passes through here before it is used in a lookup.
func (v *Validation) IsValidID(id string) bool {
	return v.validator.Var(id, "objectid") == nil
}

// IsValidDate reports whether s is a strict YYYY-MM-DD date string.
func IsValidDate(s string) bool {
	return dateRegex.MatchString(s)
}
