// Package validate holds request field validation helpers shared by the
// HTTP handlers.
package validate

import (
	"fmt"
	"regexp"

	"github.com/ecotrace/ecotrace-server/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email validates an email address: required, at most 320 bytes.
func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// NonEmpty requires a non-empty string field.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Category requires a known activity category.
func Category(v model.ActivityCategory) error {
	if v == "" {
		return fmt.Errorf("category is required")
	}
	if !v.Valid() {
		return fmt.Errorf("unknown category: %s", v)
	}
	return nil
}

// ActivityInput validates the fields of a calculation request. Amount zero
// is allowed; the engine prices it to zero emission.
func ActivityInput(in model.ActivityInput) error {
	if err := Category(in.Category); err != nil {
		return err
	}
	if err := NonEmpty("type", in.Type); err != nil {
		return err
	}
	if err := NonEmpty("unit", in.Unit); err != nil {
		return err
	}
	if in.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}
