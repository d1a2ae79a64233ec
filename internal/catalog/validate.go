package catalog

import "strings"

// ValidateProduct checks the writable fields and returns human-readable
// messages for anything wrong. An empty slice means the input is valid.
func ValidateProduct(in ProductInput) []string {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		errs = append(errs, "category is required")
	}
	if in.Price < 0 {
		errs = append(errs, "price must be non-negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		errs = append(errs, "stock must be non-negative")
	}
	return errs
}

// ValidateProductStrict wraps the message list in a ValidationError for
// callers that want an error value instead of a slice.
func ValidateProductStrict(in ProductInput) error {
	if msgs := ValidateProduct(in); len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
