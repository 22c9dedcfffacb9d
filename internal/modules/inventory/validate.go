package inventory

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError marks a malformed input record. The record is rejected
// before any scoring happens; the rest of a batch continues.
type ValidationError struct {
	SKU     string `json:"sku"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %s: invalid %s: %s", e.SKU, e.Field, e.Message)
}

// ValidateItem checks an item record at the engine boundary. It returns the
// first violation found so the caller can report the offending field.
func ValidateItem(item *Item) *ValidationError {
	if err := validate.Struct(item); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return &ValidationError{
				SKU:     item.SKU,
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %s constraint", fe.Tag()),
			}
		}
		return &ValidationError{SKU: item.SKU, Field: "item", Message: err.Error()}
	}
	if !item.Category.Valid() {
		return &ValidationError{SKU: item.SKU, Field: "Category", Message: fmt.Sprintf("unknown category %q", item.Category)}
	}
	if item.CostBasis.IsNegative() {
		return &ValidationError{SKU: item.SKU, Field: "CostBasis", Message: "must not be negative"}
	}
	if item.SellingPrice.IsNegative() {
		return &ValidationError{SKU: item.SKU, Field: "SellingPrice", Message: "must not be negative"}
	}
	return nil
}
