package catalog

import (
	"strings"
	"testing"
)

func validInput() ProductInput {
	stock := 10
	return ProductInput{
		Name:        "Smartphone X Pro",
		Description: "Flagship smartphone",
		CategoryID:  "cat-electronics",
		Price:       2499,
		Stock:       &stock,
	}
}

func TestValidateProductAcceptsValidInput(t *testing.T) {
	if errs := ValidateProduct(validInput()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	in := validInput()
	in.Stock = nil
	in.Price = 0
	if errs := ValidateProduct(in); len(errs) != 0 {
		t.Fatalf("zero price and absent stock should be valid, got %v", errs)
	}
}

func TestValidateProductMissingName(t *testing.T) {
	cases := []ProductInput{
		{Description: "d", CategoryID: "c", Price: 1},
		{Name: "   ", Description: "d", CategoryID: "c", Price: 1},
		{Name: "", Description: "", CategoryID: "", Price: -5},
	}
	for i, in := range cases {
		errs := ValidateProduct(in)
		found := false
		for _, msg := range errs {
			if strings.Contains(msg, "name is required") {
				found = true
			}
		}
		if !found {
			t.Errorf("case %d: expected name error, got %v", i, errs)
		}
	}
}

func TestValidateProductFieldChecks(t *testing.T) {
	in := validInput()
	in.Price = -1
	errs := ValidateProduct(in)
	if len(errs) != 1 || !strings.Contains(errs[0], "price") {
		t.Fatalf("expected single price error, got %v", errs)
	}

	in = validInput()
	bad := -3
	in.Stock = &bad
	errs = ValidateProduct(in)
	if len(errs) != 1 || !strings.Contains(errs[0], "stock") {
		t.Fatalf("expected single stock error, got %v", errs)
	}

	in = validInput()
	in.Description = ""
	in.CategoryID = ""
	errs = ValidateProduct(in)
	if len(errs) != 2 {
		t.Fatalf("expected description and category errors, got %v", errs)
	}
}

func TestValidateProductStrict(t *testing.T) {
	if err := ValidateProductStrict(validInput()); err != nil {
		t.Fatalf("valid input should pass, got %v", err)
	}
	err := ValidateProductStrict(ProductInput{Price: -1})
	verr, isValidation := err.(*ValidationError)
	if !isValidation {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Messages) != 4 {
		t.Errorf("expected 4 messages, got %v", verr.Messages)
	}
}
