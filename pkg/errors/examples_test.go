package errors_test

import (
	"fmt"

	"github.com/haccpkit/haccp/pkg/errors"
)

// Example demonstrates checking a load failure by category.
func Example() {
	var err error = &errors.SchemaMismatchError{
		Source:        "cert-livestock",
		ExpectedCount: 11,
		ActualCount:   10,
		Missing:       []string{"인증번호"},
	}

	switch {
	case errors.IsSourceUnavailable(err):
		fmt.Println("input file missing")
	case errors.IsSchemaMismatch(err):
		fmt.Println("header does not match mapping")
	}
	// Output: header does not match mapping
}

// Example_errorWrapping shows that typed errors survive fmt.Errorf wrapping.
func Example_errorWrapping() {
	base := errors.NewSourceUnavailableError("local-food", "data/food.csv", errors.New("no such file"))
	err := fmt.Errorf("load: %w", base)

	var src *errors.SourceUnavailableError
	if errors.As(err, &src) {
		fmt.Println(src.Source)
	}
	// Output: local-food
}
