package errors_test

import (
	"fmt"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// Example demonstrates checking the degraded-catalog case.
func Example() {
	err := &errors.CatalogLoadError{Path: "allowed_cosmetics.json"}

	if errors.IsCatalogLoad(err) {
		fmt.Println("catalog unavailable, no overrides will apply")
	}

	// Output: catalog unavailable, no overrides will apply
}

// Example_persistError demonstrates retrying after a failed replace.
func Example_persistError() {
	err := errors.NewPersistError("skin.json", "replace", errors.New("access denied"))

	if errors.IsPersist(err) {
		fmt.Println("pending reconcile kept for the next cycle")
	}

	// Output: pending reconcile kept for the next cycle
}
