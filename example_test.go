package overlaysync_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/pkg/catalog"
)

// Example shows the engine restoring an override after a one-shot tick.
func Example() {
	dir, _ := os.MkdirTemp("", "overlaysync-example")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "skin.json")
	_ = os.WriteFile(path, []byte(`{"hat":"red","hp":"12"}`), 0o644)

	eng, err := overlaysync.New(path,
		overlaysync.WithCatalog(catalog.New(map[string][]string{"hat": {"red", "blue"}})),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer eng.Close()

	out := eng.SetDesired("hat", "green")
	fmt.Println(out.Result, out.Reason)

	out = eng.SetDesired("hat", "blue")
	fmt.Println(out.Result)

	// The worker normally drives Tick; a single call before the quiet
	// threshold has passed only observes.
	res, _ := eng.Tick(context.Background())
	fmt.Println(res.Reconciled)

	// Output:
	// rejected value_not_permitted
	// applied
	// false
}
