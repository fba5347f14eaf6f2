// Package selftest implements the lcpp_test static-configuration
// collaborator named in §6: a built-in self-test that exercises the
// concrete scenario list in §8 against the live cpp package, so a caller
// can run it at process startup (lcpp_test: true) to catch an engine
// regression before compiling real input.
package selftest

import (
	"context"
	"fmt"

	"github.com/lcpp/lcpp/pkg/cpp"
)

// Scenario is one literal input/output pair drawn from §8's concrete
// scenario list.
type Scenario struct {
	Name string
	In   string
	Want string
}

// Scenarios is the full concrete scenario list from §8, in order.
var Scenarios = []Scenario{
	{
		Name: "object-like macro",
		In:   "#define LEET 0x1337\nint x = LEET;",
		Want: "int x = 0x1337;",
	},
	{
		Name: "function-like macro",
		In:   "#define MAX(x,y) ((x)>(y)?(x):(y))\nint z = MAX(a, b);",
		Want: "int z = ((a)>(b)?(a):(b));",
	},
	{
		Name: "nested conditionals choose the right arm",
		In:   "#define TRUE\n#ifdef TRUE\nA\n#else\nB\n#endif",
		Want: "A",
	},
	{
		Name: "elif with defined and logical operators",
		In:   "#define X\n#if defined(Y)\nno\n#elif defined(X) && !defined(Y)\nyes\n#else\nno\n#endif",
		Want: "yes",
	},
	{
		Name: "continuation and multi-line function macro",
		In:   "#define F(x) \\\n  (x+1)\nint v = F(7);",
		Want: "int v = (7+1);",
	},
	{
		Name: "comments removed, directive still recognized",
		In:   "/* prelude */\n#define K 5 // trailing\nK",
		Want: "5",
	},
}

// Failure describes one scenario whose actual output did not match.
type Failure struct {
	Scenario string
	Got      string
	Want     string
	Err      error
}

func (f Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("selftest %q: %v", f.Scenario, f.Err)
	}
	return fmt.Sprintf("selftest %q: got %q, want %q", f.Scenario, f.Got, f.Want)
}

// Run compiles every scenario in Scenarios against the live cpp package and
// returns the first mismatch as a *Failure, or nil if every scenario's
// output matches. It never mutates global state: each scenario gets a
// fresh cpp.Compile call with no loader, matching §8's scenarios (none of
// which use #include).
func Run(ctx context.Context) error {
	for _, sc := range Scenarios {
		got, _, err := cpp.Compile(ctx, sc.In, cpp.Options{})
		if err != nil {
			return &Failure{Scenario: sc.Name, Err: err}
		}
		if got != sc.Want {
			return &Failure{Scenario: sc.Name, Got: got, Want: sc.Want}
		}
	}
	return nil
}
