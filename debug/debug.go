// Package debug gates diagnostic logging on EGRESS_DEBUG_* environment
// variables.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff  bool
	Store bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("EGRESS_DEBUG_DIFF")
	d.Store = boolEnv("EGRESS_DEBUG_STORE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Store() bool {
	return d.Store
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func JSON(v any) string {
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(d)
}
