// Package debug gates diagnostic logging behind JQ_DEBUG_* environment
// variables.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Scan  bool
	Query bool
	Patch bool
	Op    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("JQ_DEBUG_SCAN")
	d.Query = boolEnv("JQ_DEBUG_QUERY")
	d.Patch = boolEnv("JQ_DEBUG_PATCH")
	d.Op = boolEnv("JQ_DEBUG_OP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Query() bool {
	return d.Query
}
func Patch() bool {
	return d.Patch
}
func Op() bool {
	return d.Op
}
