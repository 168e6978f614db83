// Package platform reports whether the running machine and toolchain can
// drive the hardware channel.
//
// The flush+reload primitives are amd64 assembly and need CLFLUSH (part of
// SSE2). The toolchain is checked against the minimum the module is built
// for; runtime.Version is mapped onto semantic versions so it can be
// compared with golang.org/x/mod/semver.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
	syscpu "golang.org/x/sys/cpu"

	"github.com/kolkov/specleak/internal/cpu"
)

// MinGoVersion is the oldest toolchain the module supports.
const MinGoVersion = "v1.24.0"

// Report describes the platform.
type Report struct {
	GOOS   string
	GOARCH string

	// GoVersion is the toolchain version in semver form, empty for
	// development builds whose version cannot be parsed.
	GoVersion string

	NumCPU int

	// HasCLFLUSH is true when the CPU advertises SSE2.
	HasCLFLUSH bool

	// Supported is true when the hardware channel can run.
	Supported bool

	// Problems lists every reason the platform falls short, empty when
	// Supported.
	Problems []string
}

// Check inspects the running platform.
func Check() Report {
	return check(runtime.GOOS, runtime.GOARCH, runtime.Version(), runtime.NumCPU(), syscpu.X86.HasSSE2, cpu.Supported)
}

func check(goos, goarch, version string, ncpu int, sse2, primitives bool) Report {
	r := Report{
		GOOS:       goos,
		GOARCH:     goarch,
		GoVersion:  GoSemver(version),
		NumCPU:     ncpu,
		HasCLFLUSH: sse2,
	}

	if !primitives {
		r.Problems = append(r.Problems, fmt.Sprintf("flush+reload primitives are implemented for amd64 only, running on %s", goarch))
	} else if !sse2 {
		r.Problems = append(r.Problems, "CPU does not report SSE2, CLFLUSH unavailable")
	}

	if r.GoVersion != "" && semver.Compare(r.GoVersion, MinGoVersion) < 0 {
		r.Problems = append(r.Problems, fmt.Sprintf("built with %s, minimum is %s", version, MinGoVersion))
	}

	r.Supported = len(r.Problems) == 0
	return r
}

// GoSemver converts a Go toolchain version ("go1.24.1", "go1.25rc2") to a
// semantic version ("v1.24.1", "v1.25.0-rc2"). It returns "" for versions
// it cannot map, such as development builds.
func GoSemver(v string) string {
	if fields := strings.Fields(v); len(fields) > 0 {
		v = fields[0]
	}
	v, ok := strings.CutPrefix(v, "go")
	if !ok {
		return ""
	}

	base, pre := v, ""
	for _, tag := range []string{"rc", "beta", "alpha"} {
		if i := strings.Index(v, tag); i > 0 {
			base, pre = v[:i], v[i:]
			break
		}
	}

	if strings.Count(base, ".") == 1 {
		base += ".0"
	}

	out := "v" + base
	if pre != "" {
		out += "-" + pre
	}
	if !semver.IsValid(out) {
		return ""
	}
	return semver.Canonical(out)
}

// String renders the report for the info command.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "platform:   %s/%s\n", r.GOOS, r.GOARCH)
	goVersion := r.GoVersion
	if goVersion == "" {
		goVersion = "unknown"
	}
	fmt.Fprintf(&b, "go:         %s (minimum %s)\n", goVersion, MinGoVersion)
	fmt.Fprintf(&b, "cpus:       %d\n", r.NumCPU)
	fmt.Fprintf(&b, "clflush:    %t\n", r.HasCLFLUSH)
	fmt.Fprintf(&b, "supported:  %t\n", r.Supported)
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	return b.String()
}
