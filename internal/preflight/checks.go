package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// CheckBackend probes the backend and reports API reachability plus the
// cookie status it advertises. Cookie state is advisory and never fails.
func CheckBackend(ctx context.Context, baseURL string, prober HealthProber) []Result {
	const name = "Backend API"

	base := strings.TrimSpace(baseURL)
	if prober == nil {
		return []Result{{Name: name, Detail: "not configured"}}
	}
	status, ok := prober.Probe(ctx)
	if !ok {
		return []Result{{Name: name, Detail: fmt.Sprintf("offline (%s)", base)}}
	}

	cookies := Result{Name: "Cookies", Passed: true, Detail: "unknown"}
	if state := strings.TrimSpace(status.CookiesState); state != "" {
		cookies.Detail = state
		if msg := strings.TrimSpace(status.CookiesMessage); msg != "" {
			cookies.Detail = fmt.Sprintf("%s: %s", state, msg)
		}
	}
	return []Result{
		{Name: name, Passed: true, Detail: fmt.Sprintf("online (%s)", base)},
		cookies,
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory is CheckDirectoryAccess for directories anydl creates
// on demand: a missing path passes when its nearest existing ancestor is
// writable.
func CheckOutputDirectory(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}

	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	check := CheckDirectoryAccess(name, ancestor)
	if !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}
