package actions

import (
	"strconv"
	"strings"
)

// substituteValue replaces every occurrence of the literal token "{value}"
// in cmd with n, when the triggering payload carried a numeric value.
func substituteValue(cmd string, hasValue bool, n int) string {
	if !hasValue {
		return cmd
	}
	return strings.ReplaceAll(cmd, "{value}", strconv.Itoa(n))
}

// fixCurlAlias rewrites a leading "curl " or "curl\t" to "curl.exe" followed
// by the same space or tab, so the
// shell's built-in curl alias (which resolves to Invoke-WebRequest) does not
// shadow the real curl.exe binary the operator intended.
func fixCurlAlias(cmd string) string {
	if strings.HasPrefix(cmd, "curl ") || strings.HasPrefix(cmd, "curl\t") {
		return "curl.exe" + cmd[len("curl"):]
	}
	return cmd
}

// PrepareShellCommand applies {value} substitution followed by the curl
// alias workaround, in that order, matching rc_actions.c's pre-processing
// pipeline. Exported for the router, which prepares command text before
// handing it to RunShellCommand.
func PrepareShellCommand(cmd string, hasValue bool, n int) string {
	return fixCurlAlias(substituteValue(cmd, hasValue, n))
}
