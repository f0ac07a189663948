package builder

import (
	"os/exec"
)

// PrivilegeTool is the helper used to run commands as another user when
// apt-pac itself runs as root (builds must not happen as root; makepkg
// refuses).
type PrivilegeTool string

const (
	PrivilegeToolAuto PrivilegeTool = "auto"
	PrivilegeToolRun0 PrivilegeTool = "run0"
	PrivilegeToolDoas PrivilegeTool = "doas"
	PrivilegeToolSudo PrivilegeTool = "sudo"
)

// ResolvePrivilegeTool turns the configured tool into a concrete one,
// auto-detecting from PATH when set to auto. Preference order matches
// availability on modern systems: run0 (systemd >= 256), then doas, then
// sudo as the fallback that needs no detection.
func ResolvePrivilegeTool(tool PrivilegeTool) PrivilegeTool {
	return resolvePrivilegeTool(tool, exec.LookPath)
}

func resolvePrivilegeTool(tool PrivilegeTool, lookPath func(string) (string, error)) PrivilegeTool {
	if tool != PrivilegeToolAuto && tool != "" {
		return tool
	}

	if _, err := lookPath("run0"); err == nil {
		return PrivilegeToolRun0
	}

	if _, err := lookPath("doas"); err == nil {
		return PrivilegeToolDoas
	}

	return PrivilegeToolSudo
}

// PrivilegeCommand wraps cmd so it runs as user via the given tool. The tool
// must already be resolved (not auto).
func PrivilegeCommand(tool PrivilegeTool, user string, cmd []string) []string {
	switch tool {
	case PrivilegeToolRun0:
		return append([]string{"run0", "--user=" + user}, cmd...)
	case PrivilegeToolDoas:
		return append([]string{"doas", "-u", user}, cmd...)
	default:
		return append([]string{"sudo", "-u", user}, cmd...)
	}
}
