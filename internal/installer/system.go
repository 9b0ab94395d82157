package installer

// systemPackages maps Python modules that pip cannot install to their
// OS package-manager commands, keyed by GOOS.
var systemPackages = map[string]map[string][]string{
	"tkinter": {
		"linux":  {"sudo", "apt-get", "install", "-y", "python3-tk"},
		"darwin": {"brew", "install", "python-tk"},
	},
}

// systemCommand returns the package-manager command for a non-pip package
// on the given platform, or nil when pip should handle it (or no command is
// known for the platform).
func systemCommand(goos, pkg string) []string {
	commands, ok := systemPackages[pkg]
	if !ok {
		return nil
	}
	return commands[goos]
}

// isSystemOnly reports whether pkg can never be installed via pip.
func isSystemOnly(pkg string) bool {
	_, ok := systemPackages[pkg]
	return ok
}
