// Package esptool runs Espressif's esptool and espefuse utilities.
package esptool

import (
	"os/exec"
	"strings"

	"github.com/juju/errors"
)

// ErrToolNotFound is returned when neither the executable nor the Python
// module form of a tool can be found.
var ErrToolNotFound = errors.New("esptool/espefuse not found, ensure esptool is installed and in your PATH")

// Paths overrides the tool lookup. Empty fields fall back to PATH.
type Paths struct {
	Esptool  string
	Espefuse string
	Python   string
}

// Tool is a resolved command prefix, e.g. ["esptool.py"] or
// ["/usr/bin/python3", "-m", "esptool"].
type Tool struct {
	Name string
	Argv []string
}

// String returns the command prefix as it would be typed in a shell.
func (t Tool) String() string {
	return strings.Join(t.Argv, " ")
}

var lookPath = exec.LookPath

// LocateEsptool resolves the esptool command.
func LocateEsptool(p Paths) (Tool, error) {
	return locate("esptool", p.Esptool, p.Python, "esptool.py", "esptool")
}

// LocateEspefuse resolves the espefuse command.
func LocateEspefuse(p Paths) (Tool, error) {
	return locate("espefuse", p.Espefuse, p.Python, "espefuse.py", "espefuse")
}

func locate(module, explicit, python string, names ...string) (Tool, error) {
	if explicit != "" {
		path, err := lookPath(explicit)
		if err != nil {
			return Tool{}, errors.Annotatef(ErrToolNotFound, "%s at %q", module, explicit)
		}
		return Tool{Name: module, Argv: []string{path}}, nil
	}

	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			return Tool{Name: module, Argv: []string{path}}, nil
		}
	}

	// Fall back to running the module through the interpreter.
	interpreters := []string{"python3", "python"}
	if python != "" {
		interpreters = []string{python}
	}
	for _, name := range interpreters {
		if path, err := lookPath(name); err == nil {
			return Tool{Name: module, Argv: []string{path, "-m", module}}, nil
		}
	}

	return Tool{}, errors.Annotatef(ErrToolNotFound, "%s", module)
}
