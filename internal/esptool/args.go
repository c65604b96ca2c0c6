package esptool

import (
	"strconv"

	"github.com/n1geiger/n1burner/internal/layout"
)

// WriteFlashArgs builds the esptool arguments that write every region in
// one invocation.
func WriteFlashArgs(port string, regions []layout.Region) []string {
	args := []string{
		"--chip", layout.Chip,
		"--port", port,
		"--baud", strconv.Itoa(layout.BaudRate),
		"write_flash",
	}
	for _, r := range regions {
		args = append(args, r.Offset(), r.Path)
	}
	return args
}

// BurnEfuseArgs builds the espefuse arguments that burn a single eFuse
// without the interactive confirmation.
func BurnEfuseArgs(port, efuse string) []string {
	return []string{
		"--chip", layout.Chip,
		"--port", port,
		"--do-not-confirm",
		"burn_efuse", efuse,
	}
}
