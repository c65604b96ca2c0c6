package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/n1geiger/n1burner/internal/assets"
	"github.com/n1geiger/n1burner/internal/burner"
	"github.com/n1geiger/n1burner/internal/config"
	"github.com/n1geiger/n1burner/internal/detect"
	"github.com/n1geiger/n1burner/internal/esptool"
	"github.com/n1geiger/n1burner/internal/gui"
	"github.com/n1geiger/n1burner/internal/layout"
	"github.com/n1geiger/n1burner/internal/serial"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFlag         string
	portFlag           string
	firstBurnFlag      bool
	bootloaderFlag     string
	partitionTableFlag string
	burnEfuseFlag      bool
	yesFlag            bool
)

var cfg *config.Config

func main() {
	defer glog.Flush()

	rootCmd := &cobra.Command{
		Use:   "n1burner",
		Short: "Flash firmware to N1 (ESP32-C6) Geiger counters",
		Long: `N1 Burner flashes firmware to N1 Geiger counters powered by ESP32-C6.

Flashing is done by esptool, which must be installed (pip install esptool).
Run without a command to open the desktop form.`,
		PersistentPreRunE: loadConfig,
		RunE:              runGUI,
		SilenceUsage:      true,
	}
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: n1burner.toml next to the executable)")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	// GUI command
	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop form",
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Preselected serial port")

	// Flash command
	flashCmd := &cobra.Command{
		Use:   "flash <firmware.bin>",
		Short: "Flash firmware to device",
		Long: `Flash firmware to an N1 device.

By default only the firmware is written at 0x10000.

With --first-burn this will flash:
  - Bootloader at 0x0 (bundled default or --bootloader)
  - Partition table at 0x8000 (bundled default or --partition-table)
  - Firmware at 0x10000 (your file)

--burn-efuse additionally burns DIS_PAD_JTAG after a successful first burn.
This permanently disables JTAG and cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: runFlash,
	}
	flashCmd.Flags().StringVarP(&portFlag, "port", "p", "", "Serial port (auto-detect if not specified)")
	flashCmd.Flags().BoolVar(&firstBurnFlag, "first-burn", false, "Also flash bootloader and partition table")
	flashCmd.Flags().StringVar(&bootloaderFlag, "bootloader", "", "Bootloader image (default: bundled)")
	flashCmd.Flags().StringVar(&partitionTableFlag, "partition-table", "", "Partition table image (default: bundled)")
	flashCmd.Flags().BoolVar(&burnEfuseFlag, "burn-efuse", false, "Burn eFuse DIS_PAD_JTAG (requires --first-burn, irreversible)")
	flashCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Do not ask for confirmation before burning the eFuse")

	// Detect command
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Show candidate devices",
		Long:  "List USB serial ports that look like an N1 (ESP32-C6 USB Serial/JTAG or a USB-UART bridge).",
		RunE:  runDetect,
	}

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("n1burner %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		RunE:  runList,
	}

	rootCmd.AddCommand(guiCmd, flashCmd, detectCmd, versionCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	// glog reads the standard flag set; mark it parsed so it stops warning.
	if !flag.Parsed() {
		flag.CommandLine.Parse(nil)
	}

	c, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cfg = c
	glog.V(1).Infof("config: %+v", *cfg)
	return nil
}

func newAssets() (assets.Set, error) {
	return assets.New(cfg.AssetDir)
}

func runGUI(cmd *cobra.Command, args []string) error {
	set, err := newAssets()
	if err != nil {
		return err
	}

	port := portFlag
	if port == "" {
		port = cfg.Port
	}

	gui.Run(gui.Options{
		Burner:    burner.New(esptool.NewClient(cfg.ToolPaths())),
		Assets:    set,
		ListPorts: serial.ListPorts,
		Port:      port,
	})
	return nil
}

func runFlash(cmd *cobra.Command, args []string) error {
	job := burner.Job{
		Firmware:       args[0],
		Bootloader:     bootloaderFlag,
		PartitionTable: partitionTableFlag,
		FirstBurn:      firstBurnFlag,
		BurnEfuse:      burnEfuseFlag,
	}

	// --bootloader, --partition-table and --burn-efuse need --first-burn.
	if err := job.CheckFirstBurn(); err != nil {
		return err
	}

	if job.FirstBurn {
		set, err := newAssets()
		if err != nil {
			return err
		}
		if job.Bootloader == "" {
			if job.Bootloader, err = set.DefaultBootloader(); err != nil {
				return err
			}
		}
		if job.PartitionTable == "" {
			if job.PartitionTable, err = set.DefaultPartitionTable(); err != nil {
				return err
			}
		}
	}

	// Find or use specified port
	job.Port = portFlag
	if job.Port == "" {
		job.Port = cfg.Port
	}
	if job.Port == "" {
		fmt.Println("Detecting device...")
		result, err := detect.DetectDevice()
		if err != nil {
			return fmt.Errorf("device detection failed: %w", err)
		}
		job.Port = result.Port
		fmt.Printf("Found %s on %s\n", result.Kind, result.Port)
	}

	if err := job.Validate(); err != nil {
		return err
	}
	if err := serial.Probe(job.Port, layout.BaudRate); err != nil {
		return err
	}

	for _, r := range job.Regions() {
		fmt.Printf("%-16s %s  %s\n", r.Name+":", r.Offset(), r.Path)
	}
	fmt.Printf("Port: %s @ %d baud\n", job.Port, layout.BaudRate)

	if job.BurnEfuse && !yesFlag {
		ok, err := confirmEfuse()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Flashing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	b := burner.New(esptool.NewClient(cfg.ToolPaths()))
	b.SetProgressCallback(func(current, total int) {
		if total > 0 {
			bar.ChangeMax(total)
			bar.Set(current)
		}
	})
	b.SetLogCallback(func(line string) {
		if _, ok := esptool.ParseProgress(line); ok {
			return
		}
		bar.Clear()
		fmt.Println(line)
	})

	if err := b.Burn(ctx, job); err != nil {
		bar.Exit()
		fmt.Println()
		return err
	}

	bar.Finish()
	fmt.Println("Done!")
	return nil
}

func confirmEfuse() (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("refusing to burn eFuse without a terminal; pass --yes to confirm")
	}

	fmt.Println()
	fmt.Println("You are about to burn eFuse (DIS_PAD_JTAG).")
	fmt.Println("This operation is IRREVERSIBLE! JTAG debugging will be permanently disabled.")
	fmt.Print("Are you sure you want to continue? [y/N] ")

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	fmt.Println("Scanning for ESP32-C6 devices...")
	devices, err := detect.ListDevices()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No ESP32-C6 devices found")
		return nil
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("Device %d:\n", i+1)
		printDeviceInfo(&d)
		fmt.Println()
	}

	return nil
}

func printDeviceInfo(d *detect.Result) {
	fmt.Printf("  Port:     %s\n", d.Port)
	fmt.Printf("  Type:     %s\n", d.Kind)
	fmt.Printf("  USB ID:   %s\n", d.USBID)
	if d.Product != "" {
		fmt.Printf("  Product:  %s\n", d.Product)
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := serial.ListDetailed()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	fmt.Println("Available serial ports:")
	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("  %-16s %s  %s\n", p.Name, p.USBID(), p.Product)
		} else {
			fmt.Printf("  %s\n", p.Name)
		}
	}

	return nil
}
