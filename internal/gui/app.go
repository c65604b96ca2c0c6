// Package gui is the N1 Burner desktop form.
package gui

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/golang/glog"

	"github.com/n1geiger/n1burner/internal/assets"
	"github.com/n1geiger/n1burner/internal/burner"
)

const appID = "io.github.n1geiger.n1burner"

// Preference keys
const (
	prefPort           = "serial_port"
	prefFirmware       = "firmware_path"
	prefBootloader     = "bootloader_path"
	prefPartitionTable = "partition_table_path"
)

const efuseWarning = "You are about to burn eFuse (DIS_PAD_JTAG).\n\n" +
	"This operation is IRREVERSIBLE!\n" +
	"JTAG debugging will be permanently disabled.\n\n" +
	"Are you sure you want to continue?"

// Options wires the form to the rest of the program.
type Options struct {
	Burner    *burner.Burner
	Assets    assets.Set
	ListPorts func() ([]string, error)
	Port      string
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	a := app.NewWithID(appID)
	w := a.NewWindow("N1 Burner")
	f := newForm(a, w, opts)
	w.SetContent(f.content)
	w.Resize(fyne.NewSize(800, 700))
	w.ShowAndRun()
}

type imageRow struct {
	choice *widget.RadioGroup
	entry  *widget.Entry
	browse *widget.Button
	box    fyne.CanvasObject
}

func (r *imageRow) state() ImageChoice {
	return ImageChoice{Default: r.choice.Selected != customize, Custom: r.entry.Text}
}

type form struct {
	app  fyne.App
	win  fyne.Window
	opts Options

	firstBurn      *widget.Check
	firstBurnBox   *fyne.Container
	bootloader     *imageRow
	partitionTable *imageRow
	efuse          *widget.Check
	firmware       *widget.Entry
	port           *widget.Select
	log            *widget.Label
	progress       *widget.ProgressBar
	burn           *widget.Button

	content fyne.CanvasObject

	showError func(err error)
	showInfo  func(title, message string)
	confirm   func(title, message string, cb func(bool))
}

func newForm(a fyne.App, w fyne.Window, opts Options) *form {
	f := &form{app: a, win: w, opts: opts}
	f.showError = func(err error) { dialog.ShowError(err, w) }
	f.showInfo = func(title, message string) { dialog.ShowInformation(title, message, w) }
	f.confirm = func(title, message string, cb func(bool)) {
		d := dialog.NewConfirm(title, message, cb, w)
		d.SetConfirmText("Yes")
		d.SetDismissText("No")
		d.Show()
	}
	prefs := a.Preferences()

	f.bootloader = f.newImageRow("Bootloader:", prefs.String(prefBootloader))
	f.partitionTable = f.newImageRow("Partition Table:", prefs.String(prefPartitionTable))

	f.efuse = widget.NewCheck("Burn eFuse - DIS_PAD_JTAG (permanently disables JTAG)", nil)
	f.firstBurnBox = container.NewVBox(f.bootloader.box, f.partitionTable.box, f.efuse)
	f.firstBurnBox.Hide()

	f.firstBurn = widget.NewCheck("First Burn", func(on bool) {
		if on {
			f.firstBurnBox.Show()
			return
		}
		f.efuse.SetChecked(false)
		f.firstBurnBox.Hide()
	})

	f.firmware = widget.NewEntry()
	f.firmware.SetPlaceHolder("firmware.bin")
	f.firmware.SetText(prefs.String(prefFirmware))
	f.firmware.Disable()
	fwBrowse := widget.NewButton("Browse", func() {
		f.openBin(f.firmware)
	})

	f.port = widget.NewSelect(nil, nil)
	refresh := widget.NewButton("Refresh", f.refreshPorts)
	port := opts.Port
	if port == "" {
		port = prefs.String(prefPort)
	}
	f.refreshPortsSelecting(port)

	f.log = widget.NewLabel("Ready")
	f.log.Wrapping = fyne.TextWrapWord
	f.progress = widget.NewProgressBar()

	f.burn = widget.NewButton("Burn Firmware", f.onBurn)
	f.burn.Importance = widget.DangerImportance

	if opts.Burner != nil {
		opts.Burner.SetLogCallback(func(line string) {
			fyne.Do(func() { f.log.SetText(line) })
		})
		opts.Burner.SetProgressCallback(func(current, total int) {
			if total == 0 {
				return
			}
			fyne.Do(func() { f.progress.SetValue(float64(current) / float64(total)) })
		})
	}

	controls := container.NewVBox(
		f.firstBurn,
		f.firstBurnBox,
		container.NewBorder(nil, nil, widget.NewLabel("Firmware:"), fwBrowse, f.firmware),
		container.NewBorder(nil, nil, widget.NewLabel("Serial Port:"), refresh, f.port),
		container.NewBorder(nil, nil, widget.NewLabel("Log:"), nil, f.log),
		f.progress,
		container.NewHBox(layout.NewSpacer(), f.burn, layout.NewSpacer()),
	)

	f.content = container.NewBorder(nil, controls, nil, nil, f.header())
	return f
}

func (f *form) header() fyne.CanvasObject {
	if path, ok := f.opts.Assets.Background(); ok {
		img := canvas.NewImageFromFile(path)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(200, 200))
		return img
	}
	return widget.NewLabelWithStyle("N1 Burner", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
}

func (f *form) newImageRow(label, saved string) *imageRow {
	r := &imageRow{}
	r.entry = widget.NewEntry()
	r.entry.Disable()
	r.browse = widget.NewButton("Browse", func() {
		f.openBin(r.entry)
	})
	r.browse.Disable()

	r.choice = widget.NewRadioGroup([]string{useDefault, customize}, func(selected string) {
		if selected == customize {
			r.browse.Enable()
			if r.entry.Text == "" {
				r.entry.SetText(saved)
			}
			return
		}
		r.entry.SetText("")
		r.browse.Disable()
	})
	r.choice.Horizontal = true
	r.choice.Required = true
	r.choice.SetSelected(useDefault)

	r.box = container.NewVBox(
		container.NewHBox(widget.NewLabel(label), r.choice),
		container.NewBorder(nil, nil, nil, r.browse, r.entry),
	)
	return r
}

// openBin shows a file picker limited to .bin files and stores the choice
// in entry.
func (f *form) openBin(entry *widget.Entry) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, f.win)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		entry.SetText(rc.URI().Path())
	}, f.win)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".bin"}))
	if entry.Text != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(filepath.Dir(entry.Text))); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

func (f *form) refreshPorts() {
	f.refreshPortsSelecting(f.port.Selected)
}

func (f *form) refreshPortsSelecting(want string) {
	var ports []string
	if f.opts.ListPorts != nil {
		var err error
		ports, err = f.opts.ListPorts()
		if err != nil {
			glog.Warningf("failed to list ports: %v", err)
		}
	}

	if len(ports) == 0 {
		f.port.Options = []string{burner.NoPortsPlaceholder}
		f.port.SetSelected(burner.NoPortsPlaceholder)
		f.port.Disable()
		return
	}

	f.port.Options = ports
	f.port.Enable()
	for _, p := range ports {
		if p == want {
			f.port.SetSelected(p)
			return
		}
	}
	f.port.SetSelected(ports[0])
}

func (f *form) state() FormState {
	return FormState{
		Port:           f.port.Selected,
		Firmware:       f.firmware.Text,
		FirstBurn:      f.firstBurn.Checked,
		Bootloader:     f.bootloader.state(),
		PartitionTable: f.partitionTable.state(),
		BurnEfuse:      f.efuse.Checked,
	}
}

func (f *form) onBurn() {
	job, err := f.state().Job(f.opts.Assets)
	if err != nil {
		f.showError(err)
		return
	}

	if !job.BurnEfuse {
		f.start(job)
		return
	}

	f.confirm("Warning - eFuse Burn", efuseWarning, func(ok bool) {
		if ok {
			f.start(job)
		}
	})
}

func (f *form) start(job burner.Job) {
	f.savePrefs(job)
	f.burn.Disable()
	f.progress.SetValue(0)

	go func() {
		err := f.opts.Burner.Burn(context.Background(), job)
		fyne.Do(func() {
			f.burn.Enable()
			if err != nil {
				glog.Errorf("burn failed: %v", err)
				f.showError(fmt.Errorf("Burn failed: %w", err))
				return
			}
			f.showInfo("Success", "Firmware burned successfully!")
		})
	}()
}

func (f *form) savePrefs(job burner.Job) {
	prefs := f.app.Preferences()
	prefs.SetString(prefPort, job.Port)
	prefs.SetString(prefFirmware, job.Firmware)
	if f.bootloader.choice.Selected == customize {
		prefs.SetString(prefBootloader, job.Bootloader)
	}
	if f.partitionTable.choice.Selected == customize {
		prefs.SetString(prefPartitionTable, job.PartitionTable)
	}
}
