package adapter

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/gousb"
)

// Interface class codes
// Reference: http://www.usb.org/developers/defined_class
const IfaceClassPrinter = 0x07

// ErrNoPrinter is returned when no printer-class USB device is attached.
var ErrNoPrinter = errors.New("cannot find printer")

// PrinterInfo describes a printer-class USB device.
type PrinterInfo struct {
	Vendor       gousb.ID
	Product      gousb.ID
	Manufacturer string
	Name         string
	Serial       string
}

func (p PrinterInfo) String() string {
	if p.Manufacturer == "" && p.Name == "" {
		return fmt.Sprintf("USB %s:%s", p.Vendor, p.Product)
	}
	return fmt.Sprintf("USB %s %s (%s:%s)", p.Manufacturer, p.Name, p.Vendor, p.Product)
}

// USBAdapter writes to the first printer-class USB device through libusb,
// bypassing the kernel's usblp driver.
type USBAdapter struct {
	ctx         *gousb.Context
	device      *gousb.Device
	done        func()
	outEndpoint *gousb.OutEndpoint
	isOpen      bool
	mu          sync.Mutex
}

// NewUSBAdapterAuto creates an adapter for the first printer found.
func NewUSBAdapterAuto() (*USBAdapter, error) {
	ctx := gousb.NewContext()

	devices := FindPrinters(ctx)
	if len(devices) == 0 {
		ctx.Close()
		return nil, ErrNoPrinter
	}
	for _, d := range devices[1:] {
		d.Close()
	}

	return &USBAdapter{ctx: ctx, device: devices[0]}, nil
}

// IsPrinter checks if a device is a printer
func IsPrinter(dev *gousb.Device) bool {
	return dev != nil && printerInterface(dev) >= 0
}

// printerInterface returns the number of the first printer-class interface
// in the active configuration, or -1.
func printerInterface(dev *gousb.Device) int {
	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return -1
	}
	desc, ok := dev.Desc.Configs[cfgNum]
	if !ok {
		return -1
	}
	for _, iface := range desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == IfaceClassPrinter {
				return iface.Number
			}
		}
	}
	return -1
}

// FindPrinters returns all USB printer devices. The caller closes them.
func FindPrinters(ctx *gousb.Context) []*gousb.Device {
	var printers []*gousb.Device

	// OpenDevices may return an error alongside the devices it did open.
	devices, _ := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		for _, cfg := range desc.Configs {
			for _, iface := range cfg.Interfaces {
				for _, alt := range iface.AltSettings {
					if alt.Class == IfaceClassPrinter {
						return true
					}
				}
			}
		}
		return false
	})

	for _, dev := range devices {
		if IsPrinter(dev) {
			printers = append(printers, dev)
		} else {
			dev.Close()
		}
	}

	return printers
}

// ListPrinters describes every attached printer-class device.
func ListPrinters() []PrinterInfo {
	ctx := gousb.NewContext()
	defer ctx.Close()

	var infos []PrinterInfo
	for _, dev := range FindPrinters(ctx) {
		info := PrinterInfo{Vendor: dev.Desc.Vendor, Product: dev.Desc.Product}
		info.Manufacturer, _ = dev.Manufacturer()
		info.Name, _ = dev.Product()
		info.Serial, _ = dev.SerialNumber()
		infos = append(infos, info)
		dev.Close()
	}
	return infos
}

// Open claims the printer interface and finds its bulk-out endpoint.
func (a *USBAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return errors.New("device already open")
	}
	if a.device == nil {
		return errors.New("device not found")
	}

	// Set auto-detach kernel driver on Linux
	if runtime.GOOS == "linux" {
		if err := a.device.SetAutoDetach(true); err != nil {
			return fmt.Errorf("failed to set auto-detach: %w", err)
		}
	}

	num := printerInterface(a.device)
	if num < 0 {
		return errors.New("no printer interface found")
	}

	cfgNum, err := a.device.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("failed to get active config: %w", err)
	}
	cfg, err := a.device.Config(cfgNum)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	iface, err := cfg.Interface(num, 0)
	if err != nil {
		cfg.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	for _, ep := range iface.Setting.Endpoints {
		if ep.Direction != gousb.EndpointDirectionOut {
			continue
		}
		out, err := iface.OutEndpoint(ep.Number)
		if err == nil {
			a.outEndpoint = out
			break
		}
	}
	if a.outEndpoint == nil {
		iface.Close()
		cfg.Close()
		return errors.New("cannot find output endpoint from printer")
	}

	a.done = func() {
		iface.Close()
		cfg.Close()
	}
	a.isOpen = true
	return nil
}

// Write sends data to the printer
func (a *USBAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}

	n, err := a.outEndpoint.Write(data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	return n, nil
}

// Read is not supported; status read-back is unreliable on these printers.
func (a *USBAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}
	return 0, errors.New("read not supported on usb printer")
}

// Close releases the interface, the device and the libusb context.
func (a *USBAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error

	if a.done != nil {
		a.done()
		a.done = nil
	}
	a.outEndpoint = nil

	if a.device != nil {
		if err := a.device.Close(); err != nil {
			errs = append(errs, err)
		}
		a.device = nil
	}
	if a.ctx != nil {
		if err := a.ctx.Close(); err != nil {
			errs = append(errs, err)
		}
		a.ctx = nil
	}

	a.isOpen = false
	return errors.Join(errs...)
}

// IsOpen returns whether the device is open
func (a *USBAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isOpen
}
