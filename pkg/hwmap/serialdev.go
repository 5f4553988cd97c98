package hwmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ConsoleInterface is the USB interface number carrying the device console
// on TS11 adapters; interface 0 is the debug transport.
const ConsoleInterface = 1

// sysfs root, a variable so tests can point it at a fixture tree.
var sysUSBDevices = "/sys/bus/usb/devices"

// FindSerialDevice resolves the tty device node exposed by USB interface
// ifaceNum of the adapter, scanning sysfs for a matching VID/PID.
func FindSerialDevice(id AdapterID, ifaceNum int) (string, error) {
	entries, err := os.ReadDir(sysUSBDevices)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		base := filepath.Join(sysUSBDevices, e.Name())
		vid, err := readHexID(filepath.Join(base, "idVendor"))
		if err != nil {
			continue
		}
		pid, err := readHexID(filepath.Join(base, "idProduct"))
		if err != nil {
			continue
		}
		if vid != id.VID || pid != id.PID {
			continue
		}
		iface := filepath.Join(sysUSBDevices, fmt.Sprintf("%s:1.%d", e.Name(), ifaceNum))
		if dev := ttyUnder(iface); dev != "" {
			return "/dev/" + dev, nil
		}
	}
	return "", fmt.Errorf("no serial device found for adapter %v, check the USB connection", id)
}

// ttyUnder finds a tty name below an interface directory. FTDI interfaces
// expose <iface>/ttyUSBn, CDC-ACM ones <iface>/tty/ttyACMn.
func ttyUnder(iface string) string {
	for _, pattern := range []string{
		filepath.Join(iface, "tty[A-Z]*"),
		filepath.Join(iface, "tty", "tty*"),
	} {
		matches, err := filepath.Glob(pattern)
		if err == nil && len(matches) > 0 {
			return filepath.Base(matches[0])
		}
	}
	return ""
}

func readHexID(path string) (uint16, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(b)), 16, 16)
	return uint16(n), err
}
