// Package hwmap resolves platform ids to physical hardware: the USB debug
// adapter assigned to a board slot, and the tty device that adapter exposes.
package hwmap

import (
	"fmt"

	"github.com/spf13/viper"
)

// AdapterID identifies a USB debug adapter by vendor and product id.
type AdapterID struct {
	VID uint16
	PID uint16
}

// String renders the id in lsusb notation.
func (id AdapterID) String() string {
	return fmt.Sprintf("%04x:%04x", id.VID, id.PID)
}

// Mapping is the adapter assignment file of one test station. One document
// keyed by platform id:
//
//	stm32-u5:
//	  vid: 0x0403
//	  pid: 0x6010
type Mapping struct {
	v *viper.Viper
}

// LoadMapping reads the adapter mapping file.
func LoadMapping(path string) (*Mapping, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read adapter mapping: %w", err)
	}
	return &Mapping{v: v}, nil
}

// Adapter returns the adapter assigned to the platform id. A platform
// without an assignment is a configuration error; nothing touches hardware
// after it.
func (m *Mapping) Adapter(platformID string) (AdapterID, error) {
	if !m.v.IsSet(platformID) {
		return AdapterID{}, fmt.Errorf(
			"platform %q has no adapter assigned in %s", platformID, m.v.ConfigFileUsed())
	}
	id := AdapterID{
		VID: uint16(m.v.GetUint32(platformID + ".vid")),
		PID: uint16(m.v.GetUint32(platformID + ".pid")),
	}
	if id.VID == 0 || id.PID == 0 {
		return AdapterID{}, fmt.Errorf(
			"platform %q has an incomplete adapter entry in %s", platformID, m.v.ConfigFileUsed())
	}
	return id, nil
}
