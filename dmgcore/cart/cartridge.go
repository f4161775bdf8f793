// Package cart provides the opaque cartridge handle exchanged with the
// emulation engine, plus read-only header metadata for presentation
// consumers. Parsing the ROM contents beyond the header is the engine's
// job, not this package's.
package cart

import (
	"errors"
	"fmt"
)

const headerEnd = 0x150

const titleLength = 11

const (
	titleAddress         = 0x134
	cgbFlagAddress       = 0x143
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	versionAddress       = 0x14C
	headerChecksumAddr   = 0x14D
)

// ErrInvalidROM indicates data too short or inconsistent to be a cartridge.
// Callers should treat it as "no cartridge available", never as fatal.
var ErrInvalidROM = errors.New("invalid ROM data")

// MapperKind identifies the memory bank controller a cartridge uses.
type MapperKind uint8

const (
	MapperNone MapperKind = iota
	MapperMBC1
	MapperMBC2
	MapperMBC3
	MapperMBC5
	MapperUnknown
)

func (m MapperKind) String() string {
	switch m {
	case MapperNone:
		return "ROM only"
	case MapperMBC1:
		return "MBC1"
	case MapperMBC2:
		return "MBC2"
	case MapperMBC3:
		return "MBC3"
	case MapperMBC5:
		return "MBC5"
	default:
		return "unknown"
	}
}

// Cartridge holds a loaded ROM image together with its decoded header
// metadata. The adapter core owns it exclusively while inserted; ownership
// returns to the caller on eject.
type Cartridge struct {
	data []byte

	title      string
	mapper     MapperKind
	hasBattery bool
	hasClock   bool
	hasRumble  bool
	cartType   uint8
	romSize    uint8
	ramSize    uint8
	version    uint8
}

// New initializes a Cartridge from raw ROM bytes. Data shorter than the
// header region is rejected.
func New(data []byte) (*Cartridge, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidROM, len(data), headerEnd)
	}

	c := &Cartridge{
		data:     make([]byte, len(data)),
		title:    cleanTitle(data[titleAddress : titleAddress+titleLength]),
		cartType: data[cartridgeTypeAddress],
		romSize:  data[romSizeAddress],
		ramSize:  data[ramSizeAddress],
		version:  data[versionAddress],
	}
	copy(c.data, data)
	c.decodeType()

	return c, nil
}

// decodeType maps the cartridge type byte to mapper kind and capabilities.
func (c *Cartridge) decodeType() {
	switch c.cartType {
	case 0x00:
		c.mapper = MapperNone
	case 0x01, 0x02:
		c.mapper = MapperMBC1
	case 0x03:
		c.mapper = MapperMBC1
		c.hasBattery = true
	case 0x05:
		c.mapper = MapperMBC2
	case 0x06:
		c.mapper = MapperMBC2
		c.hasBattery = true
	case 0x08:
		c.mapper = MapperNone
	case 0x09:
		c.mapper = MapperNone
		c.hasBattery = true
	case 0x0F, 0x10:
		c.mapper = MapperMBC3
		c.hasBattery = true
		c.hasClock = true
	case 0x11, 0x12:
		c.mapper = MapperMBC3
	case 0x13:
		c.mapper = MapperMBC3
		c.hasBattery = true
	case 0x19, 0x1A:
		c.mapper = MapperMBC5
	case 0x1B:
		c.mapper = MapperMBC5
		c.hasBattery = true
	case 0x1C, 0x1D:
		c.mapper = MapperMBC5
		c.hasRumble = true
	case 0x1E:
		c.mapper = MapperMBC5
		c.hasBattery = true
		c.hasRumble = true
	default:
		c.mapper = MapperUnknown
	}
}

// Title returns the cleaned cartridge title from the header.
func (c *Cartridge) Title() string { return c.title }

// Mapper returns the memory bank controller kind.
func (c *Cartridge) Mapper() MapperKind { return c.mapper }

// HasBattery reports whether the cartridge has battery-backed RAM.
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// HasClock reports whether the cartridge has a real-time clock.
func (c *Cartridge) HasClock() bool { return c.hasClock }

// HasRumble reports whether the cartridge has a rumble motor.
func (c *Cartridge) HasRumble() bool { return c.hasRumble }

// Version returns the mask ROM version byte.
func (c *Cartridge) Version() uint8 { return c.version }

// Size returns the size of the ROM image in bytes.
func (c *Cartridge) Size() int { return len(c.data) }

// Data exposes the raw ROM bytes for the engine. Callers must not mutate.
func (c *Cartridge) Data() []byte { return c.data }
