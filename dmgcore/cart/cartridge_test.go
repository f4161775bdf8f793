package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildROM returns a minimal ROM image with the given title and type byte.
func buildROM(title string, cartType uint8) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[titleAddress:], title)
	rom[cartridgeTypeAddress] = cartType
	rom[versionAddress] = 0x01
	return rom
}

func TestNew_ShortData(t *testing.T) {
	_, err := New(make([]byte, 0x100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidROM)
}

func TestNew_DecodesHeader(t *testing.T) {
	c, err := New(buildROM("TESTGAME", 0x00))
	require.NoError(t, err)

	assert.Equal(t, "TESTGAME", c.Title())
	assert.Equal(t, MapperNone, c.Mapper())
	assert.False(t, c.HasBattery())
	assert.Equal(t, uint8(1), c.Version())
	assert.Equal(t, 0x8000, c.Size())
}

func TestNew_CopiesData(t *testing.T) {
	rom := buildROM("COPY", 0x00)
	c, err := New(rom)
	require.NoError(t, err)

	rom[titleAddress] = 'X'
	assert.Equal(t, "COPY", c.Title(), "cartridge must own a copy of the ROM bytes")
}

func TestMapperDecoding(t *testing.T) {
	tests := []struct {
		name     string
		cartType uint8
		mapper   MapperKind
		battery  bool
		clock    bool
		rumble   bool
	}{
		{"ROM only", 0x00, MapperNone, false, false, false},
		{"MBC1", 0x01, MapperMBC1, false, false, false},
		{"MBC1+RAM+battery", 0x03, MapperMBC1, true, false, false},
		{"MBC2+battery", 0x06, MapperMBC2, true, false, false},
		{"MBC3+clock+battery", 0x0F, MapperMBC3, true, true, false},
		{"MBC3+RAM+battery", 0x13, MapperMBC3, true, false, false},
		{"MBC5", 0x19, MapperMBC5, false, false, false},
		{"MBC5+rumble", 0x1C, MapperMBC5, false, false, true},
		{"MBC5+rumble+battery", 0x1E, MapperMBC5, true, false, true},
		{"unknown type", 0xFC, MapperUnknown, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(buildROM("GAME", tt.cartType))
			require.NoError(t, err)

			assert.Equal(t, tt.mapper, c.Mapper())
			assert.Equal(t, tt.battery, c.HasBattery())
			assert.Equal(t, tt.clock, c.HasClock())
			assert.Equal(t, tt.rumble, c.HasRumble())
		})
	}
}

func TestTitleCleaning(t *testing.T) {
	rom := buildROM("", 0x00)
	copy(rom[titleAddress:], []byte{'A', 0x00, 'B', 0x01, 'C'})

	c, err := New(rom)
	require.NoError(t, err)
	assert.Equal(t, "A B?C", c.Title())

	empty, err := New(buildROM("", 0x00))
	require.NoError(t, err)
	assert.Equal(t, "(Untitled)", empty.Title())
}
