package dmgcore

import "github.com/valeg/go-dmgcore/dmgcore/cart"

// Console is the minimal lifecycle surface needed for the composite
// operations. *Core implements it; a mock does for tests. Keeping Play and
// Stop as free functions over this interface means any implementation gets
// them for free.
type Console interface {
	Power(state PowerState)
	Insert(c *cart.Cartridge) error
	Eject() (*cart.Cartridge, error)
	Start()
	Pause()
}

var _ Console = (*Core)(nil)

// Play performs a clean load irrespective of prior power or cartridge
// state: power off, insert, power on. The previous cartridge, if any, is
// replaced.
func Play(c Console, cartridge *cart.Cartridge) error {
	c.Power(PowerOff)
	if err := c.Insert(cartridge); err != nil {
		return err
	}
	c.Power(PowerOn)
	return nil
}

// Stop halts the console and returns the cartridge that was loaded, or nil
// if none was. The console ends powered off. Ejecting happens after the
// power-off so the exchange stays within its defined power state.
func Stop(c Console) *cart.Cartridge {
	c.Pause()
	c.Power(PowerOff)
	cartridge, _ := c.Eject()
	return cartridge
}
