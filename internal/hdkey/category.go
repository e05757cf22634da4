package hdkey

import "fmt"

// Category is the (mine, sweep) pair that identifies a derivation chain
// and the secrets produced from it. The bit encoding below is part of
// the wallet's durable derivation contract and must never change.
type Category uint8

const (
	CategoryReceive Category = iota // mine=false, sweep=true  -> bits 0
	CategoryPayment                 // mine=false, sweep=false -> bits 1
	CategoryChange                  // mine=true,  sweep=false -> bits 2
	CategoryMining                  // mine=true,  sweep=true  -> bits 3
)

// CategoryOf maps a (mine, sweep) pair to its Category.
func CategoryOf(mine, sweep bool) Category {
	switch {
	case !mine && sweep:
		return CategoryReceive
	case !mine && !sweep:
		return CategoryPayment
	case mine && !sweep:
		return CategoryChange
	default:
		return CategoryMining
	}
}

// MineSweep returns the (mine, sweep) pair for c.
func (c Category) MineSweep() (mine, sweep bool) {
	switch c {
	case CategoryReceive:
		return false, true
	case CategoryPayment:
		return false, false
	case CategoryChange:
		return true, false
	default:
		return true, true
	}
}

// Bits returns the 2-bit chaincode encoding for c.
func (c Category) Bits() uint8 {
	switch c {
	case CategoryReceive:
		return 0
	case CategoryPayment:
		return 1
	case CategoryChange:
		return 2
	default:
		return 3
	}
}

// Name returns the human-readable category name used for display and for
// the secret lines appended to the recovery log.
func (c Category) Name() string {
	switch c {
	case CategoryReceive:
		return "receive"
	case CategoryPayment:
		return "payment"
	case CategoryChange:
		return "change"
	default:
		return "mining"
	}
}

// LogEvent returns the recovery-log event keyword for c. "recieve" is a
// preserved misspelling: it is part of the on-disk recovery log format
// and changing it would break recovery of existing wallets.
func (c Category) LogEvent() string {
	switch c {
	case CategoryReceive:
		return "recieve"
	case CategoryPayment:
		return "pay"
	case CategoryChange:
		return "change"
	default:
		return "mining"
	}
}

// NoCategoryLogEvent is the recovery-log event for a secret not yet bound
// to any chain.
const NoCategoryLogEvent = "unused"

// CategoryByName is the inverse of Name. It accepts the four category
// names used in configuration and request files and rejects anything else,
// so a typo in a config file fails when the name is resolved rather than
// silently falling back to receive. config.Load itself does not check it.
func CategoryByName(name string) (Category, error) {
	switch name {
	case "receive":
		return CategoryReceive, nil
	case "payment":
		return CategoryPayment, nil
	case "change":
		return CategoryChange, nil
	case "mining":
		return CategoryMining, nil
	default:
		return 0, fmt.Errorf("hdkey: unknown category name %q", name)
	}
}
