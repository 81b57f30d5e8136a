package input

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 hex keys.
type Keypad struct {
	keys [KeyCount]bool
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

func (k *Keypad) Press(key uint8) {
	k.keys[key&0x0F] = true
}

func (k *Keypad) Release(key uint8) {
	k.keys[key&0x0F] = false
}

func (k *Keypad) IsPressed(key uint8) bool {
	return k.keys[key&0x0F]
}

// State returns a snapshot of every key, indexed by key value.
func (k *Keypad) State() [KeyCount]bool {
	return k.keys
}
