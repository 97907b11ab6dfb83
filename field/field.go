// Package field implements GF(2^8) arithmetic with log/exp lookup tables
package field

import "sync"

// Size is the number of elements in the field
const Size = 256

// Order is the order of the multiplicative group (2^8 - 1)
const Order = 255

// PrimitivePoly is x^8 + x^4 + x^3 + x^2 + 1
const PrimitivePoly uint16 = 0x11d

// Tables holds the exponent and logarithm tables for GF(2^8).
// The exponent table is doubled so that log[a] + log[b] indexes it directly.
// A Tables value is immutable after construction.
type Tables struct {
	exp [Order * 2]uint8
	log [Size]uint8
}

var (
	defaultTables *Tables
	defaultOnce   sync.Once
)

// NewTables builds fresh tables by repeated doubling of the generator 1
func NewTables() *Tables {
	t := &Tables{}

	x := uint16(1)
	for i := 0; i < Order; i++ {
		t.exp[i] = uint8(x)
		t.log[x] = uint8(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= PrimitivePoly
		}
	}
	for i := Order; i < Order*2; i++ {
		t.exp[i] = t.exp[i-Order]
	}

	return t
}

// Default returns the process-wide shared tables, built on first use
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = NewTables()
	})
	return defaultTables
}

// Add returns a + b (XOR)
func (t *Tables) Add(a, b uint8) uint8 {
	return a ^ b
}

// Sub returns a - b, which equals a + b in characteristic 2
func (t *Tables) Sub(a, b uint8) uint8 {
	return a ^ b
}

// Mul returns a * b
func (t *Tables) Mul(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	return t.exp[int(t.log[a])+int(t.log[b])]
}

// Div returns a / b. Division by zero yields 0; callers must not rely on it.
func (t *Tables) Div(a, b uint8) uint8 {
	if a == 0 || b == 0 {
		return 0
	}
	idx := int(t.log[a]) - int(t.log[b])
	if idx < 0 {
		idx += Order
	}
	return t.exp[idx]
}

// Inv returns the multiplicative inverse of a, or 0 when a is 0
func (t *Tables) Inv(a uint8) uint8 {
	if a == 0 {
		return 0
	}
	return t.exp[Order-int(t.log[a])]
}

// Exp returns g^i for the generator g = 2. Negative i wraps modulo Order.
func (t *Tables) Exp(i int) uint8 {
	i %= Order
	if i < 0 {
		i += Order
	}
	return t.exp[i]
}

// Log returns the discrete logarithm of a. Log(0) is undefined and returns 0.
func (t *Tables) Log(a uint8) int {
	return int(t.log[a])
}

// Pow returns a^e
func (t *Tables) Pow(a uint8, e int) uint8 {
	if e == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}
	return t.Exp(int(t.log[a]) * e)
}
