package vybiumole

import (
	"fmt"
	"math/big"

	"github.com/vybium/vybium-ole/internal/vybium-ole/core"
)

// Config represents the public parameters of an OLE session
type Config struct {
	// Field parameters
	FieldModulus *big.Int

	// Subgroup orders: A is the radix-2 input/result grid, B the
	// radix-3 codeword grid. They must be coprime and both must
	// divide FieldModulus - 1.
	SubgroupOrderA int
	SubgroupOrderB int

	// Hash function for the secret commitment
	HashFunction string // "sha256" or "sha3"
}

// DefaultConfig returns the protocol's fixed public parameters: the
// 127-bit prime with A = 256 and B = 2187
func DefaultConfig() *Config {
	return &Config{
		FieldModulus:   core.Q.Modulus(),
		SubgroupOrderA: core.A,
		SubgroupOrderB: core.B,
		HashFunction:   "sha256",
	}
}

// Validate checks if the configuration is valid. It verifies shape
// only (positive smooth orders dividing q-1, a supported hash); the
// subgroup generators themselves are asserted once at field
// construction, not per config object.
func (c *Config) Validate() error {
	if c.FieldModulus == nil || c.FieldModulus.Cmp(big.NewInt(2)) <= 0 {
		return fmt.Errorf("field modulus must be greater than 2")
	}

	if c.SubgroupOrderA <= 1 || !isPowerOf(2, c.SubgroupOrderA) {
		return fmt.Errorf("subgroup order A (%d) must be a power of two greater than 1", c.SubgroupOrderA)
	}

	if c.SubgroupOrderB <= 1 || !isPowerOf(3, c.SubgroupOrderB) {
		return fmt.Errorf("subgroup order B (%d) must be a power of three greater than 1", c.SubgroupOrderB)
	}

	if c.SubgroupOrderB <= c.SubgroupOrderA {
		return fmt.Errorf("subgroup order B (%d) must exceed subgroup order A (%d)", c.SubgroupOrderB, c.SubgroupOrderA)
	}

	qMinus1 := new(big.Int).Sub(c.FieldModulus, big.NewInt(1))
	for _, order := range []int{c.SubgroupOrderA, c.SubgroupOrderB} {
		if new(big.Int).Mod(qMinus1, big.NewInt(int64(order))).Sign() != 0 {
			return fmt.Errorf("subgroup order %d does not divide modulus - 1", order)
		}
	}

	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}

	return nil
}

// WithFieldModulus sets the field modulus
func (c *Config) WithFieldModulus(modulus *big.Int) *Config {
	c.FieldModulus = new(big.Int).Set(modulus)
	return c
}

// WithSubgroupOrders sets the radix-2 and radix-3 subgroup orders
func (c *Config) WithSubgroupOrders(a, b int) *Config {
	c.SubgroupOrderA = a
	c.SubgroupOrderB = b
	return c
}

// WithHashFunction sets the commitment hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		FieldModulus:   new(big.Int).Set(c.FieldModulus),
		SubgroupOrderA: c.SubgroupOrderA,
		SubgroupOrderB: c.SubgroupOrderB,
		HashFunction:   c.HashFunction,
	}
}

func isPowerOf(base, n int) bool {
	for n > 1 {
		if n%base != 0 {
			return false
		}
		n /= base
	}
	return n == 1
}
