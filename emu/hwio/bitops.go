package hwio

// SetBit returns val with bit n set.
func SetBit(val uint8, n uint) uint8 {
	return val | (1 << n)
}

// ClearBit returns val with bit n cleared.
func ClearBit(val uint8, n uint) uint8 {
	return val &^ (1 << n)
}

// GetBit returns true if bit n of val is set.
func GetBit(val uint8, n uint) bool {
	return val&(1<<n) != 0
}
