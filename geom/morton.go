package geom

// expand3 spreads the low 10 bits of v so that each bit is separated by
// two zero bits.
func expand3(v uint32) uint32 {
	v = (v | (v << 16)) & 0xFF0000FF
	v = (v | (v << 8)) & 0x0F00F00F
	v = (v | (v << 4)) & 0xC30C30C3
	v = (v | (v << 2)) & 0x49249249
	return v
}

// Morton interleaves the low 10 bits of x, y, and z into a single 30-bit
// Morton code. Coordinates outside [0, 1023] give garbage.
func Morton(x, y, z uint32) uint32 {
	return expand3(x) | (expand3(y) << 1) | (expand3(z) << 2)
}
