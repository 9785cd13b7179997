package bitstream

// WriteBytes transfers data into the buffer at the current position,
// byte 0 first, and advances the cursor by len(data)*8 bits. When the
// cursor is byte-aligned the transfer is a single contiguous copy;
// otherwise it falls back to one 8-bit write per byte.
//
// This is the fast path for payloads following a bit-packed header.
func (c *Cursor) WriteBytes(data []byte) {
	c.assertIO(ModeWriter, 8)

	if c.pos%8 == 0 {
		off := c.pos / 8
		copy(c.buf[off:off+uint(len(data))], data)
		c.pos += uint(len(data)) * 8
		return
	}

	for _, b := range data {
		c.Write(8, uint32(b))
	}
}

// ReadBytes fills dst from the buffer at the current position and
// advances the cursor by len(dst)*8 bits. Alignment handling mirrors
// WriteBytes.
func (c *Cursor) ReadBytes(dst []byte) {
	c.assertIO(ModeReader, 8)

	if c.pos%8 == 0 {
		off := c.pos / 8
		copy(dst, c.buf[off:off+uint(len(dst))])
		c.pos += uint(len(dst)) * 8
		return
	}

	for i := range dst {
		dst[i] = byte(c.Read(8))
	}
}
