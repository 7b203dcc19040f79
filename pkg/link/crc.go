package link

// crcPoly is the CRC-8 Dallas/Maxim polynomial.
const crcPoly byte = 0x31

// CRC8 computes the frame checksum: poly 0x31, initial register 0x00,
// MSB-first, no input/output reflection.
func CRC8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
