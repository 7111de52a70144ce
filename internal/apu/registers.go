package apu

// Sound register addresses (low byte of 0xFF10-0xFF3F).
const (
	NR10 uint8 = 0x10 // Channel 1 sweep
	NR11 uint8 = 0x11 // Channel 1 duty & length
	NR12 uint8 = 0x12 // Channel 1 envelope
	NR13 uint8 = 0x13 // Channel 1 frequency low
	NR14 uint8 = 0x14 // Channel 1 frequency high & control

	NR21 uint8 = 0x16 // Channel 2 duty & length
	NR22 uint8 = 0x17 // Channel 2 envelope
	NR23 uint8 = 0x18 // Channel 2 frequency low
	NR24 uint8 = 0x19 // Channel 2 frequency high & control

	NR30 uint8 = 0x1A // Channel 3 DAC enable
	NR31 uint8 = 0x1B // Channel 3 length
	NR32 uint8 = 0x1C // Channel 3 output level
	NR33 uint8 = 0x1D // Channel 3 frequency low
	NR34 uint8 = 0x1E // Channel 3 frequency high & control

	NR41 uint8 = 0x20 // Channel 4 length
	NR42 uint8 = 0x21 // Channel 4 envelope
	NR43 uint8 = 0x22 // Channel 4 polynomial counter
	NR44 uint8 = 0x23 // Channel 4 control

	NR50 uint8 = 0x24 // Master volume
	NR51 uint8 = 0x25 // Panning
	NR52 uint8 = 0x26 // Power & channel status

	WaveRAMStart uint8 = 0x30 // Pattern RAM, 16 bytes
	WaveRAMEnd   uint8 = 0x3F
)

// registerBase is added to command-stream offsets (which count from NR10).
const registerBase = 0x10

// Control bits shared by NRx4.
const (
	triggerBit      = 0x80
	lengthEnableBit = 0x40
	freqHighMask    = 0x07
)

// readMask holds the bits that read back as 1 for each register in
// 0x10-0x2F. Write-only and unused bits read as 1.
var readMask = [0x20]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // unused, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // unused, NR41-NR44
	0x00, 0x00, 0x70, // NR50-NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // unused
}
