package cpu

import "fmt"

// IllegalOpcode is returned when the fetched byte has no defined SM83
// instruction. The 11 undefined primary bytes (0xD3,0xDB,0xDD,0xE3,0xE4,
// 0xEB,0xEC,0xED,0xF4,0xFC,0xFD) all trigger this.
type IllegalOpcode struct {
	Opcode uint16
	PC     uint16
}

func (e *IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode 0x%04X at PC=0x%04X", e.Opcode, e.PC)
}

// StopRequest is returned from Step when the STOP instruction executes. It
// signals a clean shutdown of the run loop, not a fault.
type StopRequest struct{}

func (StopRequest) Error() string { return "stop requested" }
