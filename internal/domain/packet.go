package domain

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/shopspring/decimal"
)

// packetVersion is the wire version of the cross-ledger packet encoding.
const packetVersion = 1

// Packet is a cross-ledger transfer in transit: produced by the source
// ledger's burn, consumed by the destination ledger's mint. It carries the
// source account's locked rate so accrual continues at the originating
// rate, not the destination's current global rate.
type Packet struct {
	ID                 string
	Amount             decimal.Decimal
	SourceLockedRate   decimal.Decimal
	DestinationAccount string
}

// Validate checks packet fields on the receiving side.
func (p *Packet) Validate() error {
	if p.Amount.IsNegative() || p.SourceLockedRate.IsNegative() {
		return ErrMalformedPacket
	}

	if p.Amount.IsPositive() && p.SourceLockedRate.IsZero() {
		// value can only have been burned from a funded account
		return ErrMalformedPacket
	}

	if p.DestinationAccount == "" {
		return ErrMalformedPacket
	}

	return nil
}

// MarshalBinary encodes the packet in a fixed layout:
// version(1) | amount(32, big-endian) | rate(32, big-endian) |
// destLen(2) | dest(destLen).
func (p *Packet) MarshalBinary() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	buf.WriteByte(packetVersion)
	buf.Write(pad32(p.Amount.BigInt()))
	buf.Write(pad32(p.SourceLockedRate.BigInt()))

	dest := []byte(p.DestinationAccount)
	if len(dest) > 0xffff {
		return nil, ErrMalformedPacket
	}

	var destLen [2]byte

	binary.BigEndian.PutUint16(destLen[:], uint16(len(dest)))
	buf.Write(destLen[:])
	buf.Write(dest)

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a packet produced by MarshalBinary.
func (p *Packet) UnmarshalBinary(data []byte) error {
	const header = 1 + 32 + 32 + 2

	if len(data) < header || data[0] != packetVersion {
		return ErrMalformedPacket
	}

	amount := new(big.Int).SetBytes(data[1:33])
	rate := new(big.Int).SetBytes(data[33:65])
	destLen := int(binary.BigEndian.Uint16(data[65:67]))

	if len(data) != header+destLen {
		return ErrMalformedPacket
	}

	p.Amount = decimal.NewFromBigInt(amount, 0)
	p.SourceLockedRate = decimal.NewFromBigInt(rate, 0)
	p.DestinationAccount = string(data[67 : 67+destLen])

	return p.Validate()
}

func pad32(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)

	return out
}
