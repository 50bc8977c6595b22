// Package digest produces canonical, order-invariant fingerprints of trees,
// host instances, and solutions. A fingerprint is a fixed 128-bit value
// assembled by a bit-packing builder and rendered as 32 lower-case hex
// characters.
package digest

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size of a digest value.
const (
	// Bytes is the byte width of a digest.
	Bytes = 16

	// HexDigits is the length of a digest's canonical hex form.
	HexDigits = 2 * Bytes
)

// Errors raised by the builder and by deserialization.
var (
	// ErrInvalidLength is returned when an insertion would overflow the
	// 128-bit capacity, when Build is called before the value is complete,
	// or when serialized input has the wrong length.
	ErrInvalidLength = errors.New("digest: invalid length")

	// ErrInvalidAlignment is returned when a field insertion does not start
	// at the alignment its width requires.
	ErrInvalidAlignment = errors.New("digest: invalid alignment")

	// ErrInvalidValue is returned when a 4-bit field value exceeds 0xf.
	ErrInvalidValue = errors.New("digest: invalid value")
)

// InvalidCharError is returned when hex input contains a non-hex character.
type InvalidCharError struct {
	Char byte
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("digest: invalid char %q; support only [0-9a-fA-F]", e.Char)
}

// Digest is a 128-bit fingerprint. The zero value is all zero bits. Digests
// of different kinds (tree, instance, solution) share this one type; the
// producing function conveys the kind.
type Digest [Bytes]byte

// FromBytes builds a digest from exactly 16 raw bytes.
func FromBytes(b []byte) (Digest, error) {
	var d Digest

	if len(b) != Bytes {
		return d, ErrInvalidLength
	}

	copy(d[:], b)

	return d, nil
}

// FromHex parses the canonical 32-character hex form. Upper-case input is
// accepted and canonicalized.
func FromHex(s string) (Digest, error) {
	var d Digest

	if len(s) != HexDigits {
		return d, ErrInvalidLength
	}

	for i := range len(s) {
		if !isHexDigit(s[i]) {
			return d, &InvalidCharError{Char: s[i]}
		}
	}

	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, err
	}

	return d, nil
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// Bytes returns the raw 16-byte form.
func (d Digest) Bytes() []byte {
	return d[:]
}

// String returns the canonical lower-case hex form, always 32 characters.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Compare orders digests byte-wise, suitable as a sort or dedup key.
func (d Digest) Compare(other Digest) int {
	return bytes.Compare(d[:], other[:])
}

// MarshalText renders the canonical hex form.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the canonical hex form, rejecting wrong lengths and
// non-hex characters.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Builder assembles a digest by sequential field insertion. 4-bit fields may
// start at any nibble boundary; 8-, 16-, and 32-bit fields only at byte
// boundaries. The finished value must hold exactly 128 bits.
type Builder struct {
	buffer Digest
	bits   int
}

// PushU4 appends a 4-bit field. The value must fit in [0, 15].
func (b *Builder) PushU4(value uint8) error {
	if b.bits%4 != 0 {
		return ErrInvalidAlignment
	}

	if b.bits+4 > 8*Bytes {
		return ErrInvalidLength
	}

	if value > 0xf {
		return ErrInvalidValue
	}

	b.buffer[b.bits/8] <<= 4
	b.buffer[b.bits/8] |= value
	b.bits += 4

	return nil
}

// PushU8 appends an 8-bit field at a byte boundary.
func (b *Builder) PushU8(value uint8) error {
	if b.bits%8 != 0 {
		return ErrInvalidAlignment
	}

	if b.bits+8 > 8*Bytes {
		return ErrInvalidLength
	}

	b.buffer[b.bits/8] = value
	b.bits += 8

	return nil
}

// PushU16 appends a big-endian 16-bit field at a byte boundary.
func (b *Builder) PushU16(value uint16) error {
	if b.bits%8 != 0 {
		return ErrInvalidAlignment
	}

	if b.bits+16 > 8*Bytes {
		return ErrInvalidLength
	}

	if err := b.PushU8(uint8(value >> 8)); err != nil {
		return err
	}

	return b.PushU8(uint8(value))
}

// PushU32 appends a big-endian 32-bit field at a byte boundary.
func (b *Builder) PushU32(value uint32) error {
	if b.bits%8 != 0 {
		return ErrInvalidAlignment
	}

	if b.bits+32 > 8*Bytes {
		return ErrInvalidLength
	}

	if err := b.PushU16(uint16(value >> 16)); err != nil {
		return err
	}

	return b.PushU16(uint16(value))
}

// PushBytes appends a run of whole bytes. The capacity check runs up front
// so an oversized slice does not partially fill the buffer.
func (b *Builder) PushBytes(value []byte) error {
	if b.bits+8*len(value) > 8*Bytes {
		return ErrInvalidLength
	}

	for _, x := range value {
		if err := b.PushU8(x); err != nil {
			return err
		}
	}

	return nil
}

// Build returns the finished digest. It fails unless exactly 128 bits have
// been pushed.
func (b *Builder) Build() (Digest, error) {
	if b.bits != 8*Bytes {
		return Digest{}, ErrInvalidLength
	}

	return b.buffer, nil
}
