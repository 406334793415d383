// Package codec converts human-readable product identifiers to and from the
// contract's fixed-width bytes32 form.
//
// The representable domain is any UTF-8 string of at most 32 bytes with no
// embedded NUL byte: the on-chain form is zero-padded, so a NUL inside the
// identifier cannot be distinguished from padding and is rejected up front.
package codec

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// IDLength is the fixed width of the on-chain identifier type.
const IDLength = 32

var (
	ErrIdentifierEmpty   = errors.New("product identifier is empty")
	ErrIdentifierTooLong = errors.New("product identifier exceeds 32 bytes")
	ErrEmbeddedNUL       = errors.New("product identifier contains a NUL byte")
	ErrInvalidEncoding   = errors.New("identifier bytes are not valid UTF-8")
)

// Encode converts a human-readable identifier into the contract's bytes32
// form by right-padding the UTF-8 bytes with zeros. It never truncates:
// identifiers longer than 32 bytes fail with ErrIdentifierTooLong.
func Encode(id string) ([IDLength]byte, error) {
	var out [IDLength]byte
	if id == "" {
		return out, ErrIdentifierEmpty
	}
	if len(id) > IDLength {
		return out, ErrIdentifierTooLong
	}
	if bytes.IndexByte([]byte(id), 0) >= 0 {
		return out, ErrEmbeddedNUL
	}
	copy(out[:], id)
	return out, nil
}

// Decode strips trailing zero padding from a bytes32 identifier and decodes
// the remaining bytes as UTF-8.
func Decode(id [IDLength]byte) (string, error) {
	trimmed := bytes.TrimRight(id[:], "\x00")
	if !utf8.Valid(trimmed) {
		return "", ErrInvalidEncoding
	}
	return string(trimmed), nil
}
