/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package feedrange

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/spaolacci/murmur3"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Component type tags of the canonical partition key encoding. Tag order
// defines cross-type ordering in the hashed space.
const (
	tagNull      byte = 0x01
	tagFalse     byte = 0x02
	tagTrue      byte = 0x03
	tagNumber    byte = 0x05
	tagString    byte = 0x08
	stringEnding byte = 0xFF
)

// EffectivePartitionKey hashes one partition key value into its position in
// the effective key space, as an uppercase hex string. The result is
// deterministic: equal values always land on the same effective key.
func EffectivePartitionKey(def storagemodels.PartitionKeyDefinition, pk storagemodels.PartitionKey) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}
	components := pk.Components()
	if len(components) == 0 {
		return "", errors.NewValidationError("partitionKey", "partition key has no components")
	}
	if len(components) > len(def.Paths) {
		return "", errors.NewValidationError("partitionKey",
			fmt.Sprintf("partition key has %d components but the definition has %d paths", len(components), len(def.Paths)))
	}

	switch def.Version {
	case 1:
		var buf bytes.Buffer
		for _, c := range components {
			if err := writeComponent(&buf, c); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%08X", murmur3.Sum32(buf.Bytes())), nil
	case 2:
		// Hierarchical keys hash each component independently; the effective
		// key is the concatenation, so a component prefix yields an effective
		// key prefix.
		var sb strings.Builder
		if def.Kind == storagemodels.PartitionKeyKindMultiHash {
			for _, c := range components {
				var buf bytes.Buffer
				if err := writeComponent(&buf, c); err != nil {
					return "", err
				}
				sb.WriteString(hash128Hex(buf.Bytes()))
			}
			return sb.String(), nil
		}
		var buf bytes.Buffer
		for _, c := range components {
			if err := writeComponent(&buf, c); err != nil {
				return "", err
			}
		}
		return hash128Hex(buf.Bytes()), nil
	default:
		return "", errors.NewValidationError("version", "partition key version must be 1 or 2")
	}
}

func hash128Hex(b []byte) string {
	h1, h2 := murmur3.Sum128(b)
	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], h1)
	binary.BigEndian.PutUint64(out[8:], h2)
	return strings.ToUpper(hex.EncodeToString(out[:]))
}

func writeComponent(buf *bytes.Buffer, c any) error {
	switch v := c.(type) {
	case nil:
		buf.WriteByte(tagNull)
	case bool:
		if v {
			buf.WriteByte(tagTrue)
		} else {
			buf.WriteByte(tagFalse)
		}
	case string:
		buf.WriteByte(tagString)
		buf.WriteString(v)
		buf.WriteByte(stringEnding)
	case float64:
		writeNumber(buf, v)
	case float32:
		writeNumber(buf, float64(v))
	case int:
		writeNumber(buf, float64(v))
	case int32:
		writeNumber(buf, float64(v))
	case int64:
		writeNumber(buf, float64(v))
	default:
		return errors.NewValidationError("partitionKey", fmt.Sprintf("unsupported component type %T", c))
	}
	return nil
}

func writeNumber(buf *bytes.Buffer, f float64) {
	buf.WriteByte(tagNumber)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(f))
	buf.Write(b[:])
}

// FromEffectivePartitionKey returns the degenerate range holding exactly one
// effective key. The max bound extends the key so every document under the
// key, and nothing else, falls inside.
func FromEffectivePartitionKey(epk string) Range {
	return Range{MinInclusive: epk, MaxExclusive: epk + MaxBound}
}

// FromPartitionKey hashes a partition key value and returns its degenerate
// feed range.
func FromPartitionKey(def storagemodels.PartitionKeyDefinition, pk storagemodels.PartitionKey) (Range, error) {
	epk, err := EffectivePartitionKey(def, pk)
	if err != nil {
		return Range{}, err
	}
	return FromEffectivePartitionKey(epk), nil
}
