package workbench

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/anvilmerge/internal/game/anvil"
	"github.com/udisondev/anvilmerge/internal/game/enchant"
)

// Fingerprint identifies a merge request by content. Equal requests have
// equal fingerprints regardless of map iteration order.
type Fingerprint [blake2b.Size256]byte

// String returns the hex encoding.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// FingerprintOf hashes the canonical encoding of req.
func FingerprintOf(req anvil.Request) Fingerprint {
	buf := make([]byte, 0, 64)
	buf = appendProfile(buf, req.Target)
	buf = appendProfile(buf, req.Sacrifice)
	buf = binary.AppendVarint(buf, int64(req.TargetRepairCost))
	buf = binary.AppendVarint(buf, int64(req.SacrificeRepairCost))

	var flags byte
	if req.TargetIsStorage {
		flags |= 1
	}
	if req.SacrificeIsStorage {
		flags |= 2
	}
	if req.Renamed {
		flags |= 4
	}
	buf = append(buf, flags)

	return blake2b.Sum256(buf)
}

func appendProfile(buf []byte, p enchant.Profile) []byte {
	keys := p.Keys()
	buf = binary.AppendUvarint(buf, uint64(len(keys)))
	for _, e := range keys {
		buf = append(buf, byte(e))
		buf = binary.AppendVarint(buf, int64(p[e]))
	}
	return buf
}
