package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/finrag/finrag/core"
	"github.com/go-crypt/x/blake2b"
)

// Key prefixes for the node/tree keyspace.
const (
	nodePrefix      = "node"
	orderPrefix     = "order"
	treeIndexPrefix = "treeidx"
)

// nodeKey derives a content-free key for a node ("node:" followed by an
// 8-byte blake2b hash, 13 bytes in all) from its
// structural id, the way the teacher's core.IDFromContent derives a
// content-addressed key from chat text: both hash through blake2b
// rather than using the source string as the key directly, keeping
// every Badger key a fixed, short width regardless of id length.
func nodeKey(id core.NodeID) []byte {
	sum, err := blake2b.New(8, nil)
	if err != nil {
		panic(fmt.Sprintf("badger: blake2b.New(8, nil): %v", err))
	}
	sum.Write([]byte(id))
	h := sum.Sum(nil)
	key := make([]byte, len(nodePrefix)+1+len(h))
	offset := copy(key, nodePrefix)
	key[offset] = ':'
	copy(key[offset+1:], h)
	return key
}

// makeOrderKey generates the key that records a node's position in
// save order: level, then index within level, both big-endian so
// lexicographic iteration over the prefix replays §6's level-then-
// cluster order.
func makeOrderKey(level, indexInLevel int) []byte {
	prefix := orderPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(level))
	binary.BigEndian.PutUint32(buf[offset+4:], uint32(indexInLevel))
	return buf
}

// makeOrderPrefix returns the shared prefix for iterating every order
// key, used to replay save order during Load.
func makeOrderPrefix() []byte {
	return []byte(orderPrefix + ":")
}

// makeTreeIndexKey generates the single key holding the saved tree's
// index.json-equivalent metadata (D, total nodes, per-level counts,
// config).
func makeTreeIndexKey() []byte {
	return []byte(treeIndexPrefix)
}
