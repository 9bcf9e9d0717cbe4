package utils

import "hash/fnv"

func U64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

func Mix64(parts ...uint64) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write(U64ToBytes(p))
	}
	return h.Sum64()
}
