package domain

import "encoding/binary"

// Encode serializes a node into the wire format: a varint id, a
// length-prefixed UTF-8 url, then a varint count of partitions followed by
// that many varint partition ids. Available is never written — it is
// derived from the availability tree at refresh time (spec §4.1).
func Encode(n Node) []byte {
	buf := make([]byte, 0, 16+len(n.URL)+4*len(n.Partitions))

	var scratch [binary.MaxVarintLen64]byte
	put := func(v int64) {
		sz := binary.PutVarint(scratch[:], v)
		buf = append(buf, scratch[:sz]...)
	}
	putUvarint := func(v uint64) {
		sz := binary.PutUvarint(scratch[:], v)
		buf = append(buf, scratch[:sz]...)
	}

	put(int64(n.ID))

	putUvarint(uint64(len(n.URL)))
	buf = append(buf, n.URL...)

	putUvarint(uint64(len(n.Partitions)))
	for _, p := range n.Partitions {
		put(int64(p))
	}

	return buf
}

// Decode parses a node from its wire representation. Unknown trailing bytes
// after the partitions section are ignored, so future fields can be added
// without breaking old readers. A buffer that ends right after the url
// (no partitions section) decodes to a node with an empty partition list.
// A truncated or structurally invalid buffer yields ErrMalformedNode.
func Decode(b []byte) (Node, error) {
	id, n, ok := varint(b)
	if !ok {
		return Node{}, ErrMalformedNode.WithDetails("truncated id")
	}
	b = b[n:]

	urlLen, n, ok := uvarint(b)
	if !ok {
		return Node{}, ErrMalformedNode.WithDetails("truncated url length")
	}
	b = b[n:]
	if uint64(len(b)) < urlLen {
		return Node{}, ErrMalformedNode.WithDetails("truncated url body")
	}
	url := string(b[:urlLen])
	b = b[urlLen:]

	if url == "" {
		return Node{}, ErrMalformedNode.WithDetails("empty url")
	}

	if len(b) == 0 {
		return Node{ID: int32(id), URL: url, Partitions: []int32{}, Available: false}, nil
	}

	partCount, n, ok := uvarint(b)
	if !ok {
		return Node{}, ErrMalformedNode.WithDetails("truncated partition count")
	}
	b = b[n:]

	partitions := make([]int32, 0, partCount)
	for i := uint64(0); i < partCount; i++ {
		p, n, ok := varint(b)
		if !ok {
			return Node{}, ErrMalformedNode.WithDetails("truncated partition list")
		}
		b = b[n:]
		partitions = append(partitions, int32(p))
	}

	return Node{
		ID:         int32(id),
		URL:        url,
		Partitions: partitions,
		Available:  false,
	}, nil
}

func varint(b []byte) (int64, int, bool) {
	v, n := binary.Varint(b)
	if n <= 0 {
		return 0, 0, false
	}
	return v, n, true
}

func uvarint(b []byte) (uint64, int, bool) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, 0, false
	}
	return v, n, true
}
