package gomap

import (
	"bytes"

	"github.com/jsonquill/jsonquill/encode"
	"github.com/jsonquill/jsonquill/scan"
)

// Marshal converts a Go value to JSON text.
func Marshal(v any, opts ...encode.Option) ([]byte, error) {
	node, err := ToNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode.Encode(node, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal scans JSON text and fills dst.
func Unmarshal(data []byte, dst any, opts ...scan.Option) error {
	node, err := scan.Scan("<bytes>", data, opts...)
	if err != nil {
		return err
	}
	return FromNode(node, dst)
}
