package vec3

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Tensor is a row-major float32 array.
type Tensor struct {
	V     []float32
	Shape []int
}

// VectorTensor views v as a (len(v), 3) tensor sharing v's storage.
func VectorTensor(v []Vector3) *Tensor {
	return &Tensor{
		V:     Floats(v),
		Shape: []int{len(v), 3},
	}
}

// Vectors copies a (n, 3) tensor back into an aligned AoS buffer.
func (t *Tensor) Vectors() ([]Vector3, error) {
	if len(t.Shape) != 2 || t.Shape[1] != 3 {
		return nil, fmt.Errorf("shape %v is not (n, 3)", t.Shape)
	}
	if len(t.V) != t.Shape[0]*3 {
		return nil, fmt.Errorf("shape %v does not match %d values", t.Shape, len(t.V))
	}
	out, err := MakeAoS(t.Shape[0])
	if err != nil {
		return nil, err
	}
	copy(Floats(out), t.V)
	return out, nil
}

type safeTensorInfo struct {
	DType       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets []int  `json:"data_offsets"`
}

// WriteSafeTensors writes tensors in the safetensors format: a little-endian
// uint64 header length, a JSON header, then the raw values in key order.
func WriteSafeTensors(w io.Writer, tensors map[string]*Tensor) error {
	header := map[string]safeTensorInfo{}
	dataOffset := 0

	keys := []string{}
	for k := range tensors {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		begin := dataOffset
		dataOffset += len(tensors[k].V) * 4
		end := dataOffset
		header[k] = safeTensorInfo{
			DType:       "F32",
			Shape:       tensors[k].Shape,
			DataOffsets: []int{begin, end},
		}
	}

	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("while marshaling header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerBytes))); err != nil {
		return fmt.Errorf("while writing header length: %w", err)
	}

	if _, err := w.Write(headerBytes); err != nil {
		return fmt.Errorf("while writing header: %w", err)
	}

	for _, k := range keys {
		if err := binary.Write(w, binary.LittleEndian, tensors[k].V); err != nil {
			return fmt.Errorf("while writing %s values: %w", k, err)
		}
	}

	return nil
}

func ReadSafeTensors(r io.ReaderAt) (map[string]*Tensor, error) {
	var lenBytes [8]byte
	if _, err := r.ReadAt(lenBytes[:], 0); err != nil {
		return nil, fmt.Errorf("while reading header length: %w", err)
	}
	headerLen := binary.LittleEndian.Uint64(lenBytes[:])

	headerBytes := make([]byte, int(headerLen))
	if _, err := r.ReadAt(headerBytes, 8); err != nil {
		return nil, fmt.Errorf("while reading header: %w", err)
	}

	header := map[string]safeTensorInfo{}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("while parsing header: %w", err)
	}

	tensors := map[string]*Tensor{}
	for k, hdr := range header {
		if hdr.DType != "F32" {
			return nil, fmt.Errorf("unsupported dtype %s", hdr.DType)
		}
		if len(hdr.DataOffsets) != 2 {
			return nil, fmt.Errorf("bad data offsets %v for %s", hdr.DataOffsets, k)
		}

		size := 1
		for _, s := range hdr.Shape {
			if s < 1 {
				return nil, fmt.Errorf("bad shape %v", hdr.Shape)
			}
			size *= s
		}
		if hdr.DataOffsets[1]-hdr.DataOffsets[0] != size*4 {
			return nil, fmt.Errorf("data offsets %v do not match shape %v for %s", hdr.DataOffsets, hdr.Shape, k)
		}

		valBytes := make([]byte, size*4)
		if _, err := r.ReadAt(valBytes, 8+int64(headerLen)+int64(hdr.DataOffsets[0])); err != nil {
			return nil, fmt.Errorf("while reading bytes for %s: %w", k, err)
		}

		v := make([]float32, size)
		if _, err := binary.Decode(valBytes, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("while decoding %s: %w", k, err)
		}

		tensors[k] = &Tensor{
			V:     v,
			Shape: hdr.Shape,
		}
	}

	return tensors, nil
}
