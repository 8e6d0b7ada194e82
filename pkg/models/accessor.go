package models

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// componentSize returns the byte size of one component.
func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	}
	return 0
}

// componentCount returns the number of components per element.
func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	}
	return 0
}

// decodeComponent reads one little-endian component from b. Normalized
// integer components map to [0, 1] (unsigned) or [-1, 1] (signed).
func decodeComponent(b []byte, ct gltf.ComponentType, normalized bool) float64 {
	switch ct {
	case gltf.ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case gltf.ComponentUbyte:
		if normalized {
			return float64(b[0]) / math.MaxUint8
		}
		return float64(b[0])
	case gltf.ComponentByte:
		if normalized {
			return max(float64(int8(b[0]))/math.MaxInt8, -1)
		}
		return float64(int8(b[0]))
	case gltf.ComponentUshort:
		v := binary.LittleEndian.Uint16(b)
		if normalized {
			return float64(v) / math.MaxUint16
		}
		return float64(v)
	case gltf.ComponentShort:
		v := int16(binary.LittleEndian.Uint16(b))
		if normalized {
			return max(float64(v)/math.MaxInt16, -1)
		}
		return float64(v)
	case gltf.ComponentUint:
		return float64(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// readAccessor returns the elements of accessor idx as a flat list along
// with the number of components per element.
func readAccessor(doc *gltf.Document, idx int) (values []float64, comps int, err error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acr := doc.Accessors[idx]
	comps = componentCount(acr.Type)
	size := componentSize(acr.ComponentType)
	if comps == 0 || size == 0 {
		return nil, 0, fmt.Errorf("unsupported accessor type: %v / %v", acr.Type, acr.ComponentType)
	}

	values = make([]float64, acr.Count*comps)
	// An accessor without a buffer view reads as zeros
	if acr.BufferView == nil {
		return values, comps, nil
	}

	data, stride, err := viewData(doc, *acr.BufferView)
	if err != nil {
		return nil, 0, err
	}
	if stride == 0 {
		stride = comps * size
	}

	last := acr.ByteOffset + (acr.Count-1)*stride + comps*size
	if acr.Count > 0 && (acr.ByteOffset < 0 || last > len(data)) {
		return nil, 0, fmt.Errorf("accessor %d overruns its buffer view", idx)
	}

	for i := range acr.Count {
		offset := acr.ByteOffset + i*stride
		for j := range comps {
			values[i*comps+j] = decodeComponent(data[offset+j*size:], acr.ComponentType, acr.Normalized)
		}
	}
	return values, comps, nil
}

// viewData returns the bytes and stride of buffer view idx.
func viewData(doc *gltf.Document, idx int) ([]byte, int, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", idx)
	}
	view := doc.BufferViews[idx]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buf := doc.Buffers[view.Buffer].Data
	if buf == nil {
		return nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}
	end := view.ByteOffset + view.ByteLength
	if view.ByteOffset < 0 || end > len(buf) {
		return nil, 0, fmt.Errorf("buffer view %d overruns buffer %d", idx, view.Buffer)
	}
	return buf[view.ByteOffset:end], view.ByteStride, nil
}

// readPositions reads a VEC3 accessor as a flat x, y, z list.
func readPositions(doc *gltf.Document, idx int) ([]float64, error) {
	values, comps, err := readAccessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if comps != 3 {
		return nil, fmt.Errorf("expected VEC3 positions, got %d components", comps)
	}
	return values, nil
}

// readColors reads a VEC3 or VEC4 color accessor as a flat RGB list.
// Alpha is dropped.
func readColors(doc *gltf.Document, idx int) ([]float64, error) {
	values, comps, err := readAccessor(doc, idx)
	if err != nil {
		return nil, err
	}
	switch comps {
	case 3:
		return values, nil
	case 4:
		rgb := make([]float64, 0, len(values)/4*3)
		for i := 0; i+3 < len(values); i += 4 {
			rgb = append(rgb, values[i], values[i+1], values[i+2])
		}
		return rgb, nil
	}
	return nil, fmt.Errorf("expected VEC3 or VEC4 colors, got %d components", comps)
}

// readTexCoords reads a VEC2 accessor as a flat u, v list with V flipped,
// since glTF puts V=0 at the top of the image and textures sample with
// V=0 at the bottom.
func readTexCoords(doc *gltf.Document, idx int) ([]float64, error) {
	values, comps, err := readAccessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if comps != 2 {
		return nil, fmt.Errorf("expected VEC2 texture coordinates, got %d components", comps)
	}
	for i := 1; i < len(values); i += 2 {
		values[i] = 1 - values[i]
	}
	return values, nil
}

// readIndices reads a SCALAR index accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	values, comps, err := readAccessor(doc, idx)
	if err != nil {
		return nil, err
	}
	if comps != 1 {
		return nil, fmt.Errorf("expected SCALAR indices, got %d components", comps)
	}
	indices := make([]int, len(values))
	for i, v := range values {
		indices[i] = int(v)
	}
	return indices, nil
}
