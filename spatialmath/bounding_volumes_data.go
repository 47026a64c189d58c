package spatialmath

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// BoundingVolumesDataSize is the encoded size of a BoundingVolumesData record in bytes.
const BoundingVolumesDataSize = 100

// BoundingVolumesData is the fixed layout record of a BoundingVolumes: 25 little endian float32 values in
// field order with no padding, header or checksum. An empty BoundingVolumes is stored with a negative
// SphereRadius.
type BoundingVolumesData struct {
	AABBMin      [3]float32
	AABBMax      [3]float32
	OBBCenter    [3]float32
	OBBAxisX     [3]float32
	OBBAxisY     [3]float32
	OBBAxisZ     [3]float32
	OBBHalfSize  [3]float32
	SphereCenter [3]float32
	SphereRadius float32
}

func toFloat32s(v r3.Vector) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func fromFloat32s(v [3]float32) r3.Vector {
	return r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Pack copies the volumes field by field into the record layout. Values are narrowed to float32.
func (bv BoundingVolumes) Pack() BoundingVolumesData {
	if bv.IsEmpty() {
		return BoundingVolumesData{SphereRadius: -1}
	}
	return BoundingVolumesData{
		AABBMin:      toFloat32s(bv.aabb.minPt),
		AABBMax:      toFloat32s(bv.aabb.maxPt),
		OBBCenter:    toFloat32s(bv.obb.center),
		OBBAxisX:     toFloat32s(bv.obb.axes[0]),
		OBBAxisY:     toFloat32s(bv.obb.axes[1]),
		OBBAxisZ:     toFloat32s(bv.obb.axes[2]),
		OBBHalfSize:  toFloat32s(bv.obb.halfSize),
		SphereCenter: toFloat32s(bv.sphere.center),
		SphereRadius: float32(bv.sphere.radius),
	}
}

// To overwrites bv with the record. Nothing is validated; a negative radius clears bv.
func (d BoundingVolumesData) To(bv *BoundingVolumes) {
	if d.SphereRadius < 0 {
		bv.Clear()
		return
	}
	bv.aabb.SetMinMax(fromFloat32s(d.AABBMin), fromFloat32s(d.AABBMax))
	bv.obb.SetWithAxes(
		fromFloat32s(d.OBBCenter),
		fromFloat32s(d.OBBAxisX),
		fromFloat32s(d.OBBAxisY),
		fromFloat32s(d.OBBAxisZ),
		fromFloat32s(d.OBBHalfSize),
	)
	bv.sphere.Set(fromFloat32s(d.SphereCenter), float64(d.SphereRadius))
}

// BoundingVolumes returns the volumes stored in the record.
func (d BoundingVolumesData) BoundingVolumes() BoundingVolumes {
	var bv BoundingVolumes
	d.To(&bv)
	return bv
}

// MarshalBinary encodes the record in its 100 byte little endian layout.
func (d BoundingVolumesData) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, BoundingVolumesDataSize))
	if err := binary.Write(buf, binary.LittleEndian, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes exactly one 100 byte record.
func (d *BoundingVolumesData) UnmarshalBinary(data []byte) error {
	if len(data) != BoundingVolumesDataSize {
		return errors.Errorf("bounding volumes record must be %d bytes, got %d", BoundingVolumesDataSize, len(data))
	}
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, d)
}

// WriteBoundingVolumes appends one packed record per volume to w.
func WriteBoundingVolumes(w io.Writer, volumes []BoundingVolumes) error {
	for i, bv := range volumes {
		if err := binary.Write(w, binary.LittleEndian, bv.Pack()); err != nil {
			return errors.Wrapf(err, "writing bounding volumes record %d", i)
		}
	}
	return nil
}

// ReadBoundingVolumes decodes packed records from r until EOF. A trailing partial record is an error.
func ReadBoundingVolumes(r io.Reader) ([]BoundingVolumes, error) {
	var out []BoundingVolumes
	for {
		var d BoundingVolumesData
		err := binary.Read(r, binary.LittleEndian, &d)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, errors.Wrapf(err, "reading bounding volumes record %d", len(out))
		}
		out = append(out, d.BoundingVolumes())
	}
}
