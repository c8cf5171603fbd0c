package touch

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/models"
	"github.com/lunixbochs/struc"
	"github.com/segmentio/encoding/json"
)

const (
	// The maximum number of cursors a binary frame can hold.
	MaxBinaryCursors = math.MaxUint8
)

var binaryOptions = &struc.Options{Order: binary.LittleEndian}

// Frame is the set of contacts a touch surface reports at a given time.
type Frame struct {
	// The frame sequence number. Zero means unsequenced.
	Seq uint32 `json:"seq"`

	Cursors []models.Report `json:"cursors"`
}

// DecodeFrame decodes a JSON encoded frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.New("decoding frame failed").
			WithType(ErrTypeInvalidFrame).
			Wrap(err)
	}

	if err := f.validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func (f Frame) validate() error {
	for i, c := range f.Cursors {
		if c.ID == "" {
			return errors.New("frame cursor has no id").
				WithType(ErrTypeInvalidFrame).
				WithTag("seq", f.Seq).
				WithTag("index", i)
		}
	}
	return nil
}

type binaryFrame struct {
	Seq     uint32 `struc:"uint32"`
	Count   uint8  `struc:"uint8,sizeof=Cursors"`
	Cursors []binaryCursor
}

type binaryCursor struct {
	ID uint32  `struc:"uint32"`
	X  float32 `struc:"float32"`
	Y  float32 `struc:"float32"`
}

// MarshalBinary encodes the frame in its little endian binary form. Cursor ids
// must be unsigned 32-bit integers.
func (f Frame) MarshalBinary() ([]byte, error) {
	if len(f.Cursors) > MaxBinaryCursors {
		return nil, errors.New("too many cursors for a binary frame").
			WithType(ErrTypeInvalidFrame).
			WithTag("seq", f.Seq).
			WithTag("count", len(f.Cursors))
	}

	bf := binaryFrame{
		Seq:     f.Seq,
		Cursors: make([]binaryCursor, len(f.Cursors)),
	}

	for i, c := range f.Cursors {
		id, err := strconv.ParseUint(c.ID, 10, 32)
		if err != nil {
			return nil, errors.New("binary frame cursor id is not numeric").
				WithType(ErrTypeInvalidFrame).
				WithTag("seq", f.Seq).
				WithTag("cursor_id", c.ID).
				Wrap(err)
		}

		bf.Cursors[i] = binaryCursor{
			ID: uint32(id),
			X:  float32(c.X),
			Y:  float32(c.Y),
		}
	}

	var buf bytes.Buffer
	if err := struc.PackWithOptions(&buf, &bf, binaryOptions); err != nil {
		return nil, errors.New("packing binary frame failed").
			WithTag("seq", f.Seq).
			Wrap(err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a frame from its little endian binary form.
func (f *Frame) UnmarshalBinary(data []byte) error {
	var bf binaryFrame
	if err := struc.UnpackWithOptions(bytes.NewReader(data), &bf, binaryOptions); err != nil {
		return errors.New("unpacking binary frame failed").
			WithType(ErrTypeInvalidFrame).
			WithTag("size", len(data)).
			Wrap(err)
	}

	f.Seq = bf.Seq
	f.Cursors = make([]models.Report, len(bf.Cursors))
	for i, c := range bf.Cursors {
		f.Cursors[i] = models.Report{
			ID: strconv.FormatUint(uint64(c.ID), 10),
			X:  float64(c.X),
			Y:  float64(c.Y),
		}
	}
	return nil
}
