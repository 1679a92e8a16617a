package vkey

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rift-labs-inc/vkey/program"
)

// Image is an immutable program image.
type Image struct {
	data []byte
}

func NewImage(data []byte) Image {
	return Image{data: bytes.Clone(data)}
}

// Bytes returns a copy of the image contents.
func (me Image) Bytes() []byte {
	return bytes.Clone(me.data)
}

func (me Image) Len() int {
	return len(me.data)
}

type Source interface {
	Load() (Image, error)
}

// File is a program image read from a path.
type File string

func (me File) Load() (Image, error) {
	data, err := os.ReadFile(string(me))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s is empty", ErrResourceUnavailable, string(me))
	}
	return Image{data: data}, nil
}

// Embedded is a program image compiled into the binary.
type Embedded struct {
	Name string
	Data []byte
}

func (me Embedded) Load() (Image, error) {
	if len(me.Data) == 0 {
		return Image{}, fmt.Errorf("%w: embedded %s is empty", ErrResourceUnavailable, me.Name)
	}
	return NewImage(me.Data), nil
}

var DefaultSource Source = Embedded{Name: program.ELF_NAME, Data: program.ELF}
