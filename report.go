package vkey

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/consensys/gnark/logger"
)

func EncodeKey(key []byte) string {
	return KEY_HEX_PREFIX + hex.EncodeToString(key)
}

// Report derives the verifying key of image and writes the single line
// "Program Verification Key: 0x…" to w. Nothing is written on failure.
func Report(w io.Writer, image Image, setup Setup) error {
	log := logger.Logger()
	log.Debug().Int("bytes", image.Len()).Msg("running program setup")
	_, vk, err := setup(image.Bytes())
	if err != nil {
		if errors.Is(err, ErrSetupFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}
	if isNil(vk) {
		return fmt.Errorf("%w: no verifying key", ErrSetupFailed)
	}
	key := vk.Bytes32()
	encoded := EncodeKey(key[:])
	log.Info().Str("vk", encoded).Msg("program setup done")
	_, err = fmt.Fprintln(w, KEY_LINE_PREFIX+encoded)
	return err
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(vk VerifyingKey) bool {
	if vk == nil {
		return true
	}
	switch v := reflect.ValueOf(vk); v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Run loads the image from src and reports its verifying key.
func Run(w io.Writer, src Source, setup Setup) error {
	image, err := src.Load()
	if err != nil {
		return err
	}
	return Report(w, image, setup)
}
