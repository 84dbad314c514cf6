// Package shader holds the WGSL program that resolves an indexed composite
// on the GPU and compiles it for a host-provided device.
//
// The program samples two textures laid out by package render: the
// composite (CompositeDescriptor, CompositeBytes) and the palette
// (PaletteDescriptor, PaletteBytes), plus a uniform carrying the palette
// channel count (Params).
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/indexed.wgsl
var indexedSource string

// Entry points of the indexed program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Bind group 0 layout.
const (
	BindingComposite = 0
	BindingPalette   = 1
	BindingParams    = 2
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// ErrNoDevice is returned by CreateModule without a device.
var ErrNoDevice = errors.New("shader: nil device")

// Source returns the WGSL source of the indexed program.
func Source() string { return indexedSource }

// CompileSPIRV compiles the indexed program to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	return compile(indexedSource)
}

func compile(wgsl string) ([]uint32, error) {
	raw, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(raw) < 4 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("shader: compile: %d bytes is not a SPIR-V module", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	if words[0] != SPIRVMagic {
		return nil, fmt.Errorf("shader: compile: bad magic %#08x", words[0])
	}
	return words, nil
}

// CreateModule compiles the indexed program and loads it on device.
func CreateModule(device hal.Device) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	spirv, err := CompileSPIRV()
	if err != nil {
		return nil, err
	}
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "artboard indexed",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create module: %w", err)
	}
	return m, nil
}

// Params mirrors the IndexedParams uniform.
type Params struct {
	Channels uint32
}

// ParamsSize is the uniform buffer size, padded to 16 bytes.
const ParamsSize = 16

// Bytes returns the uniform buffer contents.
func (p Params) Bytes() []byte {
	b := make([]byte, ParamsSize)
	binary.LittleEndian.PutUint32(b, p.Channels)
	return b
}
