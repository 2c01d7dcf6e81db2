package probe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/layout"
)

// MaxBytes bounds the array a probe will materialize.
const MaxBytes = 64 << 20

// memoryWASM is a minimal module with 1 page of memory exported as "memory".
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory"
	0x02, 0x00, // kind: memory, index 0
}

// Probe owns a wazero runtime holding one linear memory.
// It is not safe for concurrent use.
type Probe struct {
	rt  wazero.Runtime
	mod api.Module
	mem Memory
}

// New starts a runtime and instantiates the memory module.
func New(ctx context.Context) (*Probe, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())

	mod, err := rt.InstantiateWithConfig(ctx, memoryWASM, wazero.NewModuleConfig().WithName("structlayout-probe"))
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseProbe, errors.KindInvalidData, err, "instantiate memory module")
	}

	mem := WrapMemory(mod.ExportedMemory("memory"))
	if mem == nil {
		rt.Close(ctx)
		return nil, errors.NotFound(errors.PhaseProbe, "export", "memory")
	}

	Logger().Debug("probe ready", zap.Uint32("memory_bytes", mem.Size()))
	return &Probe{rt: rt, mod: mod, mem: mem}, nil
}

// Close releases the runtime.
func (p *Probe) Close(ctx context.Context) error {
	return p.rt.Close(ctx)
}

// Memory returns the probe's linear memory.
func (p *Probe) Memory() Memory {
	return p.mem
}

// Pattern returns the byte written into every byte of field i of
// repetition rep. The high nibble identifies the field, the low nibble the
// repetition. Padding is left zero.
func Pattern(field int, rep int64) byte {
	return byte(0x10*(field%15+1)) | byte(rep%16)
}

func splat(b byte) uint64 {
	return uint64(b) * 0x0101010101010101
}

func arrayBytes(res *layout.Result, count int) (uint32, error) {
	if count < 0 {
		return 0, errors.InvalidInput(errors.PhaseProbe, "negative repetition count")
	}
	if res.Size > 0 && int64(count) > MaxBytes/res.Size {
		return 0, errors.New(errors.PhaseProbe, errors.KindOutOfBounds).
			Path("array").
			Value(count).
			Detail("%d repetitions of %d bytes exceed %d bytes", count, res.Size, MaxBytes).
			Build()
	}
	return uint32(res.Size * int64(count)), nil
}

func (p *Probe) ensure(n uint32) error {
	have := p.mem.Size()
	if n <= have {
		return nil
	}
	pages := (n - have + PageSize - 1) / PageSize
	Logger().Debug("growing probe memory", zap.Uint32("pages", pages))
	return p.mem.Grow(pages)
}

// Fill writes count consecutive instances of the structure starting at
// address 0, each field filled with its Pattern using a store of the
// field's own width.
func (p *Probe) Fill(res *layout.Result, count int) error {
	n, err := arrayBytes(res, count)
	if err != nil {
		return err
	}
	if err := p.ensure(n); err != nil {
		return err
	}
	if err := p.mem.Write(0, make([]byte, n)); err != nil {
		return err
	}

	for rep := int64(0); rep < int64(count); rep++ {
		base := rep * res.Size
		for _, f := range res.Fields {
			if err := p.store(uint32(base+f.Offset), f.Size, Pattern(f.Index, rep)); err != nil {
				return err
			}
		}
	}

	Logger().Debug("filled probe memory",
		zap.Int("count", count),
		zap.Int64("struct_size", res.Size),
		zap.Uint32("bytes", n),
	)
	return nil
}

func (p *Probe) store(addr uint32, size layout.FieldSize, b byte) error {
	v := splat(b)
	switch size {
	case layout.U8:
		return p.mem.WriteU8(addr, b)
	case layout.U16:
		return p.mem.WriteU16(addr, uint16(v))
	case layout.U32:
		return p.mem.WriteU32(addr, uint32(v))
	case layout.U64:
		return p.mem.WriteU64(addr, v)
	case layout.U128:
		if err := p.mem.WriteU64(addr, v); err != nil {
			return err
		}
		return p.mem.WriteU64(addr+8, v)
	}
	return errors.Unsupported(errors.PhaseProbe, size.String(), "unsupported field width")
}

// Owner says which part of which repetition a byte belongs to.
type Owner struct {
	Rep    int64
	Offset int64
	// Field is the field index, or -1 for padding.
	Field int
}

// Padding reports whether the byte is filler.
func (o Owner) Padding() bool {
	return o.Field < 0
}

// Map reads back count instances written by Fill and attributes every byte.
// A byte whose value disagrees with its owner is reported as a mismatch.
func (p *Probe) Map(res *layout.Result, count int) ([]byte, []Owner, error) {
	n, err := arrayBytes(res, count)
	if err != nil {
		return nil, nil, err
	}
	data, err := p.mem.Read(0, n)
	if err != nil {
		return nil, nil, err
	}

	owners := make([]Owner, n)
	regions := res.Spans()
	for rep := int64(0); rep < int64(count); rep++ {
		base := rep * res.Size
		for _, reg := range regions {
			want := byte(0)
			if !reg.IsPadding() {
				want = Pattern(reg.Field, rep)
			}
			for off := reg.Start; off < reg.Start+reg.Len; off++ {
				addr := base + off
				owners[addr] = Owner{Rep: rep, Offset: off, Field: reg.Field}
				if data[addr] != want {
					path := []string{fmt.Sprintf("[%d]", rep), "_"}
					if !reg.IsPadding() {
						path[1] = layout.FieldName(reg.Field)
					}
					return data, owners, errors.Mismatch(errors.PhaseProbe, path,
						fmt.Sprintf("byte at address %d", addr), data[addr], want)
				}
			}
		}
	}
	return data, owners, nil
}

// Dump fills memory with count instances and writes an annotated hex dump,
// 16 bytes per line. The annotation column names the owning field of each
// byte, '.' for padding and '#' for fields past 'z'.
func (p *Probe) Dump(w io.Writer, res *layout.Result, count int) error {
	if err := p.Fill(res, count); err != nil {
		return err
	}
	data, owners, err := p.Map(res, count)
	if err != nil {
		return err
	}
	return WriteDump(w, data, owners)
}

// WriteDump formats data with its ownership annotations.
func WriteDump(w io.Writer, data []byte, owners []Owner) error {
	var b strings.Builder
	for line := 0; line < len(data); line += 16 {
		end := min(line+16, len(data))
		fmt.Fprintf(&b, "%08x  ", line)
		for i := line; i < line+16; i++ {
			if i < end {
				fmt.Fprintf(&b, "%02x ", data[i])
			} else {
				b.WriteString("   ")
			}
			if i == line+7 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(" |")
		for i := line; i < end; i++ {
			b.WriteByte(annotation(owners[i]))
		}
		b.WriteString("|\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return errors.IO(errors.PhaseRender, "dump", err)
		}
		b.Reset()
	}
	return nil
}

func annotation(o Owner) byte {
	if o.Padding() {
		return '.'
	}
	name := layout.FieldName(o.Field)
	if len(name) > 1 {
		return '#'
	}
	return name[0]
}
