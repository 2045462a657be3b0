// Package wire implements the Wayland wire codec: fixed-layout message
// framing and typed argument encode/decode against a Signature, exactly as
// the wire protocol defines it. It knows nothing about connections, object
// tables, or interfaces beyond the Signature passed in by the caller —
// those concerns live in transport, object, and proto respectively.
package wire

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
)

const (
	// HeaderSize is the 8-byte (id, size<<16|opcode) header.
	HeaderSize = 8
	// WordSize is the wire's unit of alignment; every message and every
	// string/array payload is padded up to a multiple of it.
	WordSize = 4

	MaxStringLen = 4096
	MaxArrayLen  = 65536
)

// Arg is one decoded or to-be-encoded argument. Exactly one of its fields
// is meaningful, selected by Kind; FD is never part of the encoded byte
// stream (file descriptors travel out-of-band, passed via ancillary data).
type Arg struct {
	Kind ArgKind

	Int    int32
	Uint   uint32
	Fx     Fixed
	Str    string
	Object uint32 // also carries new_id values
	Arr    []byte
	FD     int
}

func ArgInt(v int32) Arg        { return Arg{Kind: KindInt, Int: v} }
func ArgUint(v uint32) Arg      { return Arg{Kind: KindUint, Uint: v} }
func ArgFixed(v Fixed) Arg      { return Arg{Kind: KindFixed, Fx: v} }
func ArgString(v string) Arg    { return Arg{Kind: KindString, Str: v} }
func ArgObject(v uint32) Arg    { return Arg{Kind: KindObject, Object: v} }
func ArgNewID(v uint32) Arg     { return Arg{Kind: KindNewID, Object: v} }
func ArgArray(v []byte) Arg     { return Arg{Kind: KindArray, Arr: v} }
func ArgFD(v int) Arg           { return Arg{Kind: KindFD, FD: v} }

// Message is a single Wayland request or event: an object id, an opcode,
// and a decoded argument list.
type Message struct {
	ObjectID uint32
	Opcode   uint16
	Args     []Arg
}

func pad4(n int) int {
	return (WordSize - n%WordSize) % WordSize
}

// Encode serializes msg against sig into a contiguous byte buffer,
// returning it along with the file descriptors referenced by its 'h'
// arguments in the order they should be attached as ancillary data.
//
// It fails with BufferOverflow if the encoded size would not fit in the
// header's 16-bit size field, and InvalidArgument for an out-of-bounds
// string/array length or a null object id where the signature forbids
// null.
func Encode(msg Message, sig Signature) ([]byte, []int, error) {
	if len(msg.Args) != len(sig.Args) {
		return nil, nil, wlerr.New(wlerr.InvalidArgument, "argument count does not match signature")
	}

	buf := make([]byte, HeaderSize)
	var fds []int

	for idx, spec := range sig.Args {
		arg := msg.Args[idx]
		if arg.Kind != spec.Kind {
			return nil, nil, wlerr.New(wlerr.InvalidArgument, "argument kind mismatch at position "+strconv.Itoa(idx))
		}
		switch spec.Kind {
		case KindInt:
			buf = appendU32(buf, uint32(arg.Int))
		case KindUint:
			buf = appendU32(buf, arg.Uint)
		case KindFixed:
			buf = appendU32(buf, uint32(arg.Fx))
		case KindObject, KindNewID:
			if arg.Object == 0 && !spec.Nullable {
				return nil, nil, wlerr.New(wlerr.InvalidArgument, "non-nullable object argument is null")
			}
			buf = appendU32(buf, arg.Object)
		case KindString:
			if arg.Str == "" && spec.Nullable {
				buf = appendU32(buf, 0)
				break
			}
			raw := arg.Str
			if len(raw) > MaxStringLen {
				return nil, nil, wlerr.New(wlerr.InvalidArgument, "string exceeds maximum length")
			}
			strLen := len(raw) + 1
			buf = appendU32(buf, uint32(strLen))
			buf = append(buf, raw...)
			buf = append(buf, 0)
			buf = append(buf, make([]byte, pad4(strLen))...)
		case KindArray:
			if arg.Arr == nil && spec.Nullable {
				buf = appendU32(buf, 0)
				break
			}
			if len(arg.Arr) > MaxArrayLen {
				return nil, nil, wlerr.New(wlerr.InvalidArgument, "array exceeds maximum length")
			}
			buf = appendU32(buf, uint32(len(arg.Arr)))
			buf = append(buf, arg.Arr...)
			buf = append(buf, make([]byte, pad4(len(arg.Arr)))...)
		case KindFD:
			fds = append(fds, arg.FD)
		}
	}

	total := len(buf)
	if total > math.MaxUint16 {
		return nil, nil, wlerr.New(wlerr.BufferOverflow, "encoded message exceeds 16-bit size field")
	}
	if total%WordSize != 0 {
		return nil, nil, wlerr.New(wlerr.BufferOverflow, "encoded message is not word-aligned")
	}

	binary.LittleEndian.PutUint32(buf[0:4], msg.ObjectID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(total)<<16|uint32(msg.Opcode))
	return buf, fds, nil
}

// Decode parses buf (a single already-length-delimited message, header
// included) against sig, consuming file descriptors from fds in signature
// order for every 'h' argument.
//
// It fails with MalformedMessage for a short buffer, a header size below
// HeaderSize, a declared size that disagrees with len(buf), an argument
// that runs past the end of the message, or an FD underflow;
// InvalidArgument for a zero-length non-nullable string or an oversized
// string or array length; InvalidObject if the header's object id is 0 or
// a non-nullable object argument is null. A zero-length array decodes as
// an empty array.
func Decode(buf []byte, sig Signature, fds []int) (Message, error) {
	if len(buf) < HeaderSize {
		return Message{}, wlerr.New(wlerr.MalformedMessage, "buffer shorter than header")
	}
	id := binary.LittleEndian.Uint32(buf[0:4])
	sizeOpcode := binary.LittleEndian.Uint32(buf[4:8])
	size := sizeOpcode >> 16
	opcode := uint16(sizeOpcode & 0xffff)

	if size < HeaderSize {
		return Message{}, wlerr.New(wlerr.MalformedMessage, "declared size smaller than header")
	}
	if int(size) != len(buf) {
		return Message{}, wlerr.New(wlerr.MalformedMessage, "declared size does not match buffer length")
	}
	if id == 0 {
		return Message{}, wlerr.New(wlerr.InvalidObject, "message header carries null object id")
	}

	msg := Message{ObjectID: id, Opcode: opcode, Args: make([]Arg, 0, len(sig.Args))}
	body := buf[HeaderSize:]
	off := 0
	fdIdx := 0

	need := func(n int) error {
		if off+n > len(body) {
			return wlerr.New(wlerr.MalformedMessage, "argument runs past end of message")
		}
		return nil
	}

	for _, spec := range sig.Args {
		switch spec.Kind {
		case KindInt:
			if err := need(4); err != nil {
				return Message{}, err
			}
			v := int32(binary.LittleEndian.Uint32(body[off:]))
			off += 4
			msg.Args = append(msg.Args, ArgInt(v))
		case KindUint:
			if err := need(4); err != nil {
				return Message{}, err
			}
			v := binary.LittleEndian.Uint32(body[off:])
			off += 4
			msg.Args = append(msg.Args, ArgUint(v))
		case KindFixed:
			if err := need(4); err != nil {
				return Message{}, err
			}
			v := Fixed(binary.LittleEndian.Uint32(body[off:]))
			off += 4
			msg.Args = append(msg.Args, ArgFixed(v))
		case KindObject:
			if err := need(4); err != nil {
				return Message{}, err
			}
			v := binary.LittleEndian.Uint32(body[off:])
			off += 4
			if v == 0 && !spec.Nullable {
				return Message{}, wlerr.New(wlerr.InvalidObject, "non-nullable object argument is null")
			}
			msg.Args = append(msg.Args, ArgObject(v))
		case KindNewID:
			if err := need(4); err != nil {
				return Message{}, err
			}
			v := binary.LittleEndian.Uint32(body[off:])
			off += 4
			msg.Args = append(msg.Args, ArgNewID(v))
		case KindString:
			if err := need(4); err != nil {
				return Message{}, err
			}
			strLen := binary.LittleEndian.Uint32(body[off:])
			off += 4
			if strLen == 0 {
				if spec.Nullable {
					msg.Args = append(msg.Args, ArgString(""))
					continue
				}
				return Message{}, wlerr.New(wlerr.InvalidArgument, "zero-length non-nullable string")
			}
			if strLen > MaxStringLen {
				return Message{}, wlerr.New(wlerr.InvalidArgument, "string exceeds maximum length")
			}
			if err := need(int(strLen)); err != nil {
				return Message{}, err
			}
			raw := body[off : off+int(strLen)-1]
			s := make([]byte, len(raw))
			copy(s, raw)
			off += int(strLen)
			off += pad4(int(strLen))
			msg.Args = append(msg.Args, ArgString(string(s)))
		case KindArray:
			if err := need(4); err != nil {
				return Message{}, err
			}
			arrLen := binary.LittleEndian.Uint32(body[off:])
			off += 4
			if arrLen == 0 && spec.Nullable {
				msg.Args = append(msg.Args, ArgArray(nil))
				continue
			}
			if arrLen > MaxArrayLen {
				return Message{}, wlerr.New(wlerr.InvalidArgument, "array exceeds maximum length")
			}
			if err := need(int(arrLen)); err != nil {
				return Message{}, err
			}
			a := make([]byte, arrLen)
			copy(a, body[off:off+int(arrLen)])
			off += int(arrLen)
			off += pad4(int(arrLen))
			msg.Args = append(msg.Args, ArgArray(a))
		case KindFD:
			if fdIdx >= len(fds) {
				return Message{}, wlerr.New(wlerr.MalformedMessage, "file descriptor queue underflow")
			}
			msg.Args = append(msg.Args, ArgFD(fds[fdIdx]))
			fdIdx++
		}
	}

	return msg, nil
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

