package protostone

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/holiman/uint256"
)

// Runestone and protostone field tags.
const (
	tagBody     = 0
	tagPointer  = 22
	tagProtocol = 16383

	protoTagMessage = 81
	protoTagPointer = 91
	protoTagRefund  = 93

	// AlkanesProtocol is the protocol tag of alkanes protostones.
	AlkanesProtocol = 1
)

// Layout describes the transaction the annotation is rendered into.
type Layout struct {
	// OutputCount is the number of transaction outputs, OP_RETURN included.
	OutputCount int
	// Pointer is the default output for unallocated alkanes; nil leaves the protocol default.
	Pointer *uint32
}

// Resolve maps a reference to its output index: vN is N, pN is the shadow output OutputCount+1+N.
func (l Layout) Resolve(ref model.AddressReference) (uint32, error) {
	switch ref.Kind {
	case model.RefOutput:
		if int(ref.Index) >= l.OutputCount {
			return 0, &model.UnresolvedReferenceError{Ref: ref, Reason: fmt.Sprintf("transaction has %d outputs", l.OutputCount)}
		}
		return ref.Index, nil
	case model.RefProtostone:
		return uint32(l.OutputCount) + 1 + ref.Index, nil
	default:
		return 0, &model.UnresolvedReferenceError{Ref: ref, Reason: "unknown reference kind"}
	}
}

// Encipher renders the chain as an OP_RETURN runestone script.
func Encipher(chain model.InstructionChain, layout Layout) ([]byte, error) {
	var ints []uint256.Int
	for i, in := range chain {
		stone, err := protostoneIntegers(in, layout)
		if err != nil {
			return nil, fmt.Errorf("protostone %d: %w", i, err)
		}
		ints = append(ints, stone...)
	}

	var payload []byte
	if layout.Pointer != nil {
		payload = appendVarint(payload, *uint256.NewInt(tagPointer))
		payload = appendVarint(payload, *uint256.NewInt(uint64(*layout.Pointer)))
	}
	for _, chunk := range packChunks(encodeVarints(ints)) {
		payload = appendVarint(payload, *uint256.NewInt(tagProtocol))
		payload = appendVarint(payload, chunk)
	}

	script := []byte{txscript.OP_RETURN, txscript.OP_13}
	for start := 0; start < len(payload); start += txscript.MaxScriptElementSize {
		end := start + txscript.MaxScriptElementSize
		if end > len(payload) {
			end = len(payload)
		}
		script = appendPush(script, payload[start:end])
	}
	return script, nil
}

func protostoneIntegers(in model.Instruction, layout Layout) ([]uint256.Int, error) {
	var fields []uint256.Int
	push := func(vs ...uint64) {
		for _, v := range vs {
			fields = append(fields, *uint256.NewInt(v))
		}
	}

	if in.Cellpack != nil {
		for _, chunk := range packChunks(encodeVarints(in.Cellpack.Values())) {
			push(protoTagMessage)
			fields = append(fields, chunk)
		}
	}
	pointer, err := layout.Resolve(in.Pointer)
	if err != nil {
		return nil, err
	}
	refund, err := layout.Resolve(in.Refund)
	if err != nil {
		return nil, err
	}
	push(protoTagPointer, uint64(pointer), protoTagRefund, uint64(refund))

	if in.Edict != nil {
		target, err := layout.Resolve(in.Edict.Target)
		if err != nil {
			return nil, err
		}
		push(tagBody, in.Edict.Asset.Block, in.Edict.Asset.Tx)
		fields = append(fields, in.Edict.Amount)
		push(uint64(target))
	}

	out := []uint256.Int{*uint256.NewInt(AlkanesProtocol), *uint256.NewInt(uint64(len(fields)))}
	return append(out, fields...), nil
}

// appendPush writes data with an explicit push opcode. Small values are never
// rewritten to OP_N, which would invalidate the runestone.
func appendPush(script, data []byte) []byte {
	switch n := len(data); {
	case n < txscript.OP_PUSHDATA1:
		script = append(script, byte(n))
	case n <= 0xff:
		script = append(script, txscript.OP_PUSHDATA1, byte(n))
	default:
		script = append(script, txscript.OP_PUSHDATA2, byte(n), byte(n>>8))
	}
	return append(script, data...)
}

// Runestone is the decoded outer layer of an annotation script.
type Runestone struct {
	Pointer     *uint32
	Protostones []RawProtostone
}

// RawProtostone is one protostone before reference resolution.
type RawProtostone struct {
	Protocol uint64
	Message  []uint256.Int
	Pointer  *uint32
	Refund   *uint32
	Edicts   [][4]uint256.Int
}

// Decipher parses a script produced by Encipher.
func Decipher(script []byte) (*Runestone, error) {
	tok := txscript.MakeScriptTokenizer(0, script)
	if !tok.Next() || tok.Opcode() != txscript.OP_RETURN {
		return nil, errors.New("script is not an OP_RETURN")
	}
	if !tok.Next() || tok.Opcode() != txscript.OP_13 {
		return nil, errors.New("missing runestone magic")
	}
	var payload []byte
	for tok.Next() {
		if tok.Opcode() > txscript.OP_PUSHDATA4 {
			return nil, fmt.Errorf("unexpected opcode 0x%02x in runestone payload", tok.Opcode())
		}
		payload = append(payload, tok.Data()...)
	}
	if err := tok.Err(); err != nil {
		return nil, fmt.Errorf("tokenize runestone: %w", err)
	}

	values, err := decodeVarints(payload)
	if err != nil {
		return nil, err
	}
	if len(values)%2 != 0 {
		return nil, errors.New("runestone payload has a dangling tag")
	}

	rs := &Runestone{}
	var chunks []uint256.Int
	for i := 0; i < len(values); i += 2 {
		tag, value := values[i], values[i+1]
		switch {
		case tag.Eq(uint256.NewInt(tagPointer)):
			p := uint32(value.Uint64())
			rs.Pointer = &p
		case tag.Eq(uint256.NewInt(tagProtocol)):
			chunks = append(chunks, value)
		}
	}

	ints, err := decodeVarints(unpackChunks(chunks))
	if err != nil {
		return nil, err
	}
	for len(ints) > 0 {
		protocol := ints[0]
		if protocol.IsZero() {
			break
		}
		var n uint64
		if len(ints) > 1 {
			n = ints[1].Uint64()
		}
		if n > uint64(len(chunks)*chunkSize) {
			return nil, fmt.Errorf("protostone declares %d fields in %d chunks", n, len(chunks))
		}
		body := padValues(ints[min(2, len(ints)):], int(n))
		ints = ints[min(2+int(n), len(ints)):]

		stone, err := parseProtostoneFields(protocol.Uint64(), body)
		if err != nil {
			return nil, err
		}
		rs.Protostones = append(rs.Protostones, stone)
	}
	return rs, nil
}

// padValues returns the first n values, zero-filling values trimmed from the final chunk.
func padValues(values []uint256.Int, n int) []uint256.Int {
	out := make([]uint256.Int, n)
	copy(out, values)
	return out
}

func parseProtostoneFields(protocol uint64, fields []uint256.Int) (RawProtostone, error) {
	stone := RawProtostone{Protocol: protocol}
	var message []uint256.Int
	for i := 0; i < len(fields); {
		tag := fields[i].Uint64()
		if tag == tagBody {
			rest := fields[i+1:]
			if len(rest)%4 != 0 {
				return stone, fmt.Errorf("edict body has %d values", len(rest))
			}
			var prev [2]uint256.Int
			for j := 0; j < len(rest); j += 4 {
				var e [4]uint256.Int
				e[0].Add(&prev[0], &rest[j])
				if rest[j].IsZero() {
					e[1].Add(&prev[1], &rest[j+1])
				} else {
					e[1] = rest[j+1]
				}
				e[2], e[3] = rest[j+2], rest[j+3]
				prev = [2]uint256.Int{e[0], e[1]}
				stone.Edicts = append(stone.Edicts, e)
			}
			break
		}
		if i+1 >= len(fields) {
			return stone, fmt.Errorf("protostone tag %d has no value", tag)
		}
		value := fields[i+1]
		switch tag {
		case protoTagMessage:
			message = append(message, value)
		case protoTagPointer:
			p := uint32(value.Uint64())
			stone.Pointer = &p
		case protoTagRefund:
			r := uint32(value.Uint64())
			stone.Refund = &r
		}
		i += 2
	}
	if len(message) > 0 {
		vals, err := decodeVarints(unpackChunks(message))
		if err != nil {
			return stone, fmt.Errorf("cellpack message: %w", err)
		}
		stone.Message = vals
	}
	return stone, nil
}

// DecodeChain turns deciphered protostones back into an instruction chain for a
// transaction with outputCount outputs. Trailing zero cellpack arguments past the
// opcode are not recoverable from the packed message.
func DecodeChain(rs *Runestone, outputCount int) (model.InstructionChain, error) {
	toRef := func(v *uint32) (model.AddressReference, error) {
		if v == nil {
			return model.Output(0), nil
		}
		switch {
		case int(*v) < outputCount:
			return model.Output(*v), nil
		case int(*v) > outputCount:
			return model.Protostone(*v - uint32(outputCount) - 1), nil
		default:
			return model.AddressReference{}, fmt.Errorf("output %d is not addressable", *v)
		}
	}

	chain := make(model.InstructionChain, 0, len(rs.Protostones))
	for i, stone := range rs.Protostones {
		pointer, err := toRef(stone.Pointer)
		if err != nil {
			return nil, fmt.Errorf("protostone %d pointer: %w", i, err)
		}
		refund, err := toRef(stone.Refund)
		if err != nil {
			return nil, fmt.Errorf("protostone %d refund: %w", i, err)
		}
		switch {
		case len(stone.Message) > 0:
			msg := padValues(stone.Message, max(3, len(stone.Message)))
			c := model.Cellpack{
				Target: model.AssetID{Block: msg[0].Uint64(), Tx: msg[1].Uint64()},
				Opcode: msg[2],
				Args:   msg[3:],
			}
			if len(c.Args) == 0 {
				c.Args = nil
			}
			chain = append(chain, model.CellpackInstruction(c, pointer, refund))
		case len(stone.Edicts) == 1:
			e := stone.Edicts[0]
			out := uint32(e[3].Uint64())
			target, err := toRef(&out)
			if err != nil {
				return nil, fmt.Errorf("protostone %d edict target: %w", i, err)
			}
			chain = append(chain, model.EdictInstruction(model.Edict{
				Asset:  model.AssetID{Block: e[0].Uint64(), Tx: e[1].Uint64()},
				Amount: e[2],
				Target: target,
			}, pointer, refund))
		default:
			return nil, fmt.Errorf("protostone %d has %d edicts and no message", i, len(stone.Edicts))
		}
	}
	return chain, nil
}
