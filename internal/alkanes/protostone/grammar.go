// Package protostone converts instruction chains to and from the protostone text grammar
// and renders them as runestone annotations.
package protostone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// Encode renders a chain as comma-separated `<body>:<pointer>:<refund>` instructions.
func Encode(chain model.InstructionChain) string {
	parts := make([]string, 0, len(chain))
	for _, in := range chain {
		parts = append(parts, encodeInstruction(in))
	}
	return strings.Join(parts, ",")
}

func encodeInstruction(in model.Instruction) string {
	var body string
	switch in.Kind() {
	case model.KindEdict:
		e := in.Edict
		body = fmt.Sprintf("[%d:%d:%s:%s]", e.Asset.Block, e.Asset.Tx, e.Amount.Dec(), e.Target)
	case model.KindCellpack:
		values := in.Cellpack.Values()
		fields := make([]string, 0, len(values))
		for i := range values {
			fields = append(fields, values[i].Dec())
		}
		body = "[" + strings.Join(fields, ",") + "]"
	default:
		body = "[]"
	}
	return body + ":" + in.Pointer.String() + ":" + in.Refund.String()
}

// Decode parses protostone text into a chain. It does not check references; see Validate.
func Decode(text string) (model.InstructionChain, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	raw, err := splitTopLevel(text)
	if err != nil {
		return nil, err
	}
	chain := make(model.InstructionChain, 0, len(raw))
	for _, r := range raw {
		in, err := decodeInstruction(r)
		if err != nil {
			return nil, err
		}
		chain = append(chain, in)
	}
	return chain, nil
}

// splitTopLevel splits on commas that are outside brackets.
func splitTopLevel(text string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range text {
		switch r {
		case '[':
			depth++
			if depth > 1 {
				return nil, &model.GrammarError{Input: text, Reason: "nested brackets"}
			}
		case ']':
			depth--
			if depth < 0 {
				return nil, &model.GrammarError{Input: text, Reason: "unbalanced brackets"}
			}
		case ',':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, &model.GrammarError{Input: text, Reason: "unbalanced brackets"}
	}
	return append(parts, text[start:]), nil
}

func decodeInstruction(text string) (model.Instruction, error) {
	if !strings.HasPrefix(text, "[") {
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: "instruction must start with a bracketed body"}
	}
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: "unterminated body"}
	}
	body, tail := text[1:end], text[end+1:]

	routing := strings.Split(strings.TrimPrefix(tail, ":"), ":")
	if !strings.HasPrefix(tail, ":") || len(routing) != 2 {
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: "want <body>:<pointer>:<refund>"}
	}
	pointer, err := model.ParseAddressReference(routing[0])
	if err != nil {
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: err.Error()}
	}
	refund, err := model.ParseAddressReference(routing[1])
	if err != nil {
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: err.Error()}
	}

	hasColon, hasComma := strings.Contains(body, ":"), strings.Contains(body, ",")
	switch {
	case hasColon && hasComma:
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: "body mixes edict and cellpack separators"}
	case hasColon:
		e, err := decodeEdict(body)
		if err != nil {
			return model.Instruction{}, &model.GrammarError{Input: text, Reason: err.Error()}
		}
		return model.EdictInstruction(e, pointer, refund), nil
	case hasComma:
		c, err := decodeCellpack(body)
		if err != nil {
			return model.Instruction{}, &model.GrammarError{Input: text, Reason: err.Error()}
		}
		return model.CellpackInstruction(c, pointer, refund), nil
	default:
		return model.Instruction{}, &model.GrammarError{Input: text, Reason: "body is neither an edict nor a cellpack"}
	}
}

func decodeEdict(body string) (model.Edict, error) {
	fields := strings.Split(body, ":")
	if len(fields) != 4 {
		return model.Edict{}, fmt.Errorf("edict wants block:tx:amount:target, got %d fields", len(fields))
	}
	block, err := parseUint64(fields[0])
	if err != nil {
		return model.Edict{}, fmt.Errorf("edict block: %w", err)
	}
	tx, err := parseUint64(fields[1])
	if err != nil {
		return model.Edict{}, fmt.Errorf("edict tx: %w", err)
	}
	amount, err := model.ParseAmount(fields[2])
	if err != nil {
		return model.Edict{}, fmt.Errorf("edict amount: %w", err)
	}
	target, err := model.ParseAddressReference(fields[3])
	if err != nil {
		return model.Edict{}, fmt.Errorf("edict target: %w", err)
	}
	return model.Edict{Asset: model.AssetID{Block: block, Tx: tx}, Amount: amount, Target: target}, nil
}

func decodeCellpack(body string) (model.Cellpack, error) {
	fields := strings.Split(body, ",")
	if len(fields) < 3 {
		return model.Cellpack{}, fmt.Errorf("cellpack wants block,tx,opcode[,args...], got %d values", len(fields))
	}
	block, err := parseUint64(fields[0])
	if err != nil {
		return model.Cellpack{}, fmt.Errorf("cellpack block: %w", err)
	}
	tx, err := parseUint64(fields[1])
	if err != nil {
		return model.Cellpack{}, fmt.Errorf("cellpack tx: %w", err)
	}
	c := model.Cellpack{Target: model.AssetID{Block: block, Tx: tx}}
	if c.Opcode, err = model.ParseAmount(fields[2]); err != nil {
		return model.Cellpack{}, fmt.Errorf("cellpack opcode: %w", err)
	}
	for i, f := range fields[3:] {
		v, err := model.ParseAmount(f)
		if err != nil {
			return model.Cellpack{}, fmt.Errorf("cellpack argument %d: %w", i, err)
		}
		c.Args = append(c.Args, v)
	}
	return c, nil
}

func parseUint64(s string) (uint64, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not an unsigned decimal", s)
		}
	}
	return strconv.ParseUint(s, 10, 64)
}

// Validate checks every instruction body and protostone reference in the chain.
// A pN reference must name an instruction that runs after the one using it.
func Validate(chain model.InstructionChain) error {
	for k, in := range chain {
		if in.Kind() == 0 {
			return &model.GrammarError{Input: encodeInstruction(in), Reason: fmt.Sprintf("instruction %d must carry exactly one edict or cellpack", k)}
		}
		for _, ref := range in.References() {
			if ref.Kind != model.RefProtostone {
				continue
			}
			j := int(ref.Index)
			switch {
			case j >= len(chain):
				return &model.GrammarError{Input: encodeInstruction(in), Reason: fmt.Sprintf("%s names no instruction in a chain of %d", ref, len(chain))}
			case j <= k:
				return &model.GrammarError{Input: encodeInstruction(in), Reason: fmt.Sprintf("instruction %d cannot feed %s, which has already run", k, ref)}
			}
		}
	}
	return nil
}
