package model

// Edict moves an exact amount of one asset to a target slot.
type Edict struct {
	Asset  AssetID
	Amount Amount
	Target AddressReference
}

// Cellpack is a contract invocation: target asset, opcode, then operation arguments.
type Cellpack struct {
	Target AssetID
	Opcode Amount
	Args   []Amount
}

// NewCellpack builds a cellpack from small integer arguments.
func NewCellpack(target AssetID, opcode uint64, args ...uint64) Cellpack {
	c := Cellpack{Target: target, Opcode: Units(opcode)}
	for _, a := range args {
		c.Args = append(c.Args, Units(a))
	}
	return c
}

// Values returns the flat integer form [block, tx, opcode, args...].
func (c Cellpack) Values() []Amount {
	out := make([]Amount, 0, 3+len(c.Args))
	out = append(out, Units(c.Target.Block), Units(c.Target.Tx), c.Opcode)
	return append(out, c.Args...)
}

// InstructionKind tags the body of an instruction.
type InstructionKind uint8

const (
	KindEdict InstructionKind = iota + 1
	KindCellpack
)

func (k InstructionKind) String() string {
	switch k {
	case KindEdict:
		return "edict"
	case KindCellpack:
		return "cellpack"
	default:
		return "unknown"
	}
}

// Instruction is one protostone: exactly one of Edict or Cellpack is set.
type Instruction struct {
	Edict    *Edict
	Cellpack *Cellpack
	Pointer  AddressReference
	Refund   AddressReference
}

// EdictInstruction wraps an edict with its pointer and refund.
func EdictInstruction(e Edict, pointer, refund AddressReference) Instruction {
	return Instruction{Edict: &e, Pointer: pointer, Refund: refund}
}

// CellpackInstruction wraps a cellpack with its pointer and refund.
func CellpackInstruction(c Cellpack, pointer, refund AddressReference) Instruction {
	return Instruction{Cellpack: &c, Pointer: pointer, Refund: refund}
}

// Kind reports which body the instruction carries. Zero means neither or both.
func (i Instruction) Kind() InstructionKind {
	switch {
	case i.Edict != nil && i.Cellpack == nil:
		return KindEdict
	case i.Cellpack != nil && i.Edict == nil:
		return KindCellpack
	default:
		return 0
	}
}

// References lists every address reference the instruction uses.
func (i Instruction) References() []AddressReference {
	refs := []AddressReference{i.Pointer, i.Refund}
	if i.Edict != nil {
		refs = append(refs, i.Edict.Target)
	}
	return refs
}

// InstructionChain is an ordered pipeline of protostones within one transaction.
type InstructionChain []Instruction

// EdictTotals sums edicted amounts per asset across the chain.
func (c InstructionChain) EdictTotals() map[AssetID]Amount {
	totals := make(map[AssetID]Amount)
	for _, in := range c {
		if in.Edict == nil {
			continue
		}
		sum := totals[in.Edict.Asset]
		sum.Add(&sum, &in.Edict.Amount)
		totals[in.Edict.Asset] = sum
	}
	return totals
}
