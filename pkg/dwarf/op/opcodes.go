package op

import "fmt"

// Opcode is a DW_OP value.
type Opcode byte

const (
	OpNull               Opcode = 0x00
	OpAddr               Opcode = 0x03
	OpDeref              Opcode = 0x06
	OpConst1U            Opcode = 0x08
	OpConst1S            Opcode = 0x09
	OpConst2U            Opcode = 0x0a
	OpConst2S            Opcode = 0x0b
	OpConst4U            Opcode = 0x0c
	OpConst4S            Opcode = 0x0d
	OpConst8U            Opcode = 0x0e
	OpConst8S            Opcode = 0x0f
	OpConstU             Opcode = 0x10
	OpConstS             Opcode = 0x11
	OpDup                Opcode = 0x12
	OpDrop               Opcode = 0x13
	OpOver               Opcode = 0x14
	OpPick               Opcode = 0x15
	OpSwap               Opcode = 0x16
	OpRot                Opcode = 0x17
	OpXDeref             Opcode = 0x18
	OpAbs                Opcode = 0x19
	OpAnd                Opcode = 0x1a
	OpDiv                Opcode = 0x1b
	OpMinus              Opcode = 0x1c
	OpMod                Opcode = 0x1d
	OpMul                Opcode = 0x1e
	OpNeg                Opcode = 0x1f
	OpNot                Opcode = 0x20
	OpOr                 Opcode = 0x21
	OpPlus               Opcode = 0x22
	OpPlusUConst         Opcode = 0x23
	OpShl                Opcode = 0x24
	OpShr                Opcode = 0x25
	OpShra               Opcode = 0x26
	OpXor                Opcode = 0x27
	OpSkip               Opcode = 0x2f
	OpBra                Opcode = 0x28
	OpEq                 Opcode = 0x29
	OpGe                 Opcode = 0x2a
	OpGt                 Opcode = 0x2b
	OpLe                 Opcode = 0x2c
	OpLt                 Opcode = 0x2d
	OpNe                 Opcode = 0x2e
	OpLit0               Opcode = 0x30
	OpLit1               Opcode = 0x31
	OpLit2               Opcode = 0x32
	OpLit3               Opcode = 0x33
	OpLit4               Opcode = 0x34
	OpLit5               Opcode = 0x35
	OpLit6               Opcode = 0x36
	OpLit7               Opcode = 0x37
	OpLit8               Opcode = 0x38
	OpLit9               Opcode = 0x39
	OpLit10              Opcode = 0x3a
	OpLit11              Opcode = 0x3b
	OpLit12              Opcode = 0x3c
	OpLit13              Opcode = 0x3d
	OpLit14              Opcode = 0x3e
	OpLit15              Opcode = 0x3f
	OpLit16              Opcode = 0x40
	OpLit17              Opcode = 0x41
	OpLit18              Opcode = 0x42
	OpLit19              Opcode = 0x43
	OpLit20              Opcode = 0x44
	OpLit21              Opcode = 0x45
	OpLit22              Opcode = 0x46
	OpLit23              Opcode = 0x47
	OpLit24              Opcode = 0x48
	OpLit25              Opcode = 0x49
	OpLit26              Opcode = 0x4a
	OpLit27              Opcode = 0x4b
	OpLit28              Opcode = 0x4c
	OpLit29              Opcode = 0x4d
	OpLit30              Opcode = 0x4e
	OpLit31              Opcode = 0x4f
	OpReg0               Opcode = 0x50
	OpReg1               Opcode = 0x51
	OpReg2               Opcode = 0x52
	OpReg3               Opcode = 0x53
	OpReg4               Opcode = 0x54
	OpReg5               Opcode = 0x55
	OpReg6               Opcode = 0x56
	OpReg7               Opcode = 0x57
	OpReg8               Opcode = 0x58
	OpReg9               Opcode = 0x59
	OpReg10              Opcode = 0x5a
	OpReg11              Opcode = 0x5b
	OpReg12              Opcode = 0x5c
	OpReg13              Opcode = 0x5d
	OpReg14              Opcode = 0x5e
	OpReg15              Opcode = 0x5f
	OpReg16              Opcode = 0x60
	OpReg17              Opcode = 0x61
	OpReg18              Opcode = 0x62
	OpReg19              Opcode = 0x63
	OpReg20              Opcode = 0x64
	OpReg21              Opcode = 0x65
	OpReg22              Opcode = 0x66
	OpReg23              Opcode = 0x67
	OpReg24              Opcode = 0x68
	OpReg25              Opcode = 0x69
	OpReg26              Opcode = 0x6a
	OpReg27              Opcode = 0x6b
	OpReg28              Opcode = 0x6c
	OpReg29              Opcode = 0x6d
	OpReg30              Opcode = 0x6e
	OpReg31              Opcode = 0x6f
	OpBReg0              Opcode = 0x70
	OpBReg1              Opcode = 0x71
	OpBReg2              Opcode = 0x72
	OpBReg3              Opcode = 0x73
	OpBReg4              Opcode = 0x74
	OpBReg5              Opcode = 0x75
	OpBReg6              Opcode = 0x76
	OpBReg7              Opcode = 0x77
	OpBReg8              Opcode = 0x78
	OpBReg9              Opcode = 0x79
	OpBReg10             Opcode = 0x7a
	OpBReg11             Opcode = 0x7b
	OpBReg12             Opcode = 0x7c
	OpBReg13             Opcode = 0x7d
	OpBReg14             Opcode = 0x7e
	OpBReg15             Opcode = 0x7f
	OpBReg16             Opcode = 0x80
	OpBReg17             Opcode = 0x81
	OpBReg18             Opcode = 0x82
	OpBReg19             Opcode = 0x83
	OpBReg20             Opcode = 0x84
	OpBReg21             Opcode = 0x85
	OpBReg22             Opcode = 0x86
	OpBReg23             Opcode = 0x87
	OpBReg24             Opcode = 0x88
	OpBReg25             Opcode = 0x89
	OpBReg26             Opcode = 0x8a
	OpBReg27             Opcode = 0x8b
	OpBReg28             Opcode = 0x8c
	OpBReg29             Opcode = 0x8d
	OpBReg30             Opcode = 0x8e
	OpBReg31             Opcode = 0x8f
	OpRegX               Opcode = 0x90
	OpFBReg              Opcode = 0x91
	OpBRegX              Opcode = 0x92
	OpPiece              Opcode = 0x93
	OpDerefSize          Opcode = 0x94
	OpXDerefSize         Opcode = 0x95
	OpNop                Opcode = 0x96
	OpPushObjectAddress  Opcode = 0x97
	OpCall2              Opcode = 0x98
	OpCall4              Opcode = 0x99
	OpCallRef            Opcode = 0x9a
	OpFormTlsAddress     Opcode = 0x9b
	OpCallFrameCfa       Opcode = 0x9c
	OpBitPiece           Opcode = 0x9d
	OpImplicitValue      Opcode = 0x9e
	OpStackValue         Opcode = 0x9f
	OpImplicitPointer    Opcode = 0xa0
	OpAddrx              Opcode = 0xa1
	OpConstx             Opcode = 0xa2
	OpEntryValue         Opcode = 0xa3
	OpConstType          Opcode = 0xa4
	OpRegvalType         Opcode = 0xa5
	OpDerefType          Opcode = 0xa6
	OpXderefType         Opcode = 0xa7
	OpConvert            Opcode = 0xa8
	OpReInterpret        Opcode = 0xa9
	OpGNUPushTlsAddress  Opcode = 0xe0
	OpGNUUnInit          Opcode = 0xf0
	OpGNUImplicitPointer Opcode = 0xf2
	OpGNUEntryValue      Opcode = 0xf3
	OpGNUConstType       Opcode = 0xf4
	OpGNURegvalType      Opcode = 0xf5
	OpGNUDerefType       Opcode = 0xf6
	OpGNUConvert         Opcode = 0xf7
	OpGNUParameterRef    Opcode = 0xfa
	OpGNUAddrIndex       Opcode = 0xfb
	OpGNUConstIndex      Opcode = 0xfc
)

var opNames = map[Opcode]string{
	OpNull:               "Null",
	OpAddr:               "Addr",
	OpDeref:              "Deref",
	OpConst1U:            "Const1U",
	OpConst1S:            "Const1S",
	OpConst2U:            "Const2U",
	OpConst2S:            "Const2S",
	OpConst4U:            "Const4U",
	OpConst4S:            "Const4S",
	OpConst8U:            "Const8U",
	OpConst8S:            "Const8S",
	OpConstU:             "ConstU",
	OpConstS:             "ConstS",
	OpDup:                "Dup",
	OpDrop:               "Drop",
	OpOver:               "Over",
	OpPick:               "Pick",
	OpSwap:               "Swap",
	OpRot:                "Rot",
	OpXDeref:             "XDeref",
	OpAbs:                "Abs",
	OpAnd:                "And",
	OpDiv:                "Div",
	OpMinus:              "Minus",
	OpMod:                "Mod",
	OpMul:                "Mul",
	OpNeg:                "Neg",
	OpNot:                "Not",
	OpOr:                 "Or",
	OpPlus:               "Plus",
	OpPlusUConst:         "PlusUConst",
	OpShl:                "Shl",
	OpShr:                "Shr",
	OpShra:               "Shra",
	OpXor:                "Xor",
	OpSkip:               "Skip",
	OpBra:                "Bra",
	OpEq:                 "Eq",
	OpGe:                 "Ge",
	OpGt:                 "Gt",
	OpLe:                 "Le",
	OpLt:                 "Lt",
	OpNe:                 "Ne",
	OpLit0:               "Lit0",
	OpLit1:               "Lit1",
	OpLit2:               "Lit2",
	OpLit3:               "Lit3",
	OpLit4:               "Lit4",
	OpLit5:               "Lit5",
	OpLit6:               "Lit6",
	OpLit7:               "Lit7",
	OpLit8:               "Lit8",
	OpLit9:               "Lit9",
	OpLit10:              "Lit10",
	OpLit11:              "Lit11",
	OpLit12:              "Lit12",
	OpLit13:              "Lit13",
	OpLit14:              "Lit14",
	OpLit15:              "Lit15",
	OpLit16:              "Lit16",
	OpLit17:              "Lit17",
	OpLit18:              "Lit18",
	OpLit19:              "Lit19",
	OpLit20:              "Lit20",
	OpLit21:              "Lit21",
	OpLit22:              "Lit22",
	OpLit23:              "Lit23",
	OpLit24:              "Lit24",
	OpLit25:              "Lit25",
	OpLit26:              "Lit26",
	OpLit27:              "Lit27",
	OpLit28:              "Lit28",
	OpLit29:              "Lit29",
	OpLit30:              "Lit30",
	OpLit31:              "Lit31",
	OpReg0:               "Reg0",
	OpReg1:               "Reg1",
	OpReg2:               "Reg2",
	OpReg3:               "Reg3",
	OpReg4:               "Reg4",
	OpReg5:               "Reg5",
	OpReg6:               "Reg6",
	OpReg7:               "Reg7",
	OpReg8:               "Reg8",
	OpReg9:               "Reg9",
	OpReg10:              "Reg10",
	OpReg11:              "Reg11",
	OpReg12:              "Reg12",
	OpReg13:              "Reg13",
	OpReg14:              "Reg14",
	OpReg15:              "Reg15",
	OpReg16:              "Reg16",
	OpReg17:              "Reg17",
	OpReg18:              "Reg18",
	OpReg19:              "Reg19",
	OpReg20:              "Reg20",
	OpReg21:              "Reg21",
	OpReg22:              "Reg22",
	OpReg23:              "Reg23",
	OpReg24:              "Reg24",
	OpReg25:              "Reg25",
	OpReg26:              "Reg26",
	OpReg27:              "Reg27",
	OpReg28:              "Reg28",
	OpReg29:              "Reg29",
	OpReg30:              "Reg30",
	OpReg31:              "Reg31",
	OpBReg0:              "BReg0",
	OpBReg1:              "BReg1",
	OpBReg2:              "BReg2",
	OpBReg3:              "BReg3",
	OpBReg4:              "BReg4",
	OpBReg5:              "BReg5",
	OpBReg6:              "BReg6",
	OpBReg7:              "BReg7",
	OpBReg8:              "BReg8",
	OpBReg9:              "BReg9",
	OpBReg10:             "BReg10",
	OpBReg11:             "BReg11",
	OpBReg12:             "BReg12",
	OpBReg13:             "BReg13",
	OpBReg14:             "BReg14",
	OpBReg15:             "BReg15",
	OpBReg16:             "BReg16",
	OpBReg17:             "BReg17",
	OpBReg18:             "BReg18",
	OpBReg19:             "BReg19",
	OpBReg20:             "BReg20",
	OpBReg21:             "BReg21",
	OpBReg22:             "BReg22",
	OpBReg23:             "BReg23",
	OpBReg24:             "BReg24",
	OpBReg25:             "BReg25",
	OpBReg26:             "BReg26",
	OpBReg27:             "BReg27",
	OpBReg28:             "BReg28",
	OpBReg29:             "BReg29",
	OpBReg30:             "BReg30",
	OpBReg31:             "BReg31",
	OpRegX:               "RegX",
	OpFBReg:              "FBReg",
	OpBRegX:              "BRegX",
	OpPiece:              "Piece",
	OpDerefSize:          "DerefSize",
	OpXDerefSize:         "XDerefSize",
	OpNop:                "Nop",
	OpPushObjectAddress:  "PushObjectAddress",
	OpCall2:              "Call2",
	OpCall4:              "Call4",
	OpCallRef:            "CallRef",
	OpFormTlsAddress:     "FormTlsAddress",
	OpCallFrameCfa:       "CallFrameCfa",
	OpBitPiece:           "BitPiece",
	OpImplicitValue:      "ImplicitValue",
	OpStackValue:         "StackValue",
	OpImplicitPointer:    "ImplicitPointer",
	OpAddrx:              "Addrx",
	OpConstx:             "Constx",
	OpEntryValue:         "EntryValue",
	OpConstType:          "ConstType",
	OpRegvalType:         "RegvalType",
	OpDerefType:          "DerefType",
	OpXderefType:         "XderefType",
	OpConvert:            "Convert",
	OpReInterpret:        "ReInterpret",
	OpGNUPushTlsAddress:  "GNU_PushTlsAddress",
	OpGNUUnInit:          "GNU_UnInit",
	OpGNUImplicitPointer: "GNU_ImplicitPointer",
	OpGNUEntryValue:      "GNU_EntryValue",
	OpGNUConstType:       "GNU_ConstType",
	OpGNURegvalType:      "GNU_RegvalType",
	OpGNUDerefType:       "GNU_DerefType",
	OpGNUConvert:         "GNU_Convert",
	OpGNUParameterRef:    "GNU_ParameterRef",
	OpGNUAddrIndex:       "GNU_AddrIndex",
	OpGNUConstIndex:      "GNU_ConstIndex",
}

func (op Opcode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%#x)", byte(op))
}
