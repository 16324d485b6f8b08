package regnum

// DWARF register numbers for i386 (System V psABI).
const (
	X86Eax    = 0
	X86Ecx    = 1
	X86Edx    = 2
	X86Ebx    = 3
	X86Esp    = 4
	X86Ebp    = 5
	X86Esi    = 6
	X86Edi    = 7
	X86Eip    = 8
	X86Eflags = 9
	X86Trapno = 10
	X86St0    = 11
	X86St1    = 12
	X86St2    = 13
	X86St3    = 14
	X86St4    = 15
	X86St5    = 16
	X86St6    = 17
	X86St7    = 18
	X86Xmm0   = 21
	X86Xmm1   = 22
	X86Xmm2   = 23
	X86Xmm3   = 24
	X86Xmm4   = 25
	X86Xmm5   = 26
	X86Xmm6   = 27
	X86Xmm7   = 28
	X86Mm0    = 29
	X86Mm1    = 30
	X86Mm2    = 31
	X86Mm3    = 32
	X86Mm4    = 33
	X86Mm5    = 34
	X86Mm6    = 35
	X86Mm7    = 36
	X86Fcw    = 37
	X86Fsw    = 38
	X86Mxcsr  = 39
	X86Es     = 40
	X86Cs     = 41
	X86Ss     = 42
	X86Ds     = 43
	X86Fs     = 44
	X86Gs     = 45
	X86Tr     = 48
	X86Ldtr   = 49
)

// DWARF register numbers for x86-64 (System V psABI).
const (
	X64Rax    = 0
	X64Rdx    = 1
	X64Rcx    = 2
	X64Rbx    = 3
	X64Rsi    = 4
	X64Rdi    = 5
	X64Rbp    = 6
	X64Rsp    = 7
	X64R8     = 8
	X64R9     = 9
	X64R10    = 10
	X64R11    = 11
	X64R12    = 12
	X64R13    = 13
	X64R14    = 14
	X64R15    = 15
	X64Rip    = 16
	X64Xmm0   = 17
	X64Xmm1   = 18
	X64Xmm2   = 19
	X64Xmm3   = 20
	X64Xmm4   = 21
	X64Xmm5   = 22
	X64Xmm6   = 23
	X64Xmm7   = 24
	X64Xmm8   = 25
	X64Xmm9   = 26
	X64Xmm10  = 27
	X64Xmm11  = 28
	X64Xmm12  = 29
	X64Xmm13  = 30
	X64Xmm14  = 31
	X64Xmm15  = 32
	X64St0    = 33
	X64St1    = 34
	X64St2    = 35
	X64St3    = 36
	X64St4    = 37
	X64St5    = 38
	X64St6    = 39
	X64St7    = 40
	X64Mm0    = 41
	X64Mm1    = 42
	X64Mm2    = 43
	X64Mm3    = 44
	X64Mm4    = 45
	X64Mm5    = 46
	X64Mm6    = 47
	X64Mm7    = 48
	X64Rflags = 49
	X64Es     = 50
	X64Cs     = 51
	X64Ss     = 52
	X64Ds     = 53
	X64Fs     = 54
	X64Gs     = 55
	X64FsBase = 58
	X64GsBase = 59
	X64Tr     = 62
	X64Ldtr   = 63
	X64Xmm16  = 67
	X64Xmm17  = 68
	X64Xmm18  = 69
	X64Xmm19  = 70
	X64Xmm20  = 71
	X64Xmm21  = 72
	X64Xmm22  = 73
	X64Xmm23  = 74
	X64Xmm24  = 75
	X64Xmm25  = 76
	X64Xmm26  = 77
	X64Xmm27  = 78
	X64Xmm28  = 79
	X64Xmm29  = 80
	X64Xmm30  = 81
	X64Xmm31  = 82
)

var x86Regs = [50]regInfo{
	0:  {"eax", 4},
	1:  {"ecx", 4},
	2:  {"edx", 4},
	3:  {"ebx", 4},
	4:  {"esp", 4},
	5:  {"ebp", 4},
	6:  {"esi", 4},
	7:  {"edi", 4},
	8:  {"eip", 4},
	9:  {"eflags", 4},
	10: {"trapno", 0},
	11: {"st0", 10},
	12: {"st1", 10},
	13: {"st2", 10},
	14: {"st3", 10},
	15: {"st4", 10},
	16: {"st5", 10},
	17: {"st6", 10},
	18: {"st7", 10},
	21: {"xmm0", 16},
	22: {"xmm1", 16},
	23: {"xmm2", 16},
	24: {"xmm3", 16},
	25: {"xmm4", 16},
	26: {"xmm5", 16},
	27: {"xmm6", 16},
	28: {"xmm7", 16},
	29: {"mm0", 8},
	30: {"mm1", 8},
	31: {"mm2", 8},
	32: {"mm3", 8},
	33: {"mm4", 8},
	34: {"mm5", 8},
	35: {"mm6", 8},
	36: {"mm7", 8},
	37: {"fcw", 2},
	38: {"fsw", 2},
	39: {"mxcsr", 4},
	40: {"es", 2},
	41: {"cs", 2},
	42: {"ss", 2},
	43: {"ds", 2},
	44: {"fs", 2},
	45: {"gs", 2},
	48: {"tr", 0},
	49: {"ldtr", 0},
}

var x64Regs = [83]regInfo{
	0:  {"rax", 8},
	1:  {"rdx", 8},
	2:  {"rcx", 8},
	3:  {"rbx", 8},
	4:  {"rsi", 8},
	5:  {"rdi", 8},
	6:  {"rbp", 8},
	7:  {"rsp", 8},
	8:  {"r8", 8},
	9:  {"r9", 8},
	10: {"r10", 8},
	11: {"r11", 8},
	12: {"r12", 8},
	13: {"r13", 8},
	14: {"r14", 8},
	15: {"r15", 8},
	16: {"rip", 8},
	17: {"xmm0", 16},
	18: {"xmm1", 16},
	19: {"xmm2", 16},
	20: {"xmm3", 16},
	21: {"xmm4", 16},
	22: {"xmm5", 16},
	23: {"xmm6", 16},
	24: {"xmm7", 16},
	25: {"xmm8", 16},
	26: {"xmm9", 16},
	27: {"xmm10", 16},
	28: {"xmm11", 16},
	29: {"xmm12", 16},
	30: {"xmm13", 16},
	31: {"xmm14", 16},
	32: {"xmm15", 16},
	33: {"st0", 10},
	34: {"st1", 10},
	35: {"st2", 10},
	36: {"st3", 10},
	37: {"st4", 10},
	38: {"st5", 10},
	39: {"st6", 10},
	40: {"st7", 10},
	41: {"mm0", 8},
	42: {"mm1", 8},
	43: {"mm2", 8},
	44: {"mm3", 8},
	45: {"mm4", 8},
	46: {"mm5", 8},
	47: {"mm6", 8},
	48: {"mm7", 8},
	49: {"rflags", 4},
	50: {"es", 2},
	51: {"cs", 2},
	52: {"ss", 2},
	53: {"ds", 2},
	54: {"fs", 2},
	55: {"gs", 2},
	58: {"fsbase", 8},
	59: {"gsbase", 8},
	62: {"tr", 0},
	63: {"ldtr", 0},
	67: {"xmm16", 16},
	68: {"xmm17", 16},
	69: {"xmm18", 16},
	70: {"xmm19", 16},
	71: {"xmm20", 16},
	72: {"xmm21", 16},
	73: {"xmm22", 16},
	74: {"xmm23", 16},
	75: {"xmm24", 16},
	76: {"xmm25", 16},
	77: {"xmm26", 16},
	78: {"xmm27", 16},
	79: {"xmm28", 16},
	80: {"xmm29", 16},
	81: {"xmm30", 16},
	82: {"xmm31", 16},
}
