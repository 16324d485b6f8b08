package reader

// TagKind is a DW_TAG value.
type TagKind uint64

const (
	TagNull                   TagKind = 0
	TagArrayType              TagKind = 0x01
	TagClassType              TagKind = 0x02
	TagEntryPoint             TagKind = 0x03
	TagEnumerationType        TagKind = 0x04
	TagFormalParameter        TagKind = 0x05
	TagImportedDeclaration    TagKind = 0x08
	TagLabel                  TagKind = 0x0a
	TagLexicalBlock           TagKind = 0x0b
	TagMember                 TagKind = 0x0d
	TagPointerType            TagKind = 0x0f
	TagReferenceType          TagKind = 0x10
	TagCompileUnit            TagKind = 0x11
	TagStringType             TagKind = 0x12
	TagStructureType          TagKind = 0x13
	TagSubroutineType         TagKind = 0x15
	TagTypedef                TagKind = 0x16
	TagUnionType              TagKind = 0x17
	TagUnspecifiedParameters  TagKind = 0x18
	TagVariant                TagKind = 0x19
	TagCommonBlock            TagKind = 0x1a
	TagCommonInclusion        TagKind = 0x1b
	TagInheritance            TagKind = 0x1c
	TagInlinedSubroutine      TagKind = 0x1d
	TagModule                 TagKind = 0x1e
	TagPtrToMemberType        TagKind = 0x1f
	TagSetType                TagKind = 0x20
	TagSubrangeType           TagKind = 0x21
	TagWithStmt               TagKind = 0x22
	TagAccessDeclaration      TagKind = 0x23
	TagBaseType               TagKind = 0x24
	TagCatchBlock             TagKind = 0x25
	TagConstType              TagKind = 0x26
	TagConstant               TagKind = 0x27
	TagEnumerator             TagKind = 0x28
	TagFileType               TagKind = 0x29
	TagFriend                 TagKind = 0x2a
	TagNameList               TagKind = 0x2b
	TagNameListItem           TagKind = 0x2c
	TagPackedType             TagKind = 0x2d
	TagSubProgram             TagKind = 0x2e
	TagTemplateTypeParameter  TagKind = 0x2f
	TagTemplateValueParameter TagKind = 0x30
	TagThrownType             TagKind = 0x31
	TagTryBlock               TagKind = 0x32
	TagVariantPart            TagKind = 0x33
	TagVariable               TagKind = 0x34
	TagVolatileType           TagKind = 0x35
	TagDwarfProcedure         TagKind = 0x36
	TagRestrictType           TagKind = 0x37
	TagInterfaceType          TagKind = 0x38
	TagNamespace              TagKind = 0x39
	TagImportedModule         TagKind = 0x3a
	TagUnspecifiedType        TagKind = 0x3b
	TagPartialUnit            TagKind = 0x3c
	TagImportedUnit           TagKind = 0x3d
	TagCondition              TagKind = 0x3f
	TagSharedType             TagKind = 0x40
	TagTypeUnit               TagKind = 0x41
	TagRValueReferenceType    TagKind = 0x42
	TagTemplateAlias          TagKind = 0x43
	TagCoarrayType            TagKind = 0x44
	TagGenericSubrange        TagKind = 0x45
	TagDynamicType            TagKind = 0x46
	TagAtomicType             TagKind = 0x47
	TagCallSite               TagKind = 0x48
	TagCallSiteParameter      TagKind = 0x49
	TagSkeletonUnit           TagKind = 0x4A
	TagImmutableType          TagKind = 0x4B
	TagGNUCallSite            TagKind = 0x4109
	TagGNUCallSiteParameter   TagKind = 0x410a

	TagUserLo TagKind = 0x4080
	TagUserHi TagKind = 0xffff
)

var tagNames = map[TagKind]string{
	TagArrayType:              "ArrayType",
	TagClassType:              "ClassType",
	TagEntryPoint:             "EntryPoint",
	TagEnumerationType:        "EnumerationType",
	TagFormalParameter:        "FormalParameter",
	TagImportedDeclaration:    "ImportedDeclaration",
	TagLabel:                  "Label",
	TagLexicalBlock:           "LexicalBlock",
	TagMember:                 "Member",
	TagPointerType:            "PointerType",
	TagReferenceType:          "ReferenceType",
	TagCompileUnit:            "CompileUnit",
	TagStringType:             "StringType",
	TagStructureType:          "StructureType",
	TagSubroutineType:         "SubroutineType",
	TagTypedef:                "Typedef",
	TagUnionType:              "UnionType",
	TagUnspecifiedParameters:  "UnspecifiedParameters",
	TagVariant:                "Variant",
	TagCommonBlock:            "CommonBlock",
	TagCommonInclusion:        "CommonInclusion",
	TagInheritance:            "Inheritance",
	TagInlinedSubroutine:      "InlinedSubroutine",
	TagModule:                 "Module",
	TagPtrToMemberType:        "PtrToMemberType",
	TagSetType:                "SetType",
	TagSubrangeType:           "SubrangeType",
	TagWithStmt:               "WithStmt",
	TagAccessDeclaration:      "AccessDeclaration",
	TagBaseType:               "BaseType",
	TagCatchBlock:             "CatchBlock",
	TagConstType:              "ConstType",
	TagConstant:               "Constant",
	TagEnumerator:             "Enumerator",
	TagFileType:               "FileType",
	TagFriend:                 "Friend",
	TagNameList:               "NameList",
	TagNameListItem:           "NameListItem",
	TagPackedType:             "PackedType",
	TagSubProgram:             "SubProgram",
	TagTemplateTypeParameter:  "TemplateTypeParameter",
	TagTemplateValueParameter: "TemplateValueParameter",
	TagThrownType:             "ThrownType",
	TagTryBlock:               "TryBlock",
	TagVariantPart:            "VariantPart",
	TagVariable:               "Variable",
	TagVolatileType:           "VolatileType",
	TagDwarfProcedure:         "DwarfProcedure",
	TagRestrictType:           "RestrictType",
	TagInterfaceType:          "InterfaceType",
	TagNamespace:              "Namespace",
	TagImportedModule:         "ImportedModule",
	TagUnspecifiedType:        "UnspecifiedType",
	TagPartialUnit:            "PartialUnit",
	TagImportedUnit:           "ImportedUnit",
	TagCondition:              "Condition",
	TagSharedType:             "SharedType",
	TagTypeUnit:               "TypeUnit",
	TagRValueReferenceType:    "RValueReferenceType",
	TagTemplateAlias:          "TemplateAlias",
	TagCoarrayType:            "CoarrayType",
	TagGenericSubrange:        "GenericSubrange",
	TagDynamicType:            "DynamicType",
	TagAtomicType:             "AtomicType",
	TagCallSite:               "CallSite",
	TagCallSiteParameter:      "CallSiteParameter",
	TagSkeletonUnit:           "SkeletonUnit",
	TagImmutableType:          "ImmutableType",
	TagGNUCallSite:            "GNU_CallSite",
	TagGNUCallSiteParameter:   "GNU_CallSiteParameter",
}

// Attr is a DW_AT value.
type Attr uint64

const (
	AttrNull                       Attr = 0
	AttrSibling                    Attr = 0x1
	AttrLocation                   Attr = 0x2
	AttrName                       Attr = 0x3
	AttrOrdering                   Attr = 0x9
	AttrByteSize                   Attr = 0xB
	AttrBitOffset                  Attr = 0xC
	AttrBitSize                    Attr = 0xD
	AttrStmtList                   Attr = 0x10
	AttrLowPc                      Attr = 0x11
	AttrHighPc                     Attr = 0x12
	AttrLanguage                   Attr = 0x13
	AttrDiscr                      Attr = 0x15
	AttrDiscrValue                 Attr = 0x16
	AttrVisibility                 Attr = 0x17
	AttrImport                     Attr = 0x18
	AttrStringLength               Attr = 0x19
	AttrCommonReference            Attr = 0x1a
	AttrCompDir                    Attr = 0x1b
	AttrConstValue                 Attr = 0x1c
	AttrContainingType             Attr = 0x1d
	AttrDefaultValue               Attr = 0x1e
	AttrInline                     Attr = 0x20
	AttrIsOptional                 Attr = 0x21
	AttrLowerBound                 Attr = 0x22
	AttrProducer                   Attr = 0x25
	AttrPrototyped                 Attr = 0x27
	AttrReturnAddr                 Attr = 0x2a
	AttrStartScope                 Attr = 0x2c
	AttrBitStride                  Attr = 0x2e
	AttrUpperBound                 Attr = 0x2f
	AttrAbstractOrigin             Attr = 0x31
	AttrAccessibility              Attr = 0x32
	AttrAddressClass               Attr = 0x33
	AttrArtificial                 Attr = 0x34
	AttrBaseTypes                  Attr = 0x35
	AttrCallingConvention          Attr = 0x36
	AttrCount                      Attr = 0x37
	AttrDataMemberLocation         Attr = 0x38
	AttrDeclColumn                 Attr = 0x39
	AttrDeclFile                   Attr = 0x3a
	AttrDeclLine                   Attr = 0x3b
	AttrDeclaration                Attr = 0x3c
	AttrDiscrList                  Attr = 0x3d
	AttrEncoding                   Attr = 0x3e
	AttrExternal                   Attr = 0x3f
	AttrFrameBase                  Attr = 0x40
	AttrFriend                     Attr = 0x41
	AttrIdentifierCase             Attr = 0x42
	AttrMacroInfo                  Attr = 0x43
	AttrNameListItem               Attr = 0x44
	AttrPriority                   Attr = 0x45
	AttrSegment                    Attr = 0x46
	AttrSpecification              Attr = 0x47
	AttrStaticLink                 Attr = 0x48
	AttrType                       Attr = 0x49
	AttrUseLocation                Attr = 0x4a
	AttrVariableParameter          Attr = 0x4b
	AttrVirtuality                 Attr = 0x4c
	AttrVTableElemLocation         Attr = 0x4d
	AttrAllocated                  Attr = 0x4e
	AttrAssociated                 Attr = 0x4f
	AttrDataLocation               Attr = 0x50
	AttrByteStride                 Attr = 0x51
	AttrEntryPc                    Attr = 0x52
	AttrUseUtf8                    Attr = 0x53
	AttrExtension                  Attr = 0x54
	AttrRanges                     Attr = 0x55
	AttrTrampoline                 Attr = 0x56
	AttrCallColumn                 Attr = 0x57
	AttrCallFile                   Attr = 0x58
	AttrCallLine                   Attr = 0x59
	AttrDescription                Attr = 0x5a
	AttrBinaryScale                Attr = 0x5b
	AttrDecimalScale               Attr = 0x5c
	AttrSmall                      Attr = 0x5d
	AttrDecimalSign                Attr = 0x5e
	AttrDigitCount                 Attr = 0x5f
	AttrPictureString              Attr = 0x60
	AttrMutable                    Attr = 0x61
	AttrThreadsScaled              Attr = 0x62
	AttrExplicit                   Attr = 0x63
	AttrObjectPointer              Attr = 0x64
	AttrEndianity                  Attr = 0x65
	AttrElemental                  Attr = 0x66
	AttrPure                       Attr = 0x67
	AttrRecursive                  Attr = 0x68
	AttrSignature                  Attr = 0x69
	AttrMainSubProgram             Attr = 0x6a
	AttrDataBitOffset              Attr = 0x6b
	AttrConstExpr                  Attr = 0x6c
	AttrEnumClass                  Attr = 0x6d
	AttrLinkageName                Attr = 0x6e
	AttrStringLengthBitSize        Attr = 0x6f
	AttrStringLengthByteSize       Attr = 0x70
	AttrRank                       Attr = 0x71
	AttrStrOffsetsBase             Attr = 0x72
	AttrAddrBase                   Attr = 0x73
	AttrRngListsBase               Attr = 0x74
	AttrDwoName                    Attr = 0x76
	AttrReference                  Attr = 0x77
	AttrRValueReference            Attr = 0x78
	AttrMacros                     Attr = 0x79
	AttrCallAllCalls               Attr = 0x7a
	AttrCallAllSourceCalls         Attr = 0x7b
	AttrCallAllTailCalls           Attr = 0x7c
	AttrCallReturnPc               Attr = 0x7d
	AttrCallValue                  Attr = 0x7e
	AttrCallOrigin                 Attr = 0x7f
	AttrCallParameter              Attr = 0x80
	AttrCallPc                     Attr = 0x81
	AttrCallTailCall               Attr = 0x82
	AttrCallTarget                 Attr = 0x83
	AttrCallTargetClobbered        Attr = 0x84
	AttrCallDataLocation           Attr = 0x85
	AttrCallDataValue              Attr = 0x86
	AttrNoReturn                   Attr = 0x87
	AttrAlignment                  Attr = 0x88
	AttrExportSymbols              Attr = 0x89
	AttrDeleted                    Attr = 0x8a
	AttrDefaulted                  Attr = 0x8b
	AttrLocListsBase               Attr = 0x8c
	AttrGNUVector                  Attr = 0x2107
	AttrGNUGuardedBy               Attr = 0x2108
	AttrGNUPtGuardedBy             Attr = 0x2109
	AttrGNUGuarded                 Attr = 0x210a
	AttrGNUPtGuarded               Attr = 0x210b
	AttrGNULocksExcluded           Attr = 0x210c
	AttrGNUExclusiveLocksRequired  Attr = 0x210d
	AttrGNUSharedLocksRequired     Attr = 0x210e
	AttrGNUOdrSignature            Attr = 0x210f
	AttrGNUTemplateName            Attr = 0x2110
	AttrGNUCallSiteValue           Attr = 0x2111
	AttrGNUCallSiteDataValue       Attr = 0x2112
	AttrGNUCallSiteTarget          Attr = 0x2113
	AttrGNUCallSiteTargetClobbered Attr = 0x2114
	AttrGNUTailCall                Attr = 0x2115
	AttrGNUAllTailCallsSites       Attr = 0x2116
	AttrGNUAllCallSites            Attr = 0x2117
	AttrGNUAllSourceCallSites      Attr = 0x2118
	AttrGNUMacros                  Attr = 0x2119
	AttrGNUDeleted                 Attr = 0x211a
	AttrGNUDwoName                 Attr = 0x2130
	AttrGNUDwoId                   Attr = 0x2131
	AttrGNURangesBase              Attr = 0x2132
	AttrGNUAddrBase                Attr = 0x2133
	AttrGNUPubNames                Attr = 0x2134
	AttrGNUPubTypes                Attr = 0x2135
	AttrGNUDiscriminator           Attr = 0x2136
	AttrGNULocViews                Attr = 0x2137
	AttrGNUEntryView               Attr = 0x2138
	AttrGNUDescriptiveType         Attr = 0x2302
	AttrGNUNumerator               Attr = 0x2303
	AttrGNUDenominator             Attr = 0x2304
	AttrGNUBias                    Attr = 0x2305
	AttrLLVMIncludePath            Attr = 0x3e00
	AttrLLVMConfigMacros           Attr = 0x3e01
	AttrLLVMSysRoot                Attr = 0x3e02
	AttrLLVMTagOffset              Attr = 0x3e03
	AttrLLVMApiNotes               Attr = 0x3e07
	AttrAPPLEOptimized             Attr = 0x3fe1
	AttrAPPLEFlags                 Attr = 0x3fe2
	AttrAPPLEIsa                   Attr = 0x3fe3
	AttrAPPLEBlock                 Attr = 0x3fe4
	AttrAPPLEMajorRuntimeVers      Attr = 0x3fe5
	AttrAPPLERuntimeClass          Attr = 0x3fe6
	AttrAPPLEOmitFramePtr          Attr = 0x3fe7
	AttrAPPLEPropertyName          Attr = 0x3fe8
	AttrAPPLEPropertyGetter        Attr = 0x3fe9
	AttrAPPLEPropertySetter        Attr = 0x3fea
	AttrAPPLEPropertyAttribute     Attr = 0x3feb
	AttrAPPLEObjcCompleteType      Attr = 0x3fec
	AttrAPPLEProperty              Attr = 0x3fed
	AttrAPPLEObjDirect             Attr = 0x3fee
	AttrAPPLESdk                   Attr = 0x3fef
	AttrMIPSFde                    Attr = 0x2001
	AttrMIPSLoopBegin              Attr = 0x2002
	AttrMIPSTailLoopBegin          Attr = 0x2003
	AttrMIPSEpilogBegin            Attr = 0x2004
	AttrMIPSLoopUnrollFactor       Attr = 0x2005
	AttrMIPSSoftwarePipelineDepth  Attr = 0x2006
	AttrMIPSLinkageName            Attr = 0x2007
	AttrMIPSStride                 Attr = 0x2008
	AttrMIPSAbstractName           Attr = 0x2009
	AttrMIPSCloneOrigin            Attr = 0x200a
	AttrMIPSHasInlines             Attr = 0x200b
	AttrMIPSStrideByte             Attr = 0x200c
	AttrMIPSStrideElem             Attr = 0x200d
	AttrMIPSPtrDopeType            Attr = 0x200e
	AttrMIPSAllocatableDopeType    Attr = 0x200f
	AttrMIPSAssumedShapeDopeType   Attr = 0x2010
	AttrMIPSAssumedSize            Attr = 0x2011

	AttrUserLo Attr = 0x2000
	AttrUserHi Attr = 0x3fff
)

var attrNames = map[Attr]string{
	AttrSibling:                    "Sibling",
	AttrLocation:                   "Location",
	AttrName:                       "Name",
	AttrOrdering:                   "Ordering",
	AttrByteSize:                   "ByteSize",
	AttrBitOffset:                  "BitOffset",
	AttrBitSize:                    "BitSize",
	AttrStmtList:                   "StmtList",
	AttrLowPc:                      "LowPc",
	AttrHighPc:                     "HighPc",
	AttrLanguage:                   "Language",
	AttrDiscr:                      "Discr",
	AttrDiscrValue:                 "DiscrValue",
	AttrVisibility:                 "Visibility",
	AttrImport:                     "Import",
	AttrStringLength:               "StringLength",
	AttrCommonReference:            "CommonReference",
	AttrCompDir:                    "CompDir",
	AttrConstValue:                 "ConstValue",
	AttrContainingType:             "ContainingType",
	AttrDefaultValue:               "DefaultValue",
	AttrInline:                     "Inline",
	AttrIsOptional:                 "IsOptional",
	AttrLowerBound:                 "LowerBound",
	AttrProducer:                   "Producer",
	AttrPrototyped:                 "Prototyped",
	AttrReturnAddr:                 "ReturnAddr",
	AttrStartScope:                 "StartScope",
	AttrBitStride:                  "BitStride",
	AttrUpperBound:                 "UpperBound",
	AttrAbstractOrigin:             "AbstractOrigin",
	AttrAccessibility:              "Accessibility",
	AttrAddressClass:               "AddressClass",
	AttrArtificial:                 "Artificial",
	AttrBaseTypes:                  "BaseTypes",
	AttrCallingConvention:          "CallingConvention",
	AttrCount:                      "Count",
	AttrDataMemberLocation:         "DataMemberLocation",
	AttrDeclColumn:                 "DeclColumn",
	AttrDeclFile:                   "DeclFile",
	AttrDeclLine:                   "DeclLine",
	AttrDeclaration:                "Declaration",
	AttrDiscrList:                  "DiscrList",
	AttrEncoding:                   "Encoding",
	AttrExternal:                   "External",
	AttrFrameBase:                  "FrameBase",
	AttrFriend:                     "Friend",
	AttrIdentifierCase:             "IdentifierCase",
	AttrMacroInfo:                  "MacroInfo",
	AttrNameListItem:               "NameListItem",
	AttrPriority:                   "Priority",
	AttrSegment:                    "Segment",
	AttrSpecification:              "Specification",
	AttrStaticLink:                 "StaticLink",
	AttrType:                       "Type",
	AttrUseLocation:                "UseLocation",
	AttrVariableParameter:          "VariableParameter",
	AttrVirtuality:                 "Virtuality",
	AttrVTableElemLocation:         "VTableElemLocation",
	AttrAllocated:                  "Allocated",
	AttrAssociated:                 "Associated",
	AttrDataLocation:               "DataLocation",
	AttrByteStride:                 "ByteStride",
	AttrEntryPc:                    "EntryPc",
	AttrUseUtf8:                    "UseUtf8",
	AttrExtension:                  "Extension",
	AttrRanges:                     "Ranges",
	AttrTrampoline:                 "Trampoline",
	AttrCallColumn:                 "CallColumn",
	AttrCallFile:                   "CallFile",
	AttrCallLine:                   "CallLine",
	AttrDescription:                "Description",
	AttrBinaryScale:                "BinaryScale",
	AttrDecimalScale:               "DecimalScale",
	AttrSmall:                      "Small",
	AttrDecimalSign:                "DecimalSign",
	AttrDigitCount:                 "DigitCount",
	AttrPictureString:              "PictureString",
	AttrMutable:                    "Mutable",
	AttrThreadsScaled:              "ThreadsScaled",
	AttrExplicit:                   "Explicit",
	AttrObjectPointer:              "ObjectPointer",
	AttrEndianity:                  "Endianity",
	AttrElemental:                  "Elemental",
	AttrPure:                       "Pure",
	AttrRecursive:                  "Recursive",
	AttrSignature:                  "Signature",
	AttrMainSubProgram:             "MainSubProgram",
	AttrDataBitOffset:              "DataBitOffset",
	AttrConstExpr:                  "ConstExpr",
	AttrEnumClass:                  "EnumClass",
	AttrLinkageName:                "LinkageName",
	AttrStringLengthBitSize:        "StringLengthBitSize",
	AttrStringLengthByteSize:       "StringLengthByteSize",
	AttrRank:                       "Rank",
	AttrStrOffsetsBase:             "StrOffsetsBase",
	AttrAddrBase:                   "AddrBase",
	AttrRngListsBase:               "RngListsBase",
	AttrDwoName:                    "DwoName",
	AttrReference:                  "Reference",
	AttrRValueReference:            "RValueReference",
	AttrMacros:                     "Macros",
	AttrCallAllCalls:               "CallAllCalls",
	AttrCallAllSourceCalls:         "CallAllSourceCalls",
	AttrCallAllTailCalls:           "CallAllTailCalls",
	AttrCallReturnPc:               "CallReturnPc",
	AttrCallValue:                  "CallValue",
	AttrCallOrigin:                 "CallOrigin",
	AttrCallParameter:              "CallParameter",
	AttrCallPc:                     "CallPc",
	AttrCallTailCall:               "CallTailCall",
	AttrCallTarget:                 "CallTarget",
	AttrCallTargetClobbered:        "CallTargetClobbered",
	AttrCallDataLocation:           "CallDataLocation",
	AttrCallDataValue:              "CallDataValue",
	AttrNoReturn:                   "NoReturn",
	AttrAlignment:                  "Alignment",
	AttrExportSymbols:              "ExportSymbols",
	AttrDeleted:                    "Deleted",
	AttrDefaulted:                  "Defaulted",
	AttrLocListsBase:               "LocListsBase",
	AttrGNUVector:                  "GNU_Vector",
	AttrGNUGuardedBy:               "GNU_GuardedBy",
	AttrGNUPtGuardedBy:             "GNU_PtGuardedBy",
	AttrGNUGuarded:                 "GNU_Guarded",
	AttrGNUPtGuarded:               "GNU_PtGuarded",
	AttrGNULocksExcluded:           "GNU_LocksExcluded",
	AttrGNUExclusiveLocksRequired:  "GNU_ExclusiveLocksRequired",
	AttrGNUSharedLocksRequired:     "GNU_SharedLocksRequired",
	AttrGNUOdrSignature:            "GNU_OdrSignature",
	AttrGNUTemplateName:            "GNU_TemplateName",
	AttrGNUCallSiteValue:           "GNU_CallSiteValue",
	AttrGNUCallSiteDataValue:       "GNU_CallSiteDataValue",
	AttrGNUCallSiteTarget:          "GNU_CallSiteTarget",
	AttrGNUCallSiteTargetClobbered: "GNU_CallSiteTargetClobbered",
	AttrGNUTailCall:                "GNU_TailCall",
	AttrGNUAllTailCallsSites:       "GNU_AllTailCallsSites",
	AttrGNUAllCallSites:            "GNU_AllCallSites",
	AttrGNUAllSourceCallSites:      "GNU_AllSourceCallSites",
	AttrGNUMacros:                  "GNU_Macros",
	AttrGNUDeleted:                 "GNU_Deleted",
	AttrGNUDwoName:                 "GNU_DwoName",
	AttrGNUDwoId:                   "GNU_DwoId",
	AttrGNURangesBase:              "GNU_RangesBase",
	AttrGNUAddrBase:                "GNU_AddrBase",
	AttrGNUPubNames:                "GNU_PubNames",
	AttrGNUPubTypes:                "GNU_PubTypes",
	AttrGNUDiscriminator:           "GNU_Discriminator",
	AttrGNULocViews:                "GNU_LocViews",
	AttrGNUEntryView:               "GNU_EntryView",
	AttrGNUDescriptiveType:         "GNU_DescriptiveType",
	AttrGNUNumerator:               "GNU_Numerator",
	AttrGNUDenominator:             "GNU_Denominator",
	AttrGNUBias:                    "GNU_Bias",
	AttrLLVMIncludePath:            "LLVM_IncludePath",
	AttrLLVMConfigMacros:           "LLVM_ConfigMacros",
	AttrLLVMSysRoot:                "LLVM_SysRoot",
	AttrLLVMTagOffset:              "LLVM_TagOffset",
	AttrLLVMApiNotes:               "LLVM_ApiNotes",
	AttrAPPLEOptimized:             "APPLE_Optimized",
	AttrAPPLEFlags:                 "APPLE_Flags",
	AttrAPPLEIsa:                   "APPLE_Isa",
	AttrAPPLEBlock:                 "APPLE_Block",
	AttrAPPLEMajorRuntimeVers:      "APPLE_MajorRuntimeVers",
	AttrAPPLERuntimeClass:          "APPLE_RuntimeClass",
	AttrAPPLEOmitFramePtr:          "APPLE_OmitFramePtr",
	AttrAPPLEPropertyName:          "APPLE_PropertyName",
	AttrAPPLEPropertyGetter:        "APPLE_PropertyGetter",
	AttrAPPLEPropertySetter:        "APPLE_PropertySetter",
	AttrAPPLEPropertyAttribute:     "APPLE_PropertyAttribute",
	AttrAPPLEObjcCompleteType:      "APPLE_ObjcCompleteType",
	AttrAPPLEProperty:              "APPLE_Property",
	AttrAPPLEObjDirect:             "APPLE_ObjDirect",
	AttrAPPLESdk:                   "APPLE_Sdk",
	AttrMIPSFde:                    "MIPS_Fde",
	AttrMIPSLoopBegin:              "MIPS_LoopBegin",
	AttrMIPSTailLoopBegin:          "MIPS_TailLoopBegin",
	AttrMIPSEpilogBegin:            "MIPS_EpilogBegin",
	AttrMIPSLoopUnrollFactor:       "MIPS_LoopUnrollFactor",
	AttrMIPSSoftwarePipelineDepth:  "MIPS_SoftwarePipelineDepth",
	AttrMIPSLinkageName:            "MIPS_LinkageName",
	AttrMIPSStride:                 "MIPS_Stride",
	AttrMIPSAbstractName:           "MIPS_AbstractName",
	AttrMIPSCloneOrigin:            "MIPS_CloneOrigin",
	AttrMIPSHasInlines:             "MIPS_HasInlines",
	AttrMIPSStrideByte:             "MIPS_StrideByte",
	AttrMIPSStrideElem:             "MIPS_StrideElem",
	AttrMIPSPtrDopeType:            "MIPS_PtrDopeType",
	AttrMIPSAllocatableDopeType:    "MIPS_AllocatableDopeType",
	AttrMIPSAssumedShapeDopeType:   "MIPS_AssumedShapeDopeType",
	AttrMIPSAssumedSize:            "MIPS_AssumedSize",
}

// Form is a DW_FORM value.
type Form uint64

const (
	FormNull          Form = 0
	FormAddr          Form = 0x1
	FormBlock2        Form = 0x3
	FormBlock4        Form = 0x4
	FormData2         Form = 0x5
	FormData4         Form = 0x6
	FormData8         Form = 0x7
	FormString        Form = 0x8
	FormBlock         Form = 0x9
	FormBlock1        Form = 0xa
	FormData1         Form = 0xb
	FormFlag          Form = 0xc
	FormSData         Form = 0xd
	FormStrp          Form = 0xe
	FormUData         Form = 0xf
	FormRefAddr       Form = 0x10
	FormRef1          Form = 0x11
	FormRef2          Form = 0x12
	FormRef4          Form = 0x13
	FormRef8          Form = 0x14
	FormRefUData      Form = 0x15
	FormIndirect      Form = 0x16
	FormSecOffset     Form = 0x17
	FormExprLoc       Form = 0x18
	FormFlagPresent   Form = 0x19
	FormRefSig8       Form = 0x20
	FormStrx          Form = 0x1a
	FormAddrx         Form = 0x1b
	FormRefSup4       Form = 0x1c
	FormStrpSup       Form = 0x1d
	FormData16        Form = 0x1e
	FormLineStrp      Form = 0x1f
	FormImplicitConst Form = 0x21
	FormLocListx      Form = 0x22
	FormRngListx      Form = 0x23
	FormRefSup8       Form = 0x24
	FormStrx1         Form = 0x25
	FormStrx2         Form = 0x26
	FormStrx3         Form = 0x27
	FormStrx4         Form = 0x28
	FormAddrx1        Form = 0x29
	FormAddrx2        Form = 0x2a
	FormAddrx3        Form = 0x2b
	FormAddrx4        Form = 0x2c
	FormGNUAddrIndex  Form = 0x1f01
	FormGNUStrIndex   Form = 0x1f02
	FormGNURefAlt     Form = 0x1f20
	FormGNUStrpAlt    Form = 0x1f21
)

var formNames = map[Form]string{
	FormAddr:          "Addr",
	FormBlock2:        "Block2",
	FormBlock4:        "Block4",
	FormData2:         "Data2",
	FormData4:         "Data4",
	FormData8:         "Data8",
	FormString:        "String",
	FormBlock:         "Block",
	FormBlock1:        "Block1",
	FormData1:         "Data1",
	FormFlag:          "Flag",
	FormSData:         "SData",
	FormStrp:          "Strp",
	FormUData:         "UData",
	FormRefAddr:       "RefAddr",
	FormRef1:          "Ref1",
	FormRef2:          "Ref2",
	FormRef4:          "Ref4",
	FormRef8:          "Ref8",
	FormRefUData:      "RefUData",
	FormIndirect:      "Indirect",
	FormSecOffset:     "SecOffset",
	FormExprLoc:       "ExprLoc",
	FormFlagPresent:   "FlagPresent",
	FormRefSig8:       "RefSig8",
	FormStrx:          "Strx",
	FormAddrx:         "Addrx",
	FormRefSup4:       "RefSup4",
	FormStrpSup:       "StrpSup",
	FormData16:        "Data16",
	FormLineStrp:      "LineStrp",
	FormImplicitConst: "ImplicitConst",
	FormLocListx:      "LocListx",
	FormRngListx:      "RngListx",
	FormRefSup8:       "RefSup8",
	FormStrx1:         "Strx1",
	FormStrx2:         "Strx2",
	FormStrx3:         "Strx3",
	FormStrx4:         "Strx4",
	FormAddrx1:        "Addrx1",
	FormAddrx2:        "Addrx2",
	FormAddrx3:        "Addrx3",
	FormAddrx4:        "Addrx4",
	FormGNUAddrIndex:  "GNU_AddrIndex",
	FormGNUStrIndex:   "GNU_StrIndex",
	FormGNURefAlt:     "GNU_RefAlt",
	FormGNUStrpAlt:    "GNU_StrpAlt",
}

// Language is a DW_LANG value.
type Language uint64

const (
	LangNull               Language = 0x00
	LangC89                Language = 0x01
	LangC                  Language = 0x02
	LangAda83              Language = 0x03
	LangCPlusPlus          Language = 0x04
	LangCobol74            Language = 0x05
	LangCobol85            Language = 0x06
	LangFortran77          Language = 0x07
	LangFortran90          Language = 0x08
	LangPascal83           Language = 0x09
	LangModula2            Language = 0x0A
	LangJava               Language = 0x0B
	LangC99                Language = 0x0C
	LangAda95              Language = 0x0D
	LangFortran95          Language = 0x0E
	LangPLI                Language = 0x0F
	LangObjC               Language = 0x10
	LangObjCPlusPlus       Language = 0x11
	LangUPC                Language = 0x12
	LangD                  Language = 0x13
	LangPython             Language = 0x14
	LangOpenCL             Language = 0x15
	LangGo                 Language = 0x16
	LangModula3            Language = 0x17
	LangHaskell            Language = 0x18
	LangCPlusPlus03        Language = 0x19
	LangCPlusPlus11        Language = 0x1a
	LangOCaml              Language = 0x1b
	LangRust               Language = 0x1c
	LangC11                Language = 0x1d
	LangSwift              Language = 0x1e
	LangJulia              Language = 0x1f
	LangDylan              Language = 0x20
	LangCPlusPlus14        Language = 0x21
	LangFortran03          Language = 0x22
	LangFortran08          Language = 0x23
	LangRenderScript       Language = 0x24
	LangBLISS              Language = 0x25
	LangMipsAssembler      Language = 0x8001
	LangGoogleRenderScript Language = 0x8E57
	LangSunAssembler       Language = 0x9001
	LangBorlandDelphi      Language = 0xB000
)

var langNames = map[Language]string{
	LangNull:               "Null",
	LangC89:                "C89",
	LangC:                  "C",
	LangAda83:              "Ada83",
	LangCPlusPlus:          "CPlusPlus",
	LangCobol74:            "Cobol74",
	LangCobol85:            "Cobol85",
	LangFortran77:          "Fortran77",
	LangFortran90:          "Fortran90",
	LangPascal83:           "Pascal83",
	LangModula2:            "Modula2",
	LangJava:               "Java",
	LangC99:                "C99",
	LangAda95:              "Ada95",
	LangFortran95:          "Fortran95",
	LangPLI:                "PLI",
	LangObjC:               "ObjC",
	LangObjCPlusPlus:       "ObjCPlusPlus",
	LangUPC:                "UPC",
	LangD:                  "D",
	LangPython:             "Python",
	LangOpenCL:             "OpenCL",
	LangGo:                 "Go",
	LangModula3:            "Modula3",
	LangHaskell:            "Haskell",
	LangCPlusPlus03:        "CPlusPlus03",
	LangCPlusPlus11:        "CPlusPlus11",
	LangOCaml:              "OCaml",
	LangRust:               "Rust",
	LangC11:                "C11",
	LangSwift:              "Swift",
	LangJulia:              "Julia",
	LangDylan:              "Dylan",
	LangCPlusPlus14:        "CPlusPlus14",
	LangFortran03:          "Fortran03",
	LangFortran08:          "Fortran08",
	LangRenderScript:       "RenderScript",
	LangBLISS:              "BLISS",
	LangMipsAssembler:      "MipsAssembler",
	LangGoogleRenderScript: "GoogleRenderScript",
	LangSunAssembler:       "SunAssembler",
	LangBorlandDelphi:      "BorlandDelphi",
}
