package reader

// attribute classes per DWARF version and vendor extension
var (
	attrClassV2 = map[Attr]Class{
		AttrSibling:            ClassReference,
		AttrLocation:           ClassExprLoc | ClassLocListPtr,
		AttrName:               ClassString,
		AttrOrdering:           ClassConst,
		AttrByteSize:           ClassConst,
		AttrBitOffset:          ClassConst,
		AttrBitSize:            ClassConst,
		AttrStmtList:           ClassConst,
		AttrLowPc:              ClassAddress,
		AttrHighPc:             ClassAddress,
		AttrLanguage:           ClassConst,
		AttrDiscr:              ClassReference,
		AttrDiscrValue:         ClassConst,
		AttrVisibility:         ClassConst,
		AttrImport:             ClassReference,
		AttrStringLength:       ClassBlock | ClassConst,
		AttrCommonReference:    ClassReference,
		AttrCompDir:            ClassString,
		AttrConstValue:         ClassString | ClassConst | ClassBlock,
		AttrContainingType:     ClassReference,
		AttrDefaultValue:       ClassReference,
		AttrInline:             ClassConst,
		AttrIsOptional:         ClassFlag,
		AttrLowerBound:         ClassConst | ClassReference,
		AttrProducer:           ClassString,
		AttrPrototyped:         ClassFlag,
		AttrReturnAddr:         ClassBlock | ClassConst,
		AttrStartScope:         ClassConst,
		AttrBitStride:          ClassConst,
		AttrUpperBound:         ClassConst | ClassReference,
		AttrAbstractOrigin:     ClassReference,
		AttrAccessibility:      ClassConst,
		AttrAddressClass:       ClassConst,
		AttrArtificial:         ClassFlag,
		AttrBaseTypes:          ClassReference,
		AttrCallingConvention:  ClassConst,
		AttrCount:              ClassConst | ClassReference,
		AttrDataMemberLocation: ClassBlock | ClassReference,
		AttrDeclColumn:         ClassConst,
		AttrDeclFile:           ClassConst,
		AttrDeclLine:           ClassConst,
		AttrDeclaration:        ClassFlag,
		AttrDiscrList:          ClassBlock,
		AttrEncoding:           ClassConst,
		AttrExternal:           ClassFlag,
		AttrFrameBase:          ClassBlock | ClassConst,
		AttrFriend:             ClassReference,
		AttrIdentifierCase:     ClassConst,
		AttrMacroInfo:          ClassConst,
		AttrNameListItem:       ClassBlock,
		AttrPriority:           ClassReference,
		AttrSegment:            ClassBlock | ClassConst,
		AttrSpecification:      ClassReference,
		AttrStaticLink:         ClassBlock | ClassConst,
		AttrType:               ClassReference,
		AttrUseLocation:        ClassBlock | ClassConst,
		AttrVariableParameter:  ClassFlag,
		AttrVirtuality:         ClassConst,
		AttrVTableElemLocation: ClassBlock | ClassReference,
	}
	attrClassV3 = map[Attr]Class{
		AttrSibling:            ClassReference,
		AttrLocation:           ClassBlock | ClassLocListPtr,
		AttrName:               ClassString,
		AttrOrdering:           ClassConst,
		AttrByteSize:           ClassBlock | ClassConst | ClassReference,
		AttrBitOffset:          ClassBlock | ClassConst | ClassReference,
		AttrBitSize:            ClassBlock | ClassConst | ClassReference,
		AttrStmtList:           ClassLinePtr,
		AttrLowPc:              ClassAddress,
		AttrHighPc:             ClassAddress,
		AttrLanguage:           ClassConst,
		AttrDiscr:              ClassReference,
		AttrDiscrValue:         ClassConst,
		AttrVisibility:         ClassConst,
		AttrImport:             ClassReference,
		AttrStringLength:       ClassBlock | ClassLocListPtr,
		AttrCommonReference:    ClassReference,
		AttrCompDir:            ClassString,
		AttrConstValue:         ClassBlock | ClassConst | ClassString,
		AttrContainingType:     ClassReference,
		AttrDefaultValue:       ClassReference,
		AttrInline:             ClassConst,
		AttrIsOptional:         ClassFlag,
		AttrLowerBound:         ClassBlock | ClassConst | ClassReference,
		AttrProducer:           ClassString,
		AttrPrototyped:         ClassFlag,
		AttrReturnAddr:         ClassBlock | ClassLocListPtr,
		AttrStartScope:         ClassConst,
		AttrBitStride:          ClassConst,
		AttrUpperBound:         ClassBlock | ClassConst | ClassReference,
		AttrAbstractOrigin:     ClassReference,
		AttrAccessibility:      ClassConst,
		AttrAddressClass:       ClassConst,
		AttrArtificial:         ClassFlag,
		AttrBaseTypes:          ClassReference,
		AttrCallingConvention:  ClassConst,
		AttrCount:              ClassBlock | ClassConst | ClassReference,
		AttrDataMemberLocation: ClassBlock | ClassConst | ClassLocListPtr,
		AttrDeclColumn:         ClassConst,
		AttrDeclFile:           ClassConst,
		AttrDeclLine:           ClassConst,
		AttrDeclaration:        ClassFlag,
		AttrDiscrList:          ClassBlock,
		AttrEncoding:           ClassConst,
		AttrExternal:           ClassFlag,
		AttrFrameBase:          ClassBlock | ClassLocListPtr,
		AttrFriend:             ClassReference,
		AttrIdentifierCase:     ClassConst,
		AttrMacroInfo:          ClassMacPtr,
		AttrNameListItem:       ClassBlock,
		AttrPriority:           ClassReference,
		AttrSegment:            ClassBlock | ClassLocListPtr,
		AttrSpecification:      ClassReference,
		AttrStaticLink:         ClassBlock | ClassLocListPtr,
		AttrType:               ClassReference,
		AttrUseLocation:        ClassBlock | ClassLocListPtr,
		AttrVariableParameter:  ClassFlag,
		AttrVirtuality:         ClassConst,
		AttrVTableElemLocation: ClassBlock | ClassLocListPtr,
		AttrAllocated:          ClassBlock | ClassConst | ClassReference,
		AttrAssociated:         ClassBlock | ClassConst | ClassReference,
		AttrDataLocation:       ClassBlock,
		AttrByteStride:         ClassBlock | ClassConst | ClassReference,
		AttrEntryPc:            ClassAddress,
		AttrUseUtf8:            ClassFlag,
		AttrExtension:          ClassReference,
		AttrRanges:             ClassRngListPtr,
		AttrTrampoline:         ClassAddress | ClassFlag | ClassReference | ClassString,
		AttrCallColumn:         ClassConst,
		AttrCallFile:           ClassConst,
		AttrCallLine:           ClassConst,
		AttrDescription:        ClassString,
		AttrBinaryScale:        ClassConst,
		AttrDecimalScale:       ClassConst,
		AttrSmall:              ClassReference,
		AttrDecimalSign:        ClassConst,
		AttrDigitCount:         ClassConst,
		AttrPictureString:      ClassString,
		AttrMutable:            ClassFlag,
		AttrThreadsScaled:      ClassFlag,
		AttrExplicit:           ClassFlag,
		AttrObjectPointer:      ClassReference,
		AttrEndianity:          ClassConst,
		AttrElemental:          ClassFlag,
		AttrPure:               ClassFlag,
		AttrRecursive:          ClassFlag,
	}
	attrClassV4 = map[Attr]Class{
		AttrSibling:            ClassReference,
		AttrLocation:           ClassExprLoc | ClassLocListPtr,
		AttrName:               ClassString,
		AttrOrdering:           ClassConst,
		AttrByteSize:           ClassConst | ClassExprLoc | ClassReference,
		AttrBitOffset:          ClassConst | ClassExprLoc | ClassReference,
		AttrBitSize:            ClassConst | ClassExprLoc | ClassReference,
		AttrStmtList:           ClassLinePtr,
		AttrLowPc:              ClassAddress,
		AttrHighPc:             ClassAddress | ClassConst,
		AttrLanguage:           ClassConst,
		AttrDiscr:              ClassReference,
		AttrDiscrValue:         ClassConst,
		AttrVisibility:         ClassConst,
		AttrImport:             ClassReference,
		AttrStringLength:       ClassExprLoc | ClassLocListPtr,
		AttrCommonReference:    ClassReference,
		AttrCompDir:            ClassString,
		AttrConstValue:         ClassBlock | ClassConst | ClassString,
		AttrContainingType:     ClassReference,
		AttrDefaultValue:       ClassReference,
		AttrInline:             ClassConst,
		AttrIsOptional:         ClassFlag,
		AttrLowerBound:         ClassConst | ClassExprLoc | ClassReference,
		AttrProducer:           ClassString,
		AttrPrototyped:         ClassFlag,
		AttrReturnAddr:         ClassExprLoc | ClassLocListPtr,
		AttrStartScope:         ClassConst | ClassRngListPtr,
		AttrBitStride:          ClassConst | ClassExprLoc | ClassReference,
		AttrUpperBound:         ClassConst | ClassExprLoc | ClassReference,
		AttrAbstractOrigin:     ClassReference,
		AttrAccessibility:      ClassConst,
		AttrAddressClass:       ClassConst,
		AttrArtificial:         ClassFlag,
		AttrBaseTypes:          ClassReference,
		AttrCallingConvention:  ClassConst,
		AttrCount:              ClassConst | ClassExprLoc | ClassReference,
		AttrDataMemberLocation: ClassConst | ClassExprLoc | ClassLocListPtr,
		AttrDeclColumn:         ClassConst,
		AttrDeclFile:           ClassConst,
		AttrDeclLine:           ClassConst,
		AttrDeclaration:        ClassFlag,
		AttrDiscrList:          ClassBlock,
		AttrEncoding:           ClassConst,
		AttrExternal:           ClassFlag,
		AttrFrameBase:          ClassExprLoc | ClassLocListPtr,
		AttrFriend:             ClassReference,
		AttrIdentifierCase:     ClassConst,
		AttrMacroInfo:          ClassMacPtr,
		AttrNameListItem:       ClassReference,
		AttrPriority:           ClassReference,
		AttrSegment:            ClassExprLoc | ClassLocListPtr,
		AttrSpecification:      ClassReference,
		AttrStaticLink:         ClassExprLoc | ClassLocListPtr,
		AttrType:               ClassReference,
		AttrUseLocation:        ClassExprLoc | ClassLocListPtr,
		AttrVariableParameter:  ClassFlag,
		AttrVirtuality:         ClassConst,
		AttrVTableElemLocation: ClassExprLoc | ClassLocListPtr,
		AttrAllocated:          ClassConst | ClassExprLoc | ClassReference,
		AttrAssociated:         ClassConst | ClassExprLoc | ClassReference,
		AttrDataLocation:       ClassExprLoc,
		AttrByteStride:         ClassConst | ClassExprLoc | ClassReference,
		AttrEntryPc:            ClassAddress,
		AttrUseUtf8:            ClassFlag,
		AttrExtension:          ClassReference,
		AttrRanges:             ClassRngListPtr,
		AttrTrampoline:         ClassAddress | ClassFlag | ClassReference | ClassString,
		AttrCallColumn:         ClassConst,
		AttrCallFile:           ClassConst,
		AttrCallLine:           ClassConst,
		AttrDescription:        ClassString,
		AttrBinaryScale:        ClassConst,
		AttrDecimalScale:       ClassConst,
		AttrSmall:              ClassReference,
		AttrDecimalSign:        ClassConst,
		AttrDigitCount:         ClassConst,
		AttrPictureString:      ClassString,
		AttrMutable:            ClassFlag,
		AttrThreadsScaled:      ClassFlag,
		AttrExplicit:           ClassFlag,
		AttrObjectPointer:      ClassReference,
		AttrEndianity:          ClassConst,
		AttrElemental:          ClassFlag,
		AttrPure:               ClassFlag,
		AttrRecursive:          ClassFlag,
		AttrSignature:          ClassReference,
		AttrMainSubProgram:     ClassFlag,
		AttrDataBitOffset:      ClassConst,
		AttrConstExpr:          ClassFlag,
		AttrEnumClass:          ClassFlag,
		AttrLinkageName:        ClassString,
	}
	attrClassV5 = map[Attr]Class{
		AttrSibling:              ClassReference,
		AttrLocation:             ClassExprLoc | ClassLocListPtr,
		AttrName:                 ClassString,
		AttrOrdering:             ClassConst,
		AttrByteSize:             ClassConst | ClassExprLoc | ClassReference,
		AttrBitOffset:            ClassConst | ClassExprLoc | ClassReference,
		AttrBitSize:              ClassConst | ClassExprLoc | ClassReference,
		AttrStmtList:             ClassLinePtr,
		AttrLowPc:                ClassAddress,
		AttrHighPc:               ClassAddress | ClassConst,
		AttrLanguage:             ClassConst,
		AttrDiscr:                ClassReference,
		AttrDiscrValue:           ClassConst,
		AttrVisibility:           ClassConst,
		AttrImport:               ClassReference,
		AttrStringLength:         ClassExprLoc | ClassLocListPtr,
		AttrCommonReference:      ClassReference,
		AttrCompDir:              ClassString,
		AttrConstValue:           ClassBlock | ClassConst | ClassString,
		AttrContainingType:       ClassReference,
		AttrDefaultValue:         ClassReference,
		AttrInline:               ClassConst,
		AttrIsOptional:           ClassFlag,
		AttrLowerBound:           ClassConst | ClassExprLoc | ClassReference,
		AttrProducer:             ClassString,
		AttrPrototyped:           ClassFlag,
		AttrReturnAddr:           ClassExprLoc | ClassLocListPtr,
		AttrStartScope:           ClassConst | ClassRngListPtr,
		AttrBitStride:            ClassConst | ClassExprLoc | ClassReference,
		AttrUpperBound:           ClassConst | ClassExprLoc | ClassReference,
		AttrAbstractOrigin:       ClassReference,
		AttrAccessibility:        ClassConst,
		AttrAddressClass:         ClassConst,
		AttrArtificial:           ClassFlag,
		AttrBaseTypes:            ClassReference,
		AttrCallingConvention:    ClassConst,
		AttrCount:                ClassConst | ClassExprLoc | ClassReference,
		AttrDataMemberLocation:   ClassConst | ClassExprLoc | ClassLocList,
		AttrDeclColumn:           ClassConst,
		AttrDeclFile:             ClassConst,
		AttrDeclLine:             ClassConst,
		AttrDeclaration:          ClassFlag,
		AttrDiscrList:            ClassBlock,
		AttrEncoding:             ClassConst,
		AttrExternal:             ClassFlag,
		AttrFrameBase:            ClassExprLoc | ClassLocList,
		AttrFriend:               ClassReference,
		AttrIdentifierCase:       ClassConst,
		AttrMacroInfo:            ClassMacPtr,
		AttrNameListItem:         ClassReference,
		AttrPriority:             ClassReference,
		AttrSegment:              ClassExprLoc | ClassLocList,
		AttrSpecification:        ClassReference,
		AttrStaticLink:           ClassExprLoc | ClassLocList,
		AttrType:                 ClassReference,
		AttrUseLocation:          ClassExprLoc | ClassLocList,
		AttrVariableParameter:    ClassFlag,
		AttrVirtuality:           ClassConst,
		AttrVTableElemLocation:   ClassExprLoc | ClassLocList,
		AttrAllocated:            ClassConst | ClassExprLoc | ClassReference,
		AttrAssociated:           ClassConst | ClassExprLoc | ClassReference,
		AttrDataLocation:         ClassExprLoc,
		AttrByteStride:           ClassConst | ClassExprLoc | ClassReference,
		AttrEntryPc:              ClassAddress | ClassConst,
		AttrUseUtf8:              ClassFlag,
		AttrExtension:            ClassReference,
		AttrRanges:               ClassRngList,
		AttrTrampoline:           ClassAddress | ClassFlag | ClassReference | ClassString,
		AttrCallColumn:           ClassConst,
		AttrCallFile:             ClassConst,
		AttrCallLine:             ClassConst,
		AttrDescription:          ClassString,
		AttrBinaryScale:          ClassConst,
		AttrDecimalScale:         ClassConst,
		AttrSmall:                ClassReference,
		AttrDecimalSign:          ClassConst,
		AttrDigitCount:           ClassConst,
		AttrPictureString:        ClassString,
		AttrMutable:              ClassFlag,
		AttrThreadsScaled:        ClassFlag,
		AttrExplicit:             ClassFlag,
		AttrObjectPointer:        ClassReference,
		AttrEndianity:            ClassConst,
		AttrElemental:            ClassFlag,
		AttrPure:                 ClassFlag,
		AttrRecursive:            ClassFlag,
		AttrSignature:            ClassReference,
		AttrMainSubProgram:       ClassFlag,
		AttrDataBitOffset:        ClassConst,
		AttrConstExpr:            ClassFlag,
		AttrEnumClass:            ClassFlag,
		AttrLinkageName:          ClassString,
		AttrStringLengthBitSize:  ClassConst,
		AttrStringLengthByteSize: ClassConst,
		AttrRank:                 ClassConst | ClassExprLoc,
		AttrStrOffsetsBase:       ClassStrOffsetsPtr,
		AttrAddrBase:             ClassAddrPtr,
		AttrRngListsBase:         ClassRngListPtr,
		AttrDwoName:              ClassString,
		AttrReference:            ClassFlag,
		AttrRValueReference:      ClassFlag,
		AttrMacros:               ClassMacPtr,
		AttrCallAllCalls:         ClassFlag,
		AttrCallAllSourceCalls:   ClassFlag,
		AttrCallAllTailCalls:     ClassFlag,
		AttrCallReturnPc:         ClassAddress,
		AttrCallValue:            ClassExprLoc,
		AttrCallOrigin:           ClassExprLoc,
		AttrCallParameter:        ClassReference,
		AttrCallPc:               ClassAddress,
		AttrCallTailCall:         ClassFlag,
		AttrCallTarget:           ClassExprLoc,
		AttrCallTargetClobbered:  ClassExprLoc,
		AttrCallDataLocation:     ClassExprLoc,
		AttrCallDataValue:        ClassExprLoc,
		AttrNoReturn:             ClassFlag,
		AttrAlignment:            ClassConst,
		AttrExportSymbols:        ClassFlag,
		AttrDeleted:              ClassFlag,
		AttrDefaulted:            ClassConst,
		AttrLocListsBase:         ClassLocListPtr,
	}
	attrClassGNU = map[Attr]Class{
		AttrGNUVector:                  ClassFlag,
		AttrGNUGuardedBy:               ClassUndefined,
		AttrGNUPtGuardedBy:             ClassUndefined,
		AttrGNUGuarded:                 ClassUndefined,
		AttrGNUPtGuarded:               ClassUndefined,
		AttrGNULocksExcluded:           ClassUndefined,
		AttrGNUExclusiveLocksRequired:  ClassUndefined,
		AttrGNUSharedLocksRequired:     ClassUndefined,
		AttrGNUOdrSignature:            ClassUndefined,
		AttrGNUTemplateName:            ClassUndefined,
		AttrGNUCallSiteValue:           ClassExprLoc,
		AttrGNUCallSiteDataValue:       ClassExprLoc,
		AttrGNUCallSiteTarget:          ClassExprLoc,
		AttrGNUCallSiteTargetClobbered: ClassExprLoc,
		AttrGNUTailCall:                ClassFlag,
		AttrGNUAllTailCallsSites:       ClassFlag,
		AttrGNUAllCallSites:            ClassFlag,
		AttrGNUAllSourceCallSites:      ClassFlag,
		AttrGNUMacros:                  ClassFlag,
		AttrGNUDeleted:                 ClassUndefined,
		AttrGNUDwoName:                 ClassString,
		AttrGNUDwoId:                   ClassConst,
		AttrGNURangesBase:              ClassUndefined,
		AttrGNUAddrBase:                ClassAddrPtr,
		AttrGNUPubNames:                ClassFlag,
		AttrGNUPubTypes:                ClassUndefined,
		AttrGNUDiscriminator:           ClassConst,
		AttrGNULocViews:                ClassUndefined,
		AttrGNUEntryView:               ClassUndefined,
		AttrGNUDescriptiveType:         ClassUndefined,
		AttrGNUNumerator:               ClassUndefined,
		AttrGNUDenominator:             ClassUndefined,
		AttrGNUBias:                    ClassUndefined,
	}
	attrClassLLVM = map[Attr]Class{
		AttrLLVMIncludePath:  ClassString,
		AttrLLVMConfigMacros: ClassString,
		AttrLLVMSysRoot:      ClassString,
		AttrLLVMTagOffset:    ClassUndefined,
		AttrLLVMApiNotes:     ClassString,
	}
	attrClassAPPLE = map[Attr]Class{
		AttrAPPLEOptimized:         ClassFlag,
		AttrAPPLEFlags:             ClassFlag,
		AttrAPPLEIsa:               ClassFlag,
		AttrAPPLEBlock:             ClassUndefined,
		AttrAPPLEMajorRuntimeVers:  ClassUndefined,
		AttrAPPLERuntimeClass:      ClassUndefined,
		AttrAPPLEOmitFramePtr:      ClassFlag,
		AttrAPPLEPropertyName:      ClassUndefined,
		AttrAPPLEPropertyGetter:    ClassUndefined,
		AttrAPPLEPropertySetter:    ClassUndefined,
		AttrAPPLEPropertyAttribute: ClassUndefined,
		AttrAPPLEObjcCompleteType:  ClassUndefined,
		AttrAPPLEProperty:          ClassUndefined,
		AttrAPPLEObjDirect:         ClassUndefined,
		AttrAPPLESdk:               ClassString,
	}
	attrClassMIPS = map[Attr]Class{
		AttrMIPSFde:                   ClassBlock,
		AttrMIPSLoopBegin:             ClassBlock,
		AttrMIPSTailLoopBegin:         ClassBlock,
		AttrMIPSEpilogBegin:           ClassBlock,
		AttrMIPSLoopUnrollFactor:      ClassBlock,
		AttrMIPSSoftwarePipelineDepth: ClassBlock,
		AttrMIPSLinkageName:           ClassString,
		AttrMIPSStride:                ClassBlock,
		AttrMIPSAbstractName:          ClassString,
		AttrMIPSCloneOrigin:           ClassString,
		AttrMIPSHasInlines:            ClassReference,
		AttrMIPSStrideByte:            ClassReference,
		AttrMIPSStrideElem:            ClassReference,
		AttrMIPSPtrDopeType:           ClassReference,
		AttrMIPSAllocatableDopeType:   ClassReference,
		AttrMIPSAssumedShapeDopeType:  ClassReference,
		AttrMIPSAssumedSize:           ClassReference,
	}
)

// form classes per DWARF version, DWARF 3 shares the DWARF 2 table
var (
	formClassV2 = map[Form]Class{
		FormAddr:     ClassAddress,
		FormBlock2:   ClassBlock,
		FormBlock4:   ClassBlock,
		FormData2:    ClassConst,
		FormData4:    ClassConst,
		FormData8:    ClassConst,
		FormString:   ClassString,
		FormBlock:    ClassBlock,
		FormBlock1:   ClassBlock,
		FormData1:    ClassConst,
		FormFlag:     ClassFlag,
		FormSData:    ClassConst,
		FormStrp:     ClassString,
		FormUData:    ClassConst,
		FormRefAddr:  ClassReference,
		FormRef1:     ClassReference,
		FormRef2:     ClassReference,
		FormRef4:     ClassReference,
		FormRef8:     ClassReference,
		FormRefUData: ClassReference,
		FormIndirect: ClassNull,
	}
	formClassV4 = map[Form]Class{
		FormAddr:        ClassAddress,
		FormBlock2:      ClassBlock,
		FormBlock4:      ClassBlock,
		FormData2:       ClassConst,
		FormData4:       ClassConst,
		FormData8:       ClassConst,
		FormString:      ClassString,
		FormBlock:       ClassBlock,
		FormBlock1:      ClassBlock,
		FormData1:       ClassConst,
		FormFlag:        ClassFlag,
		FormSData:       ClassConst,
		FormStrp:        ClassString,
		FormUData:       ClassConst,
		FormRefAddr:     ClassReference,
		FormRef1:        ClassReference,
		FormRef2:        ClassReference,
		FormRef4:        ClassReference,
		FormRef8:        ClassReference,
		FormRefUData:    ClassReference,
		FormIndirect:    ClassNull,
		FormSecOffset:   ClassLinePtr | ClassLocListPtr | ClassMacPtr | ClassRngListPtr,
		FormExprLoc:     ClassExprLoc,
		FormFlagPresent: ClassFlag,
		FormRefSig8:     ClassReference,
	}
	formClassV5 = map[Form]Class{
		FormAddr:          ClassAddress,
		FormBlock2:        ClassBlock,
		FormBlock4:        ClassBlock,
		FormData2:         ClassConst,
		FormData4:         ClassConst,
		FormData8:         ClassConst,
		FormString:        ClassString,
		FormBlock:         ClassBlock,
		FormBlock1:        ClassBlock,
		FormData1:         ClassConst,
		FormFlag:          ClassFlag,
		FormSData:         ClassConst,
		FormStrp:          ClassString,
		FormUData:         ClassConst,
		FormRefAddr:       ClassReference,
		FormRef1:          ClassReference,
		FormRef2:          ClassReference,
		FormRef4:          ClassReference,
		FormRef8:          ClassReference,
		FormRefUData:      ClassReference,
		FormIndirect:      ClassNull,
		FormSecOffset:     ClassAddrPtr | ClassLinePtr | ClassLocList | ClassLocListPtr | ClassMacPtr | ClassRngList | ClassRngListPtr | ClassStrOffsetsPtr,
		FormExprLoc:       ClassExprLoc,
		FormFlagPresent:   ClassFlag,
		FormRefSig8:       ClassReference,
		FormStrx:          ClassString,
		FormAddrx:         ClassAddress,
		FormRefSup4:       ClassReference,
		FormStrpSup:       ClassString,
		FormData16:        ClassConst,
		FormLineStrp:      ClassString,
		FormImplicitConst: ClassConst,
		FormLocListx:      ClassLocListPtr,
		FormRngListx:      ClassRngList,
		FormRefSup8:       ClassReference,
		FormStrx1:         ClassString,
		FormStrx2:         ClassString,
		FormStrx3:         ClassString,
		FormStrx4:         ClassString,
		FormAddrx1:        ClassAddress,
		FormAddrx2:        ClassAddress,
		FormAddrx3:        ClassAddress,
		FormAddrx4:        ClassAddress,
	}
	formClassGNU = map[Form]Class{
		FormGNUAddrIndex: ClassUndefined,
		FormGNUStrIndex:  ClassUndefined,
		FormGNURefAlt:    ClassUndefined,
		FormGNUStrpAlt:   ClassString,
	}
)
