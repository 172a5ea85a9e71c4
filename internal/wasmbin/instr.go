package wasmbin

// Instruction helpers for assembling function bodies. Each returns the raw
// bytes of one instruction; Body concatenates them.

func I32Const(v int32) []byte {
	return append([]byte{0x41}, EncodeSLEB128(v)...)
}

func LocalGet(idx uint32) []byte {
	return append([]byte{0x20}, EncodeULEB128(idx)...)
}

func Call(funcIdx uint32) []byte {
	return append([]byte{0x10}, EncodeULEB128(funcIdx)...)
}

func Drop() []byte {
	return []byte{0x1a}
}

func Body(instrs ...[]byte) []byte {
	var body []byte
	for _, ins := range instrs {
		body = append(body, ins...)
	}
	return body
}
