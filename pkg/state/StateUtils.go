package state

import "encoding/binary"


//=========================================== Engine State Utils


/*
	scope keyed entries use the big endian encoded scope key as prefix so all
	variables of a scope are adjacent under a bucket cursor
*/

func ConvertKeyToBytes(key int64) []byte {
	byteArray := make([]byte, 8)
	binary.BigEndian.PutUint64(byteArray, uint64(key))

	return byteArray
}

func ConvertBytesToKey(byteArray []byte) int64 {
	if len(byteArray) != 8 { return 0 }

	uintVal := binary.BigEndian.Uint64(byteArray)
	return int64(uintVal)
}

func ScopedKey(scopeKey int64, name string) []byte {
	prefix := ConvertKeyToBytes(scopeKey)
	return append(prefix, []byte(name)...)
}
