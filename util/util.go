package util

import (
	"encoding/base64"
	"strconv"
)

// StringToUint64 converts string to uint64
func StringToUint64(str string) (uint64, error) {
	ui64, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return ui64, nil
}

// StringToInt64 converts string to int64
func StringToInt64(str string) (int64, error) {
	i64, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return i64, nil
}

// Uint64ToString coverts uint64 to string
func Uint64ToString(u uint64) string {
	return strconv.FormatUint(u, 10)
}

// Int64ToString coverts int64 to string
func Int64ToString(u int64) string {
	return strconv.FormatInt(u, 10)
}

// DecodeInstructionData converts an instruction data string into the raw bytes
// stored in the instruction table. Data is usually base64; anything that fails
// to decode is stored as its raw bytes instead of being dropped.
func DecodeInstructionData(data string) []byte {
	if data == "" {
		return []byte{}
	}
	if bz, err := base64.StdEncoding.DecodeString(data); err == nil {
		return bz
	}
	return []byte(data)
}
