package router

import "bytes"

func hasError(err error) bool {
	return err != nil
}

func isEmpty(key []byte) bool {
	return len(key) == 0
}

func canonical(name []byte) []byte {
	return bytes.ToUpper(bytes.TrimSpace(name))
}

func commonPrefix(left, right []byte) int {
	limit := min(len(left), len(right))

	for index := range limit {
		if left[index] != right[index] {
			return index
		}
	}

	return limit
}
