package resp

func hasError(err error) bool {
	return err != nil
}

func isEmpty(buf []byte) bool {
	return len(buf) == 0
}

func isDecimal(line []byte) bool {
	if isEmpty(line) {
		return false
	}

	for _, char := range line {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}
