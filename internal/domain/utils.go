package domain

import (
	"strconv"
	"strings"
)

const (
	commandArg = 0
	firstArg   = 1
	secondArg  = 2
	thirdArg   = 3
)

func hasError(err error) bool {
	return err != nil
}

func isValid(validation Validation, name string, argCount int) error {
	if argCount < validation.MinArgs {
		return NewArgsError(name)
	}

	if validation.MaxArgs > 0 && argCount > validation.MaxArgs {
		return NewArgsError(name)
	}

	return nil
}

func normalize(arg []byte) string {
	return strings.ToUpper(strings.TrimSpace(string(arg)))
}

func lower(text string) string {
	return strings.ToLower(text)
}

func itoa(num int) string {
	return strconv.Itoa(num)
}

func formatInt(num int64) []byte {
	return []byte(strconv.FormatInt(num, 10))
}

func parseInt(arg []byte) (int64, error) {
	num, err := strconv.ParseInt(string(arg), 10, 64)
	if hasError(err) {
		return 0, NewMalformedError("ERR value is not an integer or out of range")
	}

	return num, nil
}

func parsePositive(arg []byte) (int64, error) {
	num, err := parseInt(arg)
	if hasError(err) {
		return 0, err
	}

	if num <= 0 {
		return 0, NewMalformedError("ERR invalid expire time in 'set' command")
	}

	return num, nil
}
