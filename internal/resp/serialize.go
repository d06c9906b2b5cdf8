package resp

import (
	"strconv"

	"github.com/tidwall/redcon"
)

func Serialize(value Value) []byte {
	return Append(nil, value)
}

func SerializeMany(values ...Value) []byte {
	var dst []byte

	for _, value := range values {
		dst = Append(dst, value)
	}

	return dst
}

// Append writes the framed value to dst.
func Append(dst []byte, value Value) []byte {
	switch value.kind {
	case KindSimpleString:
		return redcon.AppendString(dst, string(value.text))
	case KindError:
		return redcon.AppendError(dst, string(value.text))
	case KindInteger:
		return redcon.AppendInt(dst, value.num)
	case KindBulk:
		return redcon.AppendBulk(dst, value.text)
	case KindNull:
		return redcon.AppendNull(dst)
	case KindNullArray:
		return append(dst, nullArrayFrame...)
	case KindRaw:
		return appendRaw(dst, value.text)
	case KindArray:
		dst = redcon.AppendArray(dst, len(value.items))
		for _, item := range value.items {
			dst = Append(dst, item)
		}
		return dst
	}

	return dst
}

func appendRaw(dst, payload []byte) []byte {
	dst = append(dst, bulkSigil)
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, crlf...)
	return append(dst, payload...)
}
