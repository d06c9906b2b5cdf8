package resp_test

import (
	"reflect"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

var valueType = reflect.TypeOf(resp.Value{})

// lineGen mixes letters with the CR, VT, FF and LF control bytes.
func lineGen() gopter.Gen {
	return gen.SliceOf(gen.OneGenOf(gen.AlphaChar(), gen.RuneRange('\n', '\r')), reflect.TypeOf(rune(0))).
		Map(func(runes []rune) string { return string(runes) })
}

func simpleStringGen() gopter.Gen {
	return lineGen().Map(func(text string) resp.Value {
		return resp.NewSimpleString(text)
	})
}

func bulkGen() gopter.Gen {
	return gen.SliceOf(gen.UInt8()).Map(func(data []byte) resp.Value {
		return resp.NewBulk(data)
	})
}

func leafGen() gopter.Gen {
	return gen.OneGenOf(
		simpleStringGen(),
		bulkGen(),
		lineGen().Map(func(text string) resp.Value { return resp.NewError(text) }),
		gen.Int64().Map(func(num int64) resp.Value { return resp.NewInteger(num) }),
		gen.Const(resp.NewNull()),
		gen.Const(resp.NewNullArray()),
	)
}

func arrayGen(element gopter.Gen) gopter.Gen {
	return gen.SliceOf(element, valueType).Map(func(items []resp.Value) resp.Value {
		return resp.NewArray(items...)
	})
}

func valueGen() gopter.Gen {
	return gen.OneGenOf(leafGen(), arrayGen(leafGen()), arrayGen(arrayGen(leafGen())))
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.MaxSize = 20
	return gopter.NewProperties(parameters)
}

func decodesOnlyWhenComplete(value resp.Value) bool {
	encoded := resp.Serialize(value)

	for cut := range len(encoded) {
		_, _, err := resp.Deserialize(encoded[:cut])
		if !resp.IsIncomplete(err) {
			return false
		}
	}

	decoded, consumed, err := resp.Deserialize(encoded)
	return err == nil && consumed == len(encoded) && decoded.Equal(value)
}

var _ = Describe("Codec Property-Based Tests", func() {
	It("should satisfy: Deserialize(Serialize(v)) == (v, len(Serialize(v)))", func() {
		properties := newProperties()

		properties.Property("round-trip", prop.ForAll(
			func(value resp.Value) bool {
				encoded := resp.Serialize(value)
				decoded, consumed, err := resp.Deserialize(encoded)

				return err == nil && consumed == len(encoded) && decoded.Equal(value)
			},
			valueGen(),
		))

		Expect(properties.Run(gopter.ConsoleReporter(false))).To(BeTrue())
	})

	It("should never decode a value before its last byte arrives", func() {
		properties := newProperties()

		properties.Property("simple string byte by byte", prop.ForAll(decodesOnlyWhenComplete, simpleStringGen()))
		properties.Property("bulk string byte by byte", prop.ForAll(decodesOnlyWhenComplete, bulkGen()))
		properties.Property("array of three byte by byte", prop.ForAll(
			decodesOnlyWhenComplete,
			gen.SliceOfN(3, leafGen(), valueType).Map(func(items []resp.Value) resp.Value {
				return resp.NewArray(items...)
			}),
		))

		Expect(properties.Run(gopter.ConsoleReporter(false))).To(BeTrue())
	})

	It("should keep concatenated frames independent", func() {
		properties := newProperties()

		properties.Property("two frames", prop.ForAll(
			func(first, second resp.Value) bool {
				encoded := resp.SerializeMany(first, second)

				decoded, consumed, err := resp.Deserialize(encoded)
				if err != nil || !decoded.Equal(first) {
					return false
				}

				decoded, rest, err := resp.Deserialize(encoded[consumed:])
				return err == nil && decoded.Equal(second) && consumed+rest == len(encoded)
			},
			valueGen(), valueGen(),
		))

		Expect(properties.Run(gopter.ConsoleReporter(false))).To(BeTrue())
	})
})
