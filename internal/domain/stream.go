package domain

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/luiz-simples/replikv.git/internal/resp"
)

type (
	StreamID struct {
		Ms  uint64
		Seq uint64
	}

	// StreamIDSpec is an explicit XADD id, optionally with a generated sequence.
	StreamIDSpec struct {
		Ms      uint64
		Seq     uint64
		AutoSeq bool
	}

	StreamEntry struct {
		ID     StreamID
		Fields []Field
	}

	StreamQuery struct {
		Key    []byte
		After  StreamID
		Latest bool
	}

	StreamRead struct {
		Key     []byte
		Entries []StreamEntry
	}
)

var (
	MinStreamID = StreamID{}
	MaxStreamID = StreamID{Ms: math.MaxUint64, Seq: math.MaxUint64}
)

func (id StreamID) String() string {
	return strconv.FormatUint(id.Ms, 10) + "-" + strconv.FormatUint(id.Seq, 10)
}

func (id StreamID) Compare(other StreamID) int {
	switch {
	case id.Ms < other.Ms:
		return -1
	case id.Ms > other.Ms:
		return 1
	case id.Seq < other.Seq:
		return -1
	case id.Seq > other.Seq:
		return 1
	}

	return 0
}

func (id StreamID) Less(other StreamID) bool {
	return id.Compare(other) < 0
}

func (id StreamID) IsZero() bool {
	return id == MinStreamID
}

func (spec StreamIDSpec) String() string {
	if spec.AutoSeq {
		return strconv.FormatUint(spec.Ms, 10) + "-*"
	}

	return StreamID{Ms: spec.Ms, Seq: spec.Seq}.String()
}

func (query StreamQuery) Cursor() string {
	if query.Latest {
		return "$"
	}

	return query.After.String()
}

func (entry StreamEntry) Value() resp.Value {
	fields := make([]resp.Value, 0, len(entry.Fields)*2)
	for _, field := range entry.Fields {
		fields = append(fields, resp.NewBulk(field.Name), resp.NewBulk(field.Value))
	}

	return resp.NewArray(resp.NewBulkString(entry.ID.String()), resp.NewArray(fields...))
}

// ParseStreamID reads "ms-seq" or a bare "ms", filling the sequence with missingSeq.
func ParseStreamID(text []byte, missingSeq uint64) (StreamID, error) {
	msText, seqText, hasSeq := bytes.Cut(text, []byte("-"))

	ms, err := strconv.ParseUint(string(msText), 10, 64)
	if hasError(err) {
		return StreamID{}, invalidStreamID()
	}

	if !hasSeq {
		return StreamID{Ms: ms, Seq: missingSeq}, nil
	}

	seq, err := strconv.ParseUint(string(seqText), 10, 64)
	if hasError(err) {
		return StreamID{}, invalidStreamID()
	}

	return StreamID{Ms: ms, Seq: seq}, nil
}

func parseRangeBound(text []byte, missingSeq uint64) (StreamID, error) {
	switch string(text) {
	case "-":
		return MinStreamID, nil
	case "+":
		return MaxStreamID, nil
	}

	return ParseStreamID(text, missingSeq)
}

func parseStreamIDSpec(text []byte) (StreamIDSpec, bool, error) {
	if string(text) == "*" {
		return StreamIDSpec{}, true, nil
	}

	if msText, found := strings.CutSuffix(string(text), "-*"); found {
		ms, err := strconv.ParseUint(msText, 10, 64)
		if hasError(err) {
			return StreamIDSpec{}, false, invalidStreamID()
		}

		return StreamIDSpec{Ms: ms, AutoSeq: true}, false, nil
	}

	id, err := ParseStreamID(text, 0)
	if hasError(err) {
		return StreamIDSpec{}, false, err
	}

	return StreamIDSpec{Ms: id.Ms, Seq: id.Seq}, false, nil
}

func invalidStreamID() error {
	return NewMalformedError("ERR Invalid stream ID specified as stream command argument")
}
