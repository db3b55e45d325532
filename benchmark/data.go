package benchmark

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

const (
	flatFieldCount = 145
	deepNesting    = 5
	deepFanout     = 3
	arrayLength    = 256
	blobSize       = 4096

	// corpusSeed fixes the generated documents so every run measures the
	// same bytes.
	corpusSeed = 271828
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func corpusRand() *rand.Rand { return rand.New(rand.NewSource(corpusSeed)) }

func randomUUID(r *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		panic(err)
	}
	return id.String()
}

func randomString(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return string(b)
}

// makeFlatDocument builds a wide single-level document with the field mix
// of a typical API payload: identifiers, counters, measurements, flags,
// and free text.
func makeFlatDocument() map[string]interface{} {
	r := corpusRand()
	doc := make(map[string]interface{}, flatFieldCount)
	for i := 0; i < flatFieldCount; i++ {
		key := "field_" + strconv.Itoa(i)
		switch i % 5 {
		case 0:
			doc[key] = randomUUID(r)
		case 1:
			doc[key] = r.Int63n(1 << 40)
		case 2:
			doc[key] = r.Float64() * 1000
		case 3:
			doc[key] = r.Intn(2) == 0
		default:
			doc[key] = randomString(r, 8+r.Intn(48))
		}
	}
	return doc
}

func makeDeepDocument() map[string]interface{} {
	r := corpusRand()
	return deepMap(r, deepNesting)
}

func deepMap(r *rand.Rand, depth int) map[string]interface{} {
	doc := map[string]interface{}{
		"id":     randomUUID(r),
		"weight": r.Float64(),
	}
	if depth == 0 {
		doc["leaf"] = true
		return doc
	}
	for i := 0; i < deepFanout; i++ {
		doc["child_"+strconv.Itoa(i)] = deepMap(r, depth-1)
	}
	return doc
}

func makeLargeArrayDocument() map[string]interface{} {
	r := corpusRand()

	ints := make([]int64, arrayLength)
	floats := make([]float64, arrayLength)
	words := make([]string, arrayLength)
	mixed := make([]interface{}, arrayLength)
	for i := 0; i < arrayLength; i++ {
		ints[i] = r.Int63n(1 << 40)
		floats[i] = r.Float64() * 1000
		words[i] = randomString(r, 16)
		switch i % 3 {
		case 0:
			mixed[i] = randomUUID(r)
		case 1:
			mixed[i] = r.Int63n(1 << 30)
		default:
			mixed[i] = r.Intn(2) == 0
		}
	}

	return map[string]interface{}{
		"ints":   ints,
		"floats": floats,
		"words":  words,
		"mixed":  mixed,
	}
}

func makeBytesDocument() map[string]interface{} {
	r := corpusRand()

	payload := make([]byte, blobSize)
	checksum := make([]byte, 32)
	r.Read(payload)
	r.Read(checksum)

	return map[string]interface{}{
		"id":       randomUUID(r),
		"payload":  payload,
		"checksum": checksum,
	}
}
