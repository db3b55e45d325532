package jsonenc

import (
	"reflect"
	"strings"
	"sync"

	"github.com/amplora/encoders"
	"github.com/pkg/errors"
)

// StructEncoder is an ObjectEncoder for struct values, driven by `json`
// struct tags: a tag renames the member, ",omitempty" drops zero values,
// "-" skips the field, and unexported fields are ignored. Members are
// written in declaration order. Anonymous embedded struct fields without a
// tag name are flattened into the outer object; an embedded pointer is
// treated as a regular field.
//
// One StructEncoder serves any number of struct types; register it per
// type. Field descriptions are cached, so it is safe for concurrent use
// once registered.
type StructEncoder struct {
	cache map[reflect.Type]*structDescription
	l     sync.RWMutex
}

var _ encoders.ObjectEncoder = &StructEncoder{}

// NewStructEncoder returns a StructEncoder.
func NewStructEncoder() *StructEncoder {
	return &StructEncoder{
		cache: make(map[reflect.Type]*structDescription),
	}
}

// Encode handles encoding generic struct types.
func (se *StructEncoder) Encode(v interface{}, ctx encoders.ObjectEncoderContext) error {
	val := reflect.ValueOf(v)
	for {
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
			continue
		}

		break
	}

	if val.Kind() != reflect.Struct {
		return encoders.NewEncodingErrorf("StructEncoder can only encode valid structs, but got %T", v)
	}

	sd, err := se.describeStruct(val.Type())
	if err != nil {
		return err
	}

	var rv reflect.Value
	for _, desc := range sd.fl {
		if desc.inline == nil {
			rv = val.Field(desc.idx)
		} else {
			rv = val.FieldByIndex(desc.inline)
		}

		if desc.omitEmpty && se.isZero(rv.Interface()) {
			continue
		}

		ctx.Add(desc.name, rv.Interface())
	}

	return nil
}

func (se *StructEncoder) isZero(i interface{}) bool {
	v := reflect.ValueOf(i)
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}

	return false
}

type structDescription struct {
	fm map[string]fieldDescription
	fl []fieldDescription
}

type fieldDescription struct {
	name      string
	idx       int
	omitEmpty bool
	inline    []int
}

func (se *StructEncoder) describeStruct(t reflect.Type) (*structDescription, error) {
	// We need to analyze the struct, including getting the tags, collecting
	// information about embedded fields, and create a map of the member
	// name to the field.
	se.l.RLock()
	ds, exists := se.cache[t]
	se.l.RUnlock()
	if exists {
		return ds, nil
	}

	numFields := t.NumField()
	sd := &structDescription{
		fm: make(map[string]fieldDescription, numFields),
		fl: make([]fieldDescription, 0, numFields),
	}

	for i := 0; i < numFields; i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			// unexported, ignore
			continue
		}

		stags := parseStructTags(sf)
		if stags.Skip {
			continue
		}

		if sf.Anonymous && stags.Name == "" && sf.Type.Kind() == reflect.Struct {
			inlinesf, err := se.describeStruct(sf.Type)
			if err != nil {
				return nil, err
			}
			for _, fd := range inlinesf.fl {
				if _, exists := sd.fm[fd.name]; exists {
					return nil, errors.Errorf("(struct %s) duplicated key %s", t.String(), fd.name)
				}
				if fd.inline == nil {
					fd.inline = []int{i, fd.idx}
				} else {
					fd.inline = append([]int{i}, fd.inline...)
				}
				sd.fm[fd.name] = fd
				sd.fl = append(sd.fl, fd)
			}
			continue
		}

		description := fieldDescription{idx: i, omitEmpty: stags.OmitEmpty}
		description.name = stags.Name
		if description.name == "" {
			description.name = sf.Name
		}

		if _, exists := sd.fm[description.name]; exists {
			return nil, errors.Errorf("(struct %s) duplicated key %s", t.String(), description.name)
		}

		sd.fm[description.name] = description
		sd.fl = append(sd.fl, description)
	}

	se.l.Lock()
	se.cache[t] = sd
	se.l.Unlock()

	return sd, nil
}

// structTags represents the `json` struct tag fields the StructEncoder
// uses. The tag format accepted is
//
//	`json:"[<key>][,<flag1>[,<flag2>]]"`
//
// A tag of "-" skips the field. The first comma-separated part is always
// the member name; an empty name keeps the Go field name.
type structTags struct {
	Name      string
	OmitEmpty bool
	Skip      bool
}

func parseStructTags(sf reflect.StructField) *structTags {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return &structTags{}
	}
	return parseTags(tag)
}

func parseTags(tag string) *structTags {
	var st structTags
	if tag == "-" {
		st.Skip = true
		return &st
	}

	for idx, str := range strings.Split(tag, ",") {
		if idx == 0 {
			st.Name = str
			continue
		}
		switch str {
		case "omitempty":
			st.OmitEmpty = true
		}
	}

	return &st
}
