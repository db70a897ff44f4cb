package merge

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ardanlabs/c2ffi/cdecl"
)

var locationType = reflect.TypeFor[cdecl.Location]()

// Fingerprint hashes the structure of a declaration. Locations do not take
// part, so the same declaration read from different files or lines on two
// platforms hashes the same.
func Fingerprint(n cdecl.Node) uint64 {
	d := xxhash.New()
	writeValue(d, reflect.ValueOf(n))
	return d.Sum64()
}

func writeValue(d *xxhash.Digest, v reflect.Value) {
	if !v.IsValid() {
		d.WriteString("<nil>")
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			d.WriteString("<nil>")
			return
		}
		if v.Kind() == reflect.Pointer {
			d.WriteString("*")
		}
		writeValue(d, v.Elem())

	case reflect.Struct:
		if v.Type() == locationType {
			return
		}
		d.WriteString(v.Type().Name())
		d.WriteString("{")
		for i := range v.NumField() {
			d.WriteString(v.Type().Field(i).Name)
			d.WriteString(":")
			writeValue(d, v.Field(i))
			d.WriteString(";")
		}
		d.WriteString("}")

	case reflect.Slice, reflect.Array:
		d.WriteString("[" + strconv.Itoa(v.Len()) + "]")
		for i := range v.Len() {
			writeValue(d, v.Index(i))
			d.WriteString(",")
		}

	case reflect.Map:
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		d.WriteString("map[" + strconv.Itoa(len(keys)) + "]")
		for _, k := range keys {
			writeValue(d, k)
			d.WriteString("=")
			writeValue(d, v.MapIndex(k))
			d.WriteString(",")
		}

	case reflect.String:
		d.WriteString(strconv.Quote(v.String()))

	case reflect.Bool:
		d.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		d.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		d.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))

	default:
		d.WriteString(v.Kind().String())
	}
}
