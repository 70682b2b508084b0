package luatable

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// tagName is the struct tag consulted before the json tag.
const tagName = "lua"

func init() {
	sentinel.Tag(tagName)
}

// fieldPlan describes how one struct field becomes a table entry.
type fieldPlan struct {
	index     []int
	name      string
	omitEmpty bool
}

var (
	plans   = make(map[reflect.Type][]fieldPlan)
	plansMu sync.RWMutex
)

// Register scans T ahead of first use so its field plan is cached.
// Registration is optional; unregistered structs are scanned on demand.
func Register[T any]() {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return
	}
	sentinel.Scan[T]()
	structPlan(rt)
}

// Reset clears the field plan cache.
// This is primarily useful for test isolation.
func Reset() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type][]fieldPlan)
}

// structPlan returns the cached field plan for rt, building it on first use.
func structPlan(rt reflect.Type) []fieldPlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	// Double-check pattern
	if cached, ok := plans[rt]; ok {
		return cached
	}

	plan := buildFieldPlan(rt, structMetadata(rt))
	plans[rt] = plan
	return plan
}

// structMetadata returns sentinel metadata for rt, scanning it with
// reflection when sentinel has not seen the type.
func structMetadata(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        nameTags(sf.Tag),
			Kind:        sentinel.KindScalar,
		})
	}

	return meta
}

// nameTagKeys are the tags that can rename a field, in precedence order.
var nameTagKeys = []string{tagName, "json"}

// nameTags extracts the tags that can rename a field.
func nameTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, key := range nameTagKeys {
		if val, ok := tag.Lookup(key); ok {
			tags[key] = val
		}
	}
	return tags
}

func buildFieldPlan(rt reflect.Type, meta sentinel.Metadata) []fieldPlan {
	out := make([]fieldPlan, 0, len(meta.Fields))
	for _, field := range meta.Fields {
		if len(field.Index) == 0 {
			continue
		}
		sf := rt.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}

		tag, ok := nameTag(field.Tags)
		if !ok {
			// sentinel may not carry every tag
			tag, _ = nameTag(nameTags(sf.Tag))
		}
		if tag == "-" {
			continue
		}

		name, options, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		out = append(out, fieldPlan{
			index:     field.Index,
			name:      name,
			omitEmpty: hasOption(options, "omitempty"),
		})
	}
	return out
}

// nameTag returns the highest-precedence renaming tag in tags.
func nameTag(tags map[string]string) (string, bool) {
	for _, key := range nameTagKeys {
		if tag, ok := tags[key]; ok {
			return tag, true
		}
	}
	return "", false
}

func hasOption(options, want string) bool {
	for opt := range strings.SplitSeq(options, ",") {
		if opt == want {
			return true
		}
	}
	return false
}
