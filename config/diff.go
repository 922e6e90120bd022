package config

import (
	"reflect"
	"strings"
)

func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := reflect.Indirect(reflect.ValueOf(old))
	newVal := reflect.Indirect(reflect.ValueOf(new))
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if !reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			evt.ChangedKeys = append(evt.ChangedKeys, keyName(field))
		}
	}
	return evt
}

// keyName is the `config` tag name of field, or its Go name when untagged.
func keyName(field reflect.StructField) string {
	tag, _, _ := strings.Cut(field.Tag.Get(tagName), ",")
	if tag == "" || tag == "-" {
		return field.Name
	}
	return tag
}
