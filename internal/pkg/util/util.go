package util

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// IsNil 同時檢查介面的型別與值，typed nil 也視為 nil
func IsNil(i interface{}) bool {
	if i == nil {
		return true
	}

	switch reflect.TypeOf(i).Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Func, reflect.Interface:
		return reflect.ValueOf(i).IsNil()
	}

	return false
}

func GenerateID() string {
	return uuid.New().String()
}

// FormatOrderReference 格式 EH-<year>-<序號>，序號至少補滿六位，超過時直接變長
func FormatOrderReference(t time.Time, seq int64) string {
	return fmt.Sprintf("EH-%d-%06d", t.Year(), seq)
}
