package jsonenc

import (
	"net/url"
	"reflect"
	"time"
)

var tBool = reflect.TypeOf(false)
var tString = reflect.TypeOf("")
var tTime = reflect.TypeOf(time.Time{})
var tURL = reflect.TypeOf(url.URL{})
