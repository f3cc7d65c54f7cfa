package main

import "testing"

func TestGetVersion_Default(t *testing.T) {
	saved := version
	defer func() { version = saved }()

	version = ""
	if got := getVersion(); got == "" {
		t.Error("getVersion() returned empty string")
	}
}

func TestGetVersion_Ldflags(t *testing.T) {
	saved := version
	defer func() { version = saved }()

	version = "v1.2.3"
	if got := getVersion(); got != "v1.2.3" {
		t.Errorf("getVersion() = %q, want v1.2.3", got)
	}
}
