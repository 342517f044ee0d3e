//go:build pprof

package profile

import (
	"reflect"
	"testing"
)

func TestCompileModeAliasesCPU(t *testing.T) {
	compileFn, ok := mode["compile"]
	if !ok {
		t.Fatal(`expected "compile" to be a registered mode`)
	}

	cpuFn, ok := mode["cpu"]
	if !ok {
		t.Fatal(`expected "cpu" to be a registered mode`)
	}

	compilePtr := reflect.ValueOf(compileFn).Pointer()
	cpuPtr := reflect.ValueOf(cpuFn).Pointer()

	if compilePtr != cpuPtr {
		t.Errorf(`expected "compile" to alias "cpu", got different underlying functions`)
	}
}

func TestModes_OmitsQuietAndIncludesCompile(t *testing.T) {
	modes := Modes()

	var sawCompile, sawQuiet bool

	for _, m := range modes {
		switch m {
		case "compile":
			sawCompile = true
		case "quiet":
			sawQuiet = true
		}
	}

	if !sawCompile {
		t.Error(`expected Modes() to include "compile"`)
	}
	if sawQuiet {
		t.Error(`expected Modes() to omit "quiet"`)
	}
}
