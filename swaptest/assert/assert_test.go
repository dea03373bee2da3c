package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/pairswap/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper()                       {}
func (r *recorder) Fatal(...interface{})          { r.failed = true }
func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestNil(t *testing.T) {
	var nilptr *int
	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"nil":              {value: nil},
		"typed nil":        {value: nilptr},
		"nil error":        {value: error(nil)},
		"integer":          {value: 1, wantFail: true},
		"non nil error":    {value: fmt.Errorf("x"), wantFail: true},
		"empty non nil sl": {value: []int{}, wantFail: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var r recorder
			Nil(&r, tc.value)
			if r.failed != tc.wantFail {
				t.Fatalf("want fail %v, got %v", tc.wantFail, r.failed)
			}
		})
	}
}

func TestIsErr(t *testing.T) {
	var r recorder
	IsErr(&r, errors.ErrNotFound, errors.Wrap(errors.ErrNotFound, "wrapped"))
	if r.failed {
		t.Fatal("wrapped error must match")
	}

	IsErr(&r, errors.ErrNotFound, errors.ErrDuplicate)
	if !r.failed {
		t.Fatal("different errors must not match")
	}

	r = recorder{}
	IsErr(&r, nil, errors.ErrDuplicate)
	if !r.failed {
		t.Fatal("no error expected")
	}
}

func TestPanics(t *testing.T) {
	var r recorder
	Panics(&r, func() { panic("boom") })
	if r.failed {
		t.Fatal("panic not detected")
	}
	Panics(&r, func() {})
	if !r.failed {
		t.Fatal("missing panic not detected")
	}
}
