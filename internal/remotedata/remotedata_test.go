package remotedata

import (
	"errors"
	"strconv"
	"testing"
)

func TestZeroValueIsNotAsked(t *testing.T) {
	var d Data[string]
	if !d.IsNotAsked() {
		t.Errorf("zero value state = %v, want not_asked", d.State())
	}
	if _, ok := d.Value(); ok {
		t.Error("zero value should not carry a payload")
	}
	if d.Reason() != nil {
		t.Errorf("zero value reason = %v, want nil", d.Reason())
	}
}

func TestConstructors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		data  Data[int]
		state State
		value int
		ok    bool
		err   error
	}{
		{"not asked", NewNotAsked[int](), NotAsked, 0, false, nil},
		{"loading", NewLoading[int](), Loading, 0, false, nil},
		{"failure", Failure[int](boom), Failed, 0, false, boom},
		{"success", Success(42), Succeeded, 42, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.data.State() != tt.state {
				t.Errorf("State() = %v, want %v", tt.data.State(), tt.state)
			}
			v, ok := tt.data.Value()
			if v != tt.value || ok != tt.ok {
				t.Errorf("Value() = (%d, %v), want (%d, %v)", v, ok, tt.value, tt.ok)
			}
			if tt.data.Reason() != tt.err {
				t.Errorf("Reason() = %v, want %v", tt.data.Reason(), tt.err)
			}
		})
	}
}

func TestWithDefault(t *testing.T) {
	if got := NewLoading[string]().WithDefault("x"); got != "x" {
		t.Errorf("WithDefault on loading = %q, want %q", got, "x")
	}
	if got := Success("key").WithDefault("x"); got != "key" {
		t.Errorf("WithDefault on success = %q, want %q", got, "key")
	}
}

func TestMatchVisitsEveryVariant(t *testing.T) {
	cases := Cases[int, string]{
		NotAsked: func() string { return "idle" },
		Loading:  func() string { return "busy" },
		Failure:  func(err error) string { return "err:" + err.Error() },
		Success:  func(v int) string { return "ok:" + strconv.Itoa(v) },
	}

	tests := []struct {
		data Data[int]
		want string
	}{
		{NewNotAsked[int](), "idle"},
		{NewLoading[int](), "busy"},
		{Failure[int](errors.New("down")), "err:down"},
		{Success(7), "ok:7"},
	}

	for _, tt := range tests {
		if got := Match(tt.data, cases); got != tt.want {
			t.Errorf("Match(%v) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestMapKeepsNonSuccessVariants(t *testing.T) {
	boom := errors.New("boom")
	double := func(v int) int { return v * 2 }

	if got := Map(Success(21), double); got != Success(42) {
		t.Errorf("Map(Success(21)) = %v, want Success(42)", got)
	}
	if got := Map(NewLoading[int](), double); !got.IsLoading() {
		t.Errorf("Map(Loading) = %v, want loading", got)
	}
	if got := Map(Failure[int](boom), double); got.Reason() != boom {
		t.Errorf("Map(Failure) reason = %v, want %v", got.Reason(), boom)
	}
	if got := Map(NewNotAsked[int](), double); !got.IsNotAsked() {
		t.Errorf("Map(NotAsked) = %v, want not_asked", got)
	}
}
