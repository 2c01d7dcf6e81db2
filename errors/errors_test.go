package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidInput,
				Path:   []string{"fields", "c"},
				Type:   "i32",
				Detail: "unknown field type",
			},
			contains: []string{"[parse]", "invalid_input", "fields.c", "type i32", " - unknown field type"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseProbe,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[probe]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseSave,
				Kind:   KindIO,
				Detail: "fields.yaml",
				Cause:  errors.New("disk full"),
			},
			contains: []string{"[save]", "io", ": fields.yaml", "caused by", "disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseCheck,
		Kind:  KindMismatch,
		Path:  []string{"b"},
	}

	if !err.Is(&Error{Phase: PhaseCheck, Kind: KindMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseProbe, Kind: KindMismatch}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseCheck, Kind: KindUnsupported}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseCheck, Kind: KindMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseParse, KindInvalidInput).
		Path("fields", "b").
		Type("u7").
		Value("u7").
		Cause(cause).
		Detail("unknown field type %q", "u7").
		Build()

	if err.Phase != PhaseParse {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
	}
	if err.Kind != KindInvalidInput {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
	}
	if len(err.Path) != 2 || err.Path[0] != "fields" || err.Path[1] != "b" {
		t.Errorf("Path = %v, want [fields b]", err.Path)
	}
	if err.Type != "u7" {
		t.Errorf("Type = %v, want 'u7'", err.Type)
	}
	if err.Value != "u7" {
		t.Errorf("Value = %v, want u7", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `unknown field type "u7"` {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseValidate, "cell width must be positive")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseCheck, "u128", "no canonical ABI primitive")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
		if err.Type != "u128" {
			t.Errorf("Type = %v, want u128", err.Type)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseProbe, []string{"memory"}, 70000, 65536)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != int64(70000) {
			t.Errorf("Value = %v, want 70000", err.Value)
		}
		if !strings.Contains(err.Detail, "65536") {
			t.Errorf("Detail = %v, should contain length", err.Detail)
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		err := Mismatch(PhaseCheck, []string{"size"}, "record size", 12, 16)
		if err.Kind != KindMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMismatch)
		}
		if err.Detail != "record size: got 12, want 16" {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseProbe, "export", "memory")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})

	t.Run("IO", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := IO(PhaseSave, "/tmp/x", cause)
		if err.Kind != KindIO || !errors.Is(err, cause) {
			t.Errorf("IO error = %v", err)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("bad yaml")
		err := Wrap(PhaseLoad, KindInvalidData, cause, "decode state")
		if !errors.Is(err, &Error{Phase: PhaseLoad, Kind: KindInvalidData}) {
			t.Error("Wrap should match load/invalid_data")
		}
	})
}
